package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"panelcli/internal/infrastructure"
)

// Manager executes the pipeline steps strictly in order. A step only starts
// once the previous step has fully completed, and the first failure aborts
// the run with no partial output.
type Manager struct {
	steps  []Step
	logger *slog.Logger
	tracer *Tracer
}

// NewManager creates a pipeline manager with the given steps
func NewManager(steps []Step, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		steps:  steps,
		logger: logger,
	}
}

// WithTracer attaches OpenTelemetry instrumentation to the manager
func (m *Manager) WithTracer(tracer *Tracer) *Manager {
	m.tracer = tracer
	return m
}

// Run executes all steps against a fresh run state and returns it. The
// returned state carries every table the steps produced; on failure the
// state's Error field holds the same error Run returns.
func (m *Manager) Run(ctx context.Context, opts Options) (*RunState, error) {
	runID := infrastructure.GenerateRunID()
	ctx = infrastructure.WithRunID(ctx, runID)

	state := NewRunState(runID, opts)
	state.Start()

	logger := m.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "Pipeline run starting",
		slog.String("input", opts.InputPath),
		slog.Int("steps", len(m.steps)))

	var runSpan spanRecorder
	if m.tracer != nil {
		var span trace.Span
		ctx, span = m.tracer.TraceRun(ctx, runID, opts.InputPath)
		runSpan = func(duration time.Duration, err error) {
			m.tracer.RecordRunCompletion(ctx, span, duration, int64(len(state.Rows)), err)
			span.End()
		}
	}

	start := time.Now()
	err := m.runSteps(ctx, state, logger)
	duration := time.Since(start)

	if runSpan != nil {
		runSpan(duration, err)
	}

	if err != nil {
		state.Fail(err)
		logger.ErrorContext(ctx, "Pipeline run failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return state, err
	}

	state.Complete()
	logger.InfoContext(ctx, "Pipeline run completed",
		slog.Duration("duration", duration),
		slog.Int("rows", len(state.Rows)))
	return state, nil
}

type spanRecorder func(duration time.Duration, err error)

func (m *Manager) runSteps(ctx context.Context, state *RunState, logger *slog.Logger) error {
	for _, step := range m.steps {
		if err := ctx.Err(); err != nil {
			return WrapError(err, step.ID(), "run cancelled")
		}

		stepState := NewStepState(step.ID(), step.Name())
		state.SetStep(step.ID(), stepState)

		if err := step.Validate(state); err != nil {
			stepState.Fail(err)
			return WrapError(err, step.ID(), "validation failed")
		}

		stepState.Start()
		logger.InfoContext(ctx, "Step starting",
			slog.String("step", step.ID()),
			slog.String("name", step.Name()))

		err := m.executeStep(ctx, state, step)
		if err != nil {
			stepState.Fail(err)
			logger.ErrorContext(ctx, "Step failed",
				slog.String("step", step.ID()),
				slog.Duration("duration", stepState.Duration()),
				slog.String("error", err.Error()))
			return WrapError(err, step.ID(), "")
		}

		stepState.Complete()
		logger.InfoContext(ctx, "Step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", stepState.Duration()))
	}

	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) error {
	if m.tracer == nil {
		return step.Execute(ctx, state)
	}

	stepCtx, span := m.tracer.TraceStep(ctx, state.ID, step.ID())
	defer span.End()

	start := time.Now()
	err := step.Execute(stepCtx, state)
	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), time.Since(start), err)
	return err
}
