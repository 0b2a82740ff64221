package pipeline

import (
	"context"
	"fmt"
	"time"

	"panelcli/internal/infrastructure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "panelcli.pipeline"
)

// Tracer provides OpenTelemetry instrumentation for pipeline runs
type Tracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewTracer creates a new pipeline tracer
func NewTracer(providers *infrastructure.OTelProviders) (*Tracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	return &Tracer{
		tracer:  otel.Tracer(TracerName),
		metrics: metrics,
	}, nil
}

// TraceRun creates a span for the entire pipeline run
func (t *Tracer) TraceRun(ctx context.Context, runID, inputPath string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.input", inputPath),
		),
	)

	t.metrics.RunsTotal.Add(ctx, 1)

	return ctx, span
}

// TraceStep creates a span for an individual step execution
func (t *Tracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)

	t.metrics.StepsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("step_id", stepID)),
	)

	return ctx, span
}

// RecordRunCompletion records run completion with metrics and span status
func (t *Tracer) RecordRunCompletion(ctx context.Context, span trace.Span, duration time.Duration, rowsProcessed int64, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("run.status", status),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
		attribute.Int64("run.rows_processed", rowsProcessed),
	)

	t.metrics.RunDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("status", status)),
	)
	if rowsProcessed > 0 {
		t.metrics.RowsProcessed.Add(ctx, rowsProcessed)
	}

	if err != nil {
		t.metrics.ErrorsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("error_type", string(GetErrorType(err)))),
		)
		infrastructure.RecordError(ctx, err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "pipeline run completed")
}

// RecordStepCompletion records step completion with metrics and span status
func (t *Tracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	t.metrics.StepDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("step_id", stepID),
			attribute.String("status", status),
		),
	)

	if err != nil {
		infrastructure.RecordError(ctx, err,
			trace.WithAttributes(attribute.String("step_id", stepID)),
		)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetStatus(codes.Ok, "step completed")
}
