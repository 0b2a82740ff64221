package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"panelcli/internal/center"
	"panelcli/internal/cleaning"
	"panelcli/internal/config"
	"panelcli/internal/exporter"
	"panelcli/internal/identity"
	"panelcli/internal/infrastructure"
	"panelcli/internal/loader"
	"panelcli/internal/panel"
	"panelcli/internal/reshape"
)

// Step identifiers, in execution order.
const (
	StepIDLoad      = "load"
	StepIDResolve   = "resolve"
	StepIDNormalize = "normalize"
	StepIDBaseline  = "baseline"
	StepIDCenter    = "center"
	StepIDReshape   = "reshape"
	StepIDExport    = "export"
)

// DefaultSteps returns the full normalization pipeline in execution order.
func DefaultSteps(paths *config.Paths) []Step {
	return []Step{
		&LoadStep{},
		&ResolveStep{},
		&NormalizeStep{},
		&BaselineStep{},
		&CenterStep{},
		&ReshapeStep{},
		&ExportStep{exporter: exporter.NewPanelExporter(paths)},
	}
}

// LoadStep reads the raw survey export into a typed table.
type LoadStep struct{}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return "Load raw export" }

func (s *LoadStep) Validate(state *RunState) error {
	if state.Options.InputPath == "" {
		return NewValidationError(s.ID(), "input path is required")
	}
	if _, err := os.Stat(state.Options.InputPath); err != nil {
		return NewValidationError(s.ID(), fmt.Sprintf("input file not accessible: %v", err))
	}
	return nil
}

func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	logger := infrastructure.LoggerWithContext(ctx)
	path := state.Options.InputPath

	var (
		table *loader.RawTable
		err   error
	)
	if isWorkbook(path) {
		table, err = loader.ReadWorkbook(path)
	} else {
		table, err = loader.ReadCSV(path)
	}
	if err != nil {
		return &PipelineError{Type: ErrorTypeParse, Step: s.ID(), Message: "failed to load raw export", Cause: err}
	}

	logger.Info("Loaded raw export",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)))

	state.Raw = table
	return nil
}

func isWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}

// ResolveStep assigns dense integer participant keys and converts the raw
// table into panel rows.
type ResolveStep struct{}

func (s *ResolveStep) ID() string   { return StepIDResolve }
func (s *ResolveStep) Name() string { return "Resolve participant identities" }

func (s *ResolveStep) Validate(state *RunState) error {
	if state.Raw == nil {
		return NewValidationError(s.ID(), "raw table not loaded")
	}
	return nil
}

func (s *ResolveStep) Execute(ctx context.Context, state *RunState) error {
	logger := infrastructure.LoggerWithContext(ctx)

	resolver, err := identity.Resolve(state.Raw.Rows, state.Options.ExpectedParticipants)
	if err != nil {
		return &PipelineError{Type: ErrorTypeIdentity, Step: s.ID(), Message: "identity resolution failed", Cause: err}
	}

	rows, err := resolver.Apply(state.Raw.Rows)
	if err != nil {
		return &PipelineError{Type: ErrorTypeIdentity, Step: s.ID(), Message: "failed to key panel rows", Cause: err}
	}

	logger.Info("Resolved participant identities",
		slog.Int("participants", resolver.Len()),
		slog.Int("rows", len(rows)))

	state.Resolver = resolver
	state.Rows = rows
	return nil
}

// NormalizeStep recodes sentinel values to missing per the variable catalog.
type NormalizeStep struct{}

func (s *NormalizeStep) ID() string   { return StepIDNormalize }
func (s *NormalizeStep) Name() string { return "Normalize sentinel values" }

func (s *NormalizeStep) Validate(state *RunState) error {
	if state.Rows == nil {
		return NewValidationError(s.ID(), "panel rows not available")
	}
	if len(state.Options.Catalog) == 0 {
		return NewValidationError(s.ID(), "variable catalog is empty")
	}
	return nil
}

func (s *NormalizeStep) Execute(ctx context.Context, state *RunState) error {
	rows, err := cleaning.ApplyCatalog(ctx, state.Rows, state.Options.Catalog, state.Options.Workers)
	if err != nil {
		return NewExecutionError(s.ID(), err)
	}
	state.Rows = rows
	return nil
}

// BaselineStep extracts wave-1 baseline records, labels coded variables, and
// left-joins the records back onto every wave.
type BaselineStep struct{}

func (s *BaselineStep) ID() string   { return StepIDBaseline }
func (s *BaselineStep) Name() string { return "Extract and attach baseline" }

func (s *BaselineStep) Validate(state *RunState) error {
	if state.Rows == nil {
		return NewValidationError(s.ID(), "panel rows not available")
	}
	if len(state.Options.BaselineVars) == 0 {
		return NewValidationError(s.ID(), "no baseline variables declared")
	}
	if state.Options.BaselineWave <= 0 {
		return NewValidationError(s.ID(), "baseline wave must be positive")
	}
	return nil
}

func (s *BaselineStep) Execute(ctx context.Context, state *RunState) error {
	logger := infrastructure.LoggerWithContext(ctx)
	opts := state.Options

	records, err := panel.ExtractBaseline(state.Rows, opts.BaselineVars, opts.BaselineWave)
	if err != nil {
		return &PipelineError{Type: ErrorTypeJoin, Step: s.ID(), Message: "baseline extraction failed", Cause: err}
	}

	if opts.VoteRecode != nil {
		records, err = cleaning.LabelBaseline(records, opts.VoteRecode)
		if err != nil {
			return NewExecutionError(s.ID(), err)
		}
	}

	before := len(state.Rows)
	rows := panel.AttachBaseline(state.Rows, records, opts.BaselineVars)
	if len(rows) != before {
		return &PipelineError{
			Type:    ErrorTypeJoin,
			Step:    s.ID(),
			Message: fmt.Sprintf("join changed row count: %d -> %d", before, len(rows)),
		}
	}

	logger.Info("Attached baseline records",
		slog.Int("baseline_participants", len(records)),
		slog.Int("rows", len(rows)))

	state.Baselines = records
	state.Rows = rows
	return nil
}

// CenterStep appends wave-centered companion columns for the declared
// continuous variables.
type CenterStep struct{}

func (s *CenterStep) ID() string   { return StepIDCenter }
func (s *CenterStep) Name() string { return "Center within waves" }

func (s *CenterStep) Validate(state *RunState) error {
	if state.Rows == nil {
		return NewValidationError(s.ID(), "panel rows not available")
	}
	return nil
}

func (s *CenterStep) Execute(ctx context.Context, state *RunState) error {
	rows, err := center.ByWave(ctx, state.Rows, state.Options.CenteredVars, state.Options.Workers)
	if err != nil {
		return NewExecutionError(s.ID(), err)
	}
	state.Rows = rows
	return nil
}

// ReshapeStep pivots the designated wave into long emotion records.
type ReshapeStep struct{}

func (s *ReshapeStep) ID() string   { return StepIDReshape }
func (s *ReshapeStep) Name() string { return "Reshape wide to long" }

func (s *ReshapeStep) Validate(state *RunState) error {
	if state.Rows == nil {
		return NewValidationError(s.ID(), "panel rows not available")
	}
	if err := reshape.ValidateMeasures(state.Options.Measures); err != nil {
		return NewValidationError(s.ID(), err.Error())
	}
	return nil
}

func (s *ReshapeStep) Execute(ctx context.Context, state *RunState) error {
	logger := infrastructure.LoggerWithContext(ctx)

	long, err := reshape.WideToLong(state.Rows, state.Options.Measures, state.Options.ReshapeWave)
	if err != nil {
		return NewExecutionError(s.ID(), err)
	}

	logger.Info("Reshaped wave to long form",
		slog.Int("wave", state.Options.ReshapeWave),
		slog.Int("records", len(long)))

	state.Long = long
	return nil
}

// ExportStep writes the panel and long-form outputs.
type ExportStep struct {
	exporter *exporter.PanelExporter
}

func (s *ExportStep) ID() string   { return StepIDExport }
func (s *ExportStep) Name() string { return "Export outputs" }

func (s *ExportStep) Validate(state *RunState) error {
	if state.Rows == nil {
		return NewValidationError(s.ID(), "panel rows not available")
	}
	if state.Options.OutputPath == "" {
		return NewValidationError(s.ID(), "output path is required")
	}
	return nil
}

func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	logger := infrastructure.LoggerWithContext(ctx)
	opts := state.Options

	cols := exporter.PanelColumns{
		Observed: opts.CenteredVars,
		Baseline: opts.BaselineVars,
	}
	if opts.VoteRecode != nil {
		cols.Labeled = []string{opts.VoteRecode.Variable()}
	}
	for _, name := range opts.CenteredVars {
		cols.Derived = append(cols.Derived, center.DerivedName(name))
	}

	if err := s.exporter.WritePanel(opts.OutputPath, state.Rows, cols); err != nil {
		return NewExecutionError(s.ID(), fmt.Errorf("panel export: %w", err))
	}

	if opts.LongOutputPath != "" {
		if err := s.exporter.WriteLong(opts.LongOutputPath, state.Long); err != nil {
			return NewExecutionError(s.ID(), fmt.Errorf("long export: %w", err))
		}
	}

	logger.Info("Exported pipeline outputs",
		slog.String("panel", opts.OutputPath),
		slog.String("long", opts.LongOutputPath),
		slog.Int("rows", len(state.Rows)),
		slog.Int("long_records", len(state.Long)))

	return nil
}
