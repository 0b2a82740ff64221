package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"panelcli/internal/config"
	"panelcli/internal/infrastructure"
	"panelcli/internal/pipeline"
	"panelcli/internal/validation"
	"panelcli/pkg/contracts"
)

func main() {
	inPath := flag.String("in", "", "raw survey export, .csv or .xlsx (defaults to data/raw/survey_export.csv relative to executable)")
	outPath := flag.String("out", "", "normalized panel CSV (defaults to data/derived/panel_long.csv relative to executable)")
	longPath := flag.String("long", "", "reshaped emotion battery CSV (defaults to data/derived/emotions_long.csv; empty string after explicit -long= skips it)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	// Initialize paths first to get default file locations
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	longSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "long" {
			longSet = true
		}
	})

	if *inPath == "" {
		*inPath = paths.RawExportCSV
		if !config.FileExists(*inPath) && config.FileExists(paths.RawWorkbook) {
			*inPath = paths.RawWorkbook
		}
	}
	if *outPath == "" {
		*outPath = paths.PanelCSV
	}
	if *longPath == "" && !longSet {
		*longPath = paths.EmotionsCSV
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("panelprep.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting panel preparation",
		slog.String("version", config.AppVersion),
		slog.String("input", *inPath),
		slog.String("output", *outPath),
		slog.String("executable_dir", paths.ExecutableDir))

	fileValidator := validation.NewFileValidator(logger)
	if err := fileValidator.ValidateExportFile(*inPath); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := fileValidator.ValidateOutputDirectory(filepath.Dir(*outPath)); err != nil {
		logger.Error("Output validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	opts, err := buildOptions(cfg, *inPath, *outPath, *longPath)
	if err != nil {
		logger.Error("Invalid survey layout", slog.String("error", err.Error()))
		os.Exit(1)
	}

	manager := pipeline.NewManager(pipeline.DefaultSteps(paths), logger)

	ctx := context.Background()
	var providers *infrastructure.OTelProviders
	if cfg.Pipeline.TraceEnabled {
		providers, err = infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
		if err != nil {
			logger.Warn("Failed to initialize OpenTelemetry, continuing without tracing",
				slog.String("error", err.Error()))
		} else {
			defer providers.Shutdown(ctx)
			tracer, terr := pipeline.NewTracer(providers)
			if terr != nil {
				logger.Warn("Failed to create pipeline tracer",
					slog.String("error", terr.Error()))
			} else {
				manager.WithTracer(tracer)
			}
		}
	}

	state, err := manager.Run(ctx, opts)
	if err != nil {
		logger.Error("Panel preparation failed",
			slog.String("run_id", state.ID),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Panel preparation complete",
		slog.String("run_id", state.ID),
		slog.Int("rows", len(state.Rows)),
		slog.Int("long_records", len(state.Long)),
		slog.String("panel", *outPath))
}

// buildOptions assembles the fixed survey layout plus run parameters.
func buildOptions(cfg *config.Config, inPath, outPath, longPath string) (pipeline.Options, error) {
	catalog, err := config.DefaultCatalog()
	if err != nil {
		return pipeline.Options{}, err
	}
	voteRecode, err := config.VoteChoiceRecode()
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		InputPath:      inPath,
		OutputPath:     outPath,
		LongOutputPath: longPath,

		Catalog:      catalog,
		BaselineVars: config.BaselineVariables(),
		BaselineWave: config.BaselineWave,
		Measures:     config.EmotionMeasures(),
		ReshapeWave:  cfg.Pipeline.ReshapeWave,
		CenteredVars: config.CenteredVariables(),
		VoteRecode:   voteRecode,

		ExpectedParticipants: cfg.Pipeline.ExpectedParticipants,
		Workers:              cfg.Pipeline.Workers,
	}, nil
}
