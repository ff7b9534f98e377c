package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"crimeflow/internal/config"
	"crimeflow/internal/dataprocessing"
	"crimeflow/internal/exporter"
	"crimeflow/internal/infrastructure"
	"crimeflow/internal/operations"
)

func main() {
	os.Exit(run())
}

func run() int {
	rawFile := flag.String("raw", "", "raw incidents CSV filename inside the data directory (default street.csv)")
	outcomesFile := flag.String("outcomes", "", "outcomes CSV filename inside the data directory (default outcomes.csv)")
	outDir := flag.String("out", "", "output directory for stage artifacts (defaults to data/reports relative to executable)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	noExcel := flag.Bool("no-excel", false, "skip the XLSX report artifact")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	// Flags override config and environment
	if *rawFile != "" {
		cfg.Pipeline.RawFile = *rawFile
	}
	if *outcomesFile != "" {
		cfg.Pipeline.OutcomesFile = *outcomesFile
	}
	if *outDir != "" {
		cfg.Paths.ReportsDir = *outDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *noExcel {
		cfg.Pipeline.ExcelReport = false
	}

	paths, err := config.NewPaths(cfg)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		return 1
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		return 1
	}

	cfg.Logging.FilePath = paths.GetLogPath("pipeline.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	runID := uuid.NewString()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	logger.InfoContext(ctx, "starting crime data pipeline",
		slog.String("run_id", runID),
		slog.String("raw_incidents", paths.RawIncidentsCSV),
		slog.String("outcomes", paths.OutcomesCSV),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("executable_dir", paths.ExecutableDir))

	manager, err := buildPipeline(cfg, paths, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to build pipeline", slog.String("error", err.Error()))
		return 1
	}

	resp, err := manager.Execute(ctx, operations.OperationRequest{ID: runID})
	if err != nil {
		logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("run_id", runID),
			slog.String("error_type", string(operations.GetErrorType(err))),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "pipeline run failed: %v\n", err)
		return 1
	}

	logger.InfoContext(ctx, "pipeline run finished",
		slog.String("run_id", runID),
		slog.String("status", string(resp.Status)),
		slog.Duration("duration", resp.Duration))

	for _, stepID := range []string{
		operations.StepIDIngest,
		operations.StepIDStaging,
		operations.StepIDPrimary,
		operations.StepIDReporting,
	} {
		if step := resp.Steps[stepID]; step != nil {
			fmt.Printf("%-24s %s\n", step.Name, step.GetStatus())
		}
	}

	return 0
}

// buildPipeline wires the pipeline steps into a manager. Step order comes
// from the declared dependencies, not from registration order.
func buildPipeline(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*operations.Manager, error) {
	classifier := dataprocessing.DefaultClassifier()
	csvWriter := exporter.NewCSVWriter(cfg.Pipeline.WriteBOMPrefix)

	var excelWriter *exporter.ExcelWriter
	if cfg.Pipeline.ExcelReport {
		excelWriter = exporter.NewExcelWriter()
	}

	registry := operations.NewRegistry()
	steps := []operations.Step{
		operations.NewIngestStep(paths, logger),
		operations.NewStagingStep(dataprocessing.NewStager(classifier, logger), csvWriter, paths, logger),
		operations.NewPrimaryStep(dataprocessing.NewPrimaryTransformer(classifier, logger), csvWriter, paths, logger),
		operations.NewReportingStep(dataprocessing.NewAggregator(logger), csvWriter, excelWriter, paths, logger),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	if err := registry.ValidateDependencies(); err != nil {
		return nil, err
	}

	opConfig := operations.NewConfig()
	for _, step := range steps {
		opConfig.SetStepTimeout(step.ID(), cfg.Pipeline.StageTimeout)
	}

	return operations.NewManager(registry, opConfig, logger), nil
}
