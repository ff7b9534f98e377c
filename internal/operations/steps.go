package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"crimeflow/internal/config"
	"crimeflow/internal/dataprocessing"
	"crimeflow/internal/exporter"
	"crimeflow/internal/validation"
	"crimeflow/pkg/contracts/domain"
)

// IngestStep reads the raw incidents and outcomes CSVs into memory
type IngestStep struct {
	BaseStep
	paths     *config.Paths
	validator *validation.InputValidator
	logger    *slog.Logger
}

// NewIngestStep creates a new ingestion step
func NewIngestStep(paths *config.Paths, logger *slog.Logger) *IngestStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestStep{
		BaseStep:  NewBaseStep(StepIDIngest, StepNameIngest, nil),
		paths:     paths,
		validator: validation.NewInputValidator(logger),
		logger:    logger.With(slog.String("step", StepIDIngest)),
	}
}

// Validate checks the input configuration. Missing input files pass here;
// ingestion reports those as a halt condition instead.
func (s *IngestStep) Validate(state *OperationState) error {
	if err := s.validator.ValidateDataDirectory(s.paths.DataDir); err != nil {
		return err
	}
	if err := s.validator.ValidateCSVInput(s.paths.RawIncidentsCSV); err != nil {
		return err
	}
	return s.validator.ValidateCSVInput(s.paths.OutcomesCSV)
}

// Execute ingests both input files and stores the tables in the run state.
// Either file missing halts the pipeline gracefully; malformed content aborts
// it.
func (s *IngestStep) Execute(ctx context.Context, state *OperationState) error {
	incidents, err := dataprocessing.ReadIncidents(s.paths.RawIncidentsCSV)
	if err != nil {
		return classifyIngestError(s.ID(), err)
	}

	outcomes, err := dataprocessing.ReadOutcomes(s.paths.OutcomesCSV)
	if err != nil {
		return classifyIngestError(s.ID(), err)
	}

	state.SetContext(ContextKeyIncidents, incidents)
	state.SetContext(ContextKeyOutcomes, outcomes)

	s.logger.InfoContext(ctx, "ingestion completed",
		slog.Int("incident_rows", len(incidents.Rows)),
		slog.Int("outcome_rows", len(outcomes.Rows)))
	return nil
}

// classifyIngestError maps ingestion failures onto the error taxonomy
func classifyIngestError(step string, err error) *OperationError {
	if errors.Is(err, dataprocessing.ErrNotFound) {
		return NewNotFoundError(step, err)
	}
	var parseErr *dataprocessing.ParseError
	if errors.As(err, &parseErr) {
		return NewParseError(step, err)
	}
	return NewFatalError("ingestion failed", err)
}

// StagingStep joins incidents to outcomes, classifies outcomes and writes the
// staged checkpoint
type StagingStep struct {
	BaseStep
	stager    *dataprocessing.Stager
	csv       *exporter.CSVWriter
	paths     *config.Paths
	validator *validation.InputValidator
	logger    *slog.Logger
}

// NewStagingStep creates a new staging step
func NewStagingStep(stager *dataprocessing.Stager, csv *exporter.CSVWriter, paths *config.Paths, logger *slog.Logger) *StagingStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &StagingStep{
		BaseStep:  NewBaseStep(StepIDStaging, StepNameStaging, []string{StepIDIngest}),
		stager:    stager,
		csv:       csv,
		paths:     paths,
		validator: validation.NewInputValidator(logger),
		logger:    logger.With(slog.String("step", StepIDStaging)),
	}
}

// Validate ensures the checkpoint directory is writable before the join runs.
// The later steps share the same directory.
func (s *StagingStep) Validate(state *OperationState) error {
	return s.validator.ValidateOutputDirectory(s.paths.ReportsDir)
}

// Execute stages the datasets and materialises the staged CSV
func (s *StagingStep) Execute(ctx context.Context, state *OperationState) error {
	incidents, err := incidentsFromState(state)
	if err != nil {
		return NewValidationError(s.ID(), err.Error())
	}
	outcomes, err := outcomesFromState(state)
	if err != nil {
		return NewValidationError(s.ID(), err.Error())
	}

	staged, err := s.stager.Stage(incidents, outcomes)
	if err != nil {
		return NewTransformError(s.ID(), err)
	}

	state.SetContext(ContextKeyStaged, staged)

	headers, records := exporter.FormatStaged(staged)
	if err := s.csv.WriteCSV(s.paths.StagedCSV, headers, records); err != nil {
		return NewTransformError(s.ID(), fmt.Errorf("failed to write staged checkpoint: %w", err))
	}

	s.logger.InfoContext(ctx, "staging completed",
		slog.Int("staged_rows", len(staged.Rows)),
		slog.String("checkpoint", s.paths.StagedCSV))
	return nil
}

// PrimaryStep applies primary typing and writes the primary checkpoint
type PrimaryStep struct {
	BaseStep
	transformer *dataprocessing.PrimaryTransformer
	csv         *exporter.CSVWriter
	paths       *config.Paths
	logger      *slog.Logger
}

// NewPrimaryStep creates a new primary transformation step
func NewPrimaryStep(transformer *dataprocessing.PrimaryTransformer, csv *exporter.CSVWriter, paths *config.Paths, logger *slog.Logger) *PrimaryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrimaryStep{
		BaseStep:    NewBaseStep(StepIDPrimary, StepNamePrimary, []string{StepIDStaging}),
		transformer: transformer,
		csv:         csv,
		paths:       paths,
		logger:      logger.With(slog.String("step", StepIDPrimary)),
	}
}

// Execute transforms the staged table and materialises the primary CSV
func (s *PrimaryStep) Execute(ctx context.Context, state *OperationState) error {
	staged, err := stagedFromState(state)
	if err != nil {
		return NewValidationError(s.ID(), err.Error())
	}

	primary, err := s.transformer.Transform(staged)
	if err != nil {
		return NewTransformError(s.ID(), err)
	}

	state.SetContext(ContextKeyPrimary, primary)

	headers, records := exporter.FormatPrimary(primary)
	if err := s.csv.WriteCSV(s.paths.PrimaryCSV, headers, records); err != nil {
		return NewTransformError(s.ID(), fmt.Errorf("failed to write primary checkpoint: %w", err))
	}

	s.logger.InfoContext(ctx, "primary transformation completed",
		slog.Int("primary_rows", len(primary.Rows)),
		slog.String("checkpoint", s.paths.PrimaryCSV))
	return nil
}

// ReportingStep aggregates the primary table and writes the reporting
// artifacts
type ReportingStep struct {
	BaseStep
	aggregator *dataprocessing.Aggregator
	csv        *exporter.CSVWriter
	excel      *exporter.ExcelWriter
	paths      *config.Paths
	logger     *slog.Logger
}

// NewReportingStep creates a new reporting step. A nil excel writer disables
// the XLSX export; the CSV artifact is always written.
func NewReportingStep(aggregator *dataprocessing.Aggregator, csv *exporter.CSVWriter, excel *exporter.ExcelWriter, paths *config.Paths, logger *slog.Logger) *ReportingStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportingStep{
		BaseStep:   NewBaseStep(StepIDReporting, StepNameReporting, []string{StepIDPrimary}),
		aggregator: aggregator,
		csv:        csv,
		excel:      excel,
		paths:      paths,
		logger:     logger.With(slog.String("step", StepIDReporting)),
	}
}

// Execute aggregates the primary table and materialises the reporting CSV and
// optional workbook
func (s *ReportingStep) Execute(ctx context.Context, state *OperationState) error {
	primary, err := primaryFromState(state)
	if err != nil {
		return NewValidationError(s.ID(), err.Error())
	}

	report, err := s.aggregator.Aggregate(primary)
	if err != nil {
		return NewTransformError(s.ID(), err)
	}

	state.SetContext(ContextKeyReport, report)

	headers, records := exporter.FormatReport(report)
	if err := s.csv.WriteCSV(s.paths.ReportingCSV, headers, records); err != nil {
		return NewTransformError(s.ID(), fmt.Errorf("failed to write reporting checkpoint: %w", err))
	}

	if s.excel != nil {
		if err := s.excel.WriteReport(s.paths.ReportingXLSX, report); err != nil {
			return NewTransformError(s.ID(), fmt.Errorf("failed to write reporting workbook: %w", err))
		}
	}

	s.logger.InfoContext(ctx, "reporting aggregation completed",
		slog.Int("groups", len(report.Rows)),
		slog.Int("total_count", report.TotalCount()),
		slog.String("checkpoint", s.paths.ReportingCSV))
	return nil
}

// Typed accessors for datasets in the run context

func incidentsFromState(state *OperationState) (*domain.IncidentTable, error) {
	value, ok := state.GetContext(ContextKeyIncidents)
	if !ok {
		return nil, fmt.Errorf("incidents table not present in run state")
	}
	table, ok := value.(*domain.IncidentTable)
	if !ok {
		return nil, fmt.Errorf("incidents table has unexpected type %T", value)
	}
	return table, nil
}

func outcomesFromState(state *OperationState) (*domain.OutcomeTable, error) {
	value, ok := state.GetContext(ContextKeyOutcomes)
	if !ok {
		return nil, fmt.Errorf("outcomes table not present in run state")
	}
	table, ok := value.(*domain.OutcomeTable)
	if !ok {
		return nil, fmt.Errorf("outcomes table has unexpected type %T", value)
	}
	return table, nil
}

func stagedFromState(state *OperationState) (*domain.StagedTable, error) {
	value, ok := state.GetContext(ContextKeyStaged)
	if !ok {
		return nil, fmt.Errorf("staged table not present in run state")
	}
	table, ok := value.(*domain.StagedTable)
	if !ok {
		return nil, fmt.Errorf("staged table has unexpected type %T", value)
	}
	return table, nil
}

func primaryFromState(state *OperationState) (*domain.PrimaryTable, error) {
	value, ok := state.GetContext(ContextKeyPrimary)
	if !ok {
		return nil, fmt.Errorf("primary table not present in run state")
	}
	table, ok := value.(*domain.PrimaryTable)
	if !ok {
		return nil, fmt.Errorf("primary table has unexpected type %T", value)
	}
	return table, nil
}

// ReportFromState returns the reporting table produced by a completed run.
// Exposed for callers that want the aggregate without re-reading the CSV.
func ReportFromState(state *OperationState) (*domain.ReportTable, error) {
	value, ok := state.GetContext(ContextKeyReport)
	if !ok {
		return nil, fmt.Errorf("report table not present in run state")
	}
	table, ok := value.(*domain.ReportTable)
	if !ok {
		return nil, fmt.Errorf("report table has unexpected type %T", value)
	}
	return table, nil
}
