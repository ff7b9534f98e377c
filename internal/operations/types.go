package operations

import (
	"time"
)

// Pipeline step identifiers
const (
	StepIDIngest    = "ingest"
	StepIDStaging   = "staging"
	StepIDPrimary   = "primary"
	StepIDReporting = "reporting"
)

// Pipeline step names
const (
	StepNameIngest    = "Data Ingestion"
	StepNameStaging   = "Data Staging"
	StepNamePrimary   = "Primary Transformation"
	StepNameReporting = "Reporting Aggregation"
)

// Context keys for datasets handed between steps through the operation state
const (
	ContextKeyIncidents = "incidents_table"
	ContextKeyOutcomes  = "outcomes_table"
	ContextKeyStaged    = "staged_table"
	ContextKeyPrimary   = "primary_table"
	ContextKeyReport    = "report_table"
)

// DefaultStepTimeout bounds a single step execution
const DefaultStepTimeout = 10 * time.Minute

// RetryConfig defines retry behavior for steps
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// NewRetryConfig returns the default retry configuration. Ingestion and
// transform failures are terminal for a run, so steps get exactly one
// attempt.
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  1,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// OperationRequest represents a request to execute a pipeline run
type OperationRequest struct {
	ID         string         `json:"id"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// OperationResponse represents the result of a pipeline run
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
}
