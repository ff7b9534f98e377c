package operations

import (
	"errors"
	"fmt"
)

// ErrorType represents the kind of operation error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeParse        ErrorType = "parse"
	ErrorTypeTransform    ErrorType = "transform"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeDependency   ErrorType = "dependency"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeFatal        ErrorType = "fatal"
)

// OperationError represents a pipeline step failure with an explicit kind so
// the orchestrator can decide between graceful halt and abort instead of
// inferring failure from missing output files.
type OperationError struct {
	Type      ErrorType `json:"type"`
	Step      string    `json:"step,omitempty"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewNotFoundError reports a missing input file. Not retryable, and treated
// as a graceful halt by the manager.
func NewNotFoundError(step string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeNotFound,
		Step:      step,
		Message:   "input file not found",
		Cause:     cause,
		Retryable: false,
	}
}

// NewParseError reports malformed input content
func NewParseError(step string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeParse,
		Step:      step,
		Message:   "malformed input content",
		Cause:     cause,
		Retryable: false,
	}
}

// NewTransformError reports a failure during merge, derive or aggregate
func NewTransformError(step string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeTransform,
		Step:      step,
		Message:   "transform failed",
		Cause:     cause,
		Retryable: false,
	}
}

// NewValidationError reports a step whose preconditions are not met
func NewValidationError(step, message string) *OperationError {
	return &OperationError{
		Type:      ErrorTypeValidation,
		Step:      step,
		Message:   message,
		Retryable: false,
	}
}

// NewTimeoutError reports a step that exceeded its timeout
func NewTimeoutError(step string, timeout string) *OperationError {
	return &OperationError{
		Type:      ErrorTypeTimeout,
		Step:      step,
		Message:   fmt.Sprintf("step exceeded timeout of %s", timeout),
		Retryable: false,
	}
}

// NewCancellationError reports a cancelled run
func NewCancellationError(step string) *OperationError {
	return &OperationError{
		Type:      ErrorTypeCancellation,
		Step:      step,
		Message:   "operation was cancelled",
		Retryable: false,
	}
}

// NewFatalError reports an unexpected failure escaping the typed taxonomy
func NewFatalError(message string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeFatal,
		Message:   message,
		Cause:     cause,
		Retryable: false,
	}
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Retryable
	}
	return false
}

// GetErrorType returns the kind of the error, defaulting to fatal for errors
// outside the taxonomy
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeFatal
}

// IsGracefulHalt reports whether the error should halt the pipeline without
// being treated as a failure. Missing input files are an expected condition:
// the run logs completion and exits cleanly.
func IsGracefulHalt(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// WrapError wraps an error with step context
func WrapError(err error, step string, message string) *OperationError {
	if err == nil {
		return nil
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		if opErr.Step == "" {
			opErr.Step = step
		}
		if message != "" {
			opErr.Message = fmt.Sprintf("%s: %s", message, opErr.Message)
		}
		return opErr
	}

	return &OperationError{
		Type:      ErrorTypeTransform,
		Step:      step,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}
