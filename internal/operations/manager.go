package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Manager orchestrates pipeline execution
type Manager struct {
	registry *Registry
	config   *Config
	logger   *slog.Logger
}

// NewManager creates a new pipeline manager
func NewManager(registry *Registry, config *Config, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		config:   config,
		logger:   logger,
	}
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// Execute runs the pipeline. Steps execute strictly sequentially in
// dependency order, handing datasets forward through the operation state. A
// missing input file skips the downstream steps and still counts as a
// completed run; any other failure marks the run failed and is returned.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	state := NewOperationState(req.ID)

	steps, err := m.registry.GetDependencyOrder()
	if err != nil {
		err = NewFatalError("failed to resolve step order", err)
		state.Fail(err)
		return m.createResponse(state), err
	}

	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.logger.InfoContext(ctx, "pipeline_execution_started",
		slog.String("operation_id", req.ID),
		slog.Int("step_count", len(steps)))

	state.Start()
	execErr := m.executeSequential(ctx, state, steps)

	if execErr != nil && IsGracefulHalt(execErr) {
		// Expected halt: downstream steps were skipped, the run still
		// completes and the process reports success
		state.Complete()
		m.logger.InfoContext(ctx, "pipeline_execution_completed",
			slog.String("operation_id", req.ID),
			slog.String("halt_reason", execErr.Error()),
			slog.Duration("duration", state.Duration()))
		return m.createResponse(state), nil
	}

	if execErr != nil {
		state.Fail(execErr)
		m.logger.ErrorContext(ctx, "pipeline_execution_failed",
			slog.String("operation_id", req.ID),
			slog.String("error", execErr.Error()),
			slog.Duration("duration", state.Duration()))
		return m.createResponse(state), execErr
	}

	state.Complete()
	m.logger.InfoContext(ctx, "pipeline_execution_completed",
		slog.String("operation_id", req.ID),
		slog.Duration("duration", state.Duration()))
	return m.createResponse(state), nil
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "pipeline_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			return NewCancellationError(step.ID())
		default:
		}

		stepState := state.GetStep(step.ID())
		if stepState != nil && stepState.GetStatus() == StepStatusSkipped {
			m.logger.InfoContext(ctx, "step_skipped",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("reason", stepState.Message))
			continue
		}

		m.logger.InfoContext(ctx, "executing_step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step); err != nil {
			m.logger.ErrorContext(ctx, "step_failed",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error_type", string(GetErrorType(err))),
				slog.String("error", err.Error()))
			if !m.config.ContinueOnError {
				m.skipDependentSteps(ctx, state, steps, step.ID())
				return err
			}
			m.logger.WarnContext(ctx, "step_failed_continuing",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
		}
	}

	return nil
}

// executeStep executes a single step with the configured retry policy
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if err := m.checkDependencies(state, step); err != nil {
		stepState.Skip(fmt.Sprintf("dependencies not met: %v", err))
		return err
	}

	if err := step.Validate(state); err != nil {
		stepState.Skip(fmt.Sprintf("validation failed: %v", err))
		return NewValidationError(step.ID(), err.Error())
	}

	timeout := m.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	retryConfig := m.config.RetryConfig
	var lastErr error

	for attempt := 1; attempt <= retryConfig.MaxAttempts; attempt++ {
		stepState.Start()

		startTime := time.Now()
		err := step.Execute(stepCtx, state)
		duration := time.Since(startTime)

		if err == nil {
			stepState.Complete()
			m.logger.InfoContext(ctx, "step_completed",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.Duration("duration", duration))
			return nil
		}

		lastErr = err

		if !IsRetryable(err) || attempt >= retryConfig.MaxAttempts {
			stepState.Fail(err)
			return WrapError(err, step.ID(), "step execution failed")
		}

		delay := m.calculateRetryDelay(attempt, retryConfig)
		m.logger.WarnContext(ctx, "step_retry",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-stepCtx.Done():
			timeoutErr := NewTimeoutError(step.ID(), timeout.String())
			stepState.Fail(timeoutErr)
			return timeoutErr
		}
	}

	stepState.Fail(lastErr)
	return WrapError(lastErr, step.ID(), "step execution failed after retries")
}

// skipDependentSteps marks all steps that depend on the failed step as skipped
func (m *Manager) skipDependentSteps(ctx context.Context, state *OperationState, steps []Step, failedStepID string) {
	for _, step := range steps {
		for _, dep := range step.GetDependencies() {
			if dep == failedStepID {
				stepState := state.GetStep(step.ID())
				if stepState != nil && stepState.GetStatus() == StepStatusPending {
					stepState.Skip(fmt.Sprintf("dependency %s did not complete", failedStepID))
					m.skipDependentSteps(ctx, state, steps, step.ID())
				}
				break
			}
		}
	}
}

// checkDependencies verifies that all dependencies completed
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStep(dep)
		if depState == nil {
			return fmt.Errorf("dependency %s not found", dep)
		}
		if depState.GetStatus() != StepStatusCompleted {
			return fmt.Errorf("dependency %s not completed (status: %s)", dep, depState.GetStatus())
		}
	}
	return nil
}

// calculateRetryDelay calculates the delay before the next retry
func (m *Manager) calculateRetryDelay(attempt int, config RetryConfig) time.Duration {
	delay := config.InitialDelay * time.Duration(float64(attempt-1)*config.Multiplier)
	if delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	if delay <= 0 {
		delay = config.InitialDelay
	}
	return delay
}

// createResponse creates a run response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.Status,
		Duration: state.Duration(),
		Steps:    state.Steps,
	}

	if state.Error != nil {
		resp.Error = state.Error.Error()
	}

	return resp
}
