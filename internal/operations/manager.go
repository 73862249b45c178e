package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"crmsynth/internal/infrastructure"
)

// Manager executes the steps of a registry as one operation
type Manager struct {
	registry *Registry
	config   *Config
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.Metrics
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewManager creates a manager. Nil registry or config fall back to empty
// and default values.
func NewManager(registry *Registry, config *Config, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	return &Manager{
		registry: registry,
		config:   config,
		logger:   infrastructure.WithComponent(logger, "operations"),
		tracer:   otel.Tracer(infrastructure.InstrumentationName),
		sleep:    sleepContext,
	}
}

// WithMetrics records step durations
func (m *Manager) WithMetrics(metrics *infrastructure.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Execute runs the requested steps. The returned state holds each step's
// result under its context key; it is non-nil even when err is not.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationState, error) {
	if req.ID == "" {
		req.ID = "op-" + uuid.NewString()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)
	state := NewOperationState(req.ID)

	ctx, span := m.tracer.Start(ctx, "operation.execute",
		trace.WithAttributes(
			attribute.String("operation.id", req.ID),
			attribute.String("operation.step", req.Step)))
	defer span.End()

	steps, err := m.selectSteps(req.Step)
	if err != nil {
		m.logger.ErrorContext(ctx, "operation_error",
			slog.String("operation_id", req.ID),
			slog.String("error", err.Error()))
		state.Fail(err)
		span.SetStatus(codes.Error, err.Error())
		return state, err
	}

	for _, step := range steps {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}

	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", req.ID),
		slog.Int("step_count", len(steps)))
	state.Start()

	err = m.executeSequential(ctx, state, steps)
	switch {
	case err == nil:
		state.Complete()
	case errors.Is(err, context.Canceled):
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	if err != nil {
		infrastructure.RecordError(ctx, err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("operation.status", string(state.GetStatus())))
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("operation_id", req.ID),
		slog.String("status", string(state.GetStatus())),
		slog.Duration("duration", state.Duration()))
	return state, err
}

// Response summarises a finished operation
func Response(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Steps:    state.Steps(),
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}

func (m *Manager) selectSteps(id string) ([]Step, error) {
	if id == "" || id == StepAll {
		return m.registry.DependencyOrder()
	}
	step, err := m.registry.Get(id)
	if err != nil {
		return nil, err
	}
	return []Step{step}, nil
}

// executeSequential runs steps one by one. Steps whose dependencies did
// not complete are skipped.
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	failures := &ErrorList{}

	for i, step := range steps {
		stepState := state.GetStep(step.ID())
		if stepState.GetStatus() == StepStatusSkipped {
			continue
		}

		if ctx.Err() != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID())
		}

		if err := m.checkDependencies(state, step); err != nil {
			m.logger.WarnContext(ctx, "dependencies_not_met",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			stepState.Skip(err.Error())
			continue
		}

		m.logger.InfoContext(ctx, "executing_step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		err := m.executeStep(ctx, state, step)
		if err == nil {
			continue
		}

		m.logger.ErrorContext(ctx, "step_error",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))

		if !m.config.ContinueOnError || errors.Is(err, context.Canceled) {
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}

		failures.Add(err)
		for _, dep := range m.registry.Dependents(step.ID()) {
			if s := state.GetStep(dep); s != nil && s.GetStatus() == StepStatusPending {
				s.Skip(fmt.Sprintf("dependency %s failed", step.ID()))
			}
		}
		m.logger.WarnContext(ctx, "step_failed_continuing",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()))
	}

	if failures.HasErrors() {
		return failures
	}
	return nil
}

// executeStep runs one step with timeout and retries
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())

	ctx, span := m.tracer.Start(ctx, "operation.step."+step.ID(),
		trace.WithAttributes(
			attribute.String("operation.id", state.ID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name())))
	defer span.End()

	if err := step.Validate(state); err != nil {
		verr := NewValidationError(step.ID(), err)
		stepState.Fail(verr)
		span.SetStatus(codes.Error, verr.Error())
		return verr
	}

	timeout := m.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	retry := m.config.RetryConfig
	attempts := max(retry.MaxAttempts, 1)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		stepState.Start()
		infrastructure.AddSpanEvent(ctx, "attempt", map[string]interface{}{"attempt": attempt})

		err := step.Execute(stepCtx, state)
		if err == nil {
			stepState.Complete(fmt.Sprintf("completed in %s", time.Since(start).Round(time.Millisecond)))
			m.metrics.RecordStepDuration(ctx, step.ID(), time.Since(start), true)
			m.logger.InfoContext(ctx, "step_complete",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()),
				slog.Int("attempt", attempt),
				slog.Duration("duration", time.Since(start)))
			return nil
		}

		lastErr = m.classify(ctx, stepCtx, step.ID(), timeout, err)
		if !IsRetryable(lastErr) || attempt == attempts {
			break
		}

		delay := retryDelay(attempt, retry)
		infrastructure.AddSpanEvent(ctx, "retry", map[string]interface{}{
			"attempt": attempt,
			"delay":   delay.String(),
			"error":   lastErr.Error(),
		})
		m.logger.WarnContext(ctx, "step_retry",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))

		if err := m.sleep(stepCtx, delay); err != nil {
			lastErr = m.classify(ctx, stepCtx, step.ID(), timeout, err)
			break
		}
	}

	stepState.Fail(lastErr)
	m.metrics.RecordStepDuration(ctx, step.ID(), time.Since(start), false)
	infrastructure.RecordError(ctx, lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return lastErr
}

// classify maps a raw step error to an OperationError
func (m *Manager) classify(ctx, stepCtx context.Context, stepID string, timeout time.Duration, err error) error {
	var opErr *OperationError
	switch {
	case ctx.Err() != nil:
		return NewCancellationError(stepID)
	case errors.Is(stepCtx.Err(), context.DeadlineExceeded):
		return NewTimeoutError(stepID, timeout.String())
	case errors.As(err, &opErr):
		if opErr.Step == "" {
			opErr.Step = stepID
		}
		return opErr
	default:
		return NewExecutionError(stepID, err)
	}
}

// checkDependencies requires every dependency that takes part in this
// operation to have completed. Dependencies outside a single-step run are
// left to the step's own validation.
func (m *Manager) checkDependencies(state *OperationState, step Step) error {
	for _, dep := range step.GetDependencies() {
		depState := state.GetStep(dep)
		if depState == nil {
			continue
		}
		if status := depState.GetStatus(); status != StepStatusCompleted {
			return NewDependencyError(step.ID(), dep, fmt.Sprintf("dependency not completed, status %s", status))
		}
	}
	return nil
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStep(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// retryDelay is InitialDelay * Multiplier^(attempt-1), capped at MaxDelay
func retryDelay(attempt int, cfg RetryConfig) time.Duration {
	mult := cfg.Multiplier
	if mult < 1 {
		mult = 1
	}
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(mult, float64(attempt-1)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
