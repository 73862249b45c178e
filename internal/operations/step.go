package operations

import (
	"context"
	"sync"
	"time"
)

// Step is one unit of work in an operation
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step, storing its result in state
	Execute(ctx context.Context, state *OperationState) error

	// Validate checks the step can run with the current state
	Validate(state *OperationState) error

	// GetDependencies returns the IDs of steps that must complete first
	GetDependencies() []string
}

// StepStatus is the lifecycle position of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState is the runtime state of a step
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Attempts  int
	Message   string
	Error     error
}

// NewStepState creates a pending step state
func NewStepState(id, name string) *StepState {
	return &StepState{ID: id, Name: name, Status: StepStatusPending}
}

// Start marks the step active and counts the attempt
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.StartTime == nil {
		s.StartTime = &now
	}
	s.Status = StepStatusActive
	s.Attempts++
}

// Complete marks the step completed
func (s *StepState) Complete(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
	s.Message = message
	s.Error = nil
}

// Fail marks the step failed with err
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the step skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// GetStatus returns the current status
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns how long the step ran
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// snapshot copies the exported fields
func (s *StepState) snapshot() *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &StepState{
		ID:        s.ID,
		Name:      s.Name,
		Status:    s.Status,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Attempts:  s.Attempts,
		Message:   s.Message,
		Error:     s.Error,
	}
}

// BaseStep provides the identity half of a Step
type BaseStep struct {
	id           string
	name         string
	dependencies []string
}

// NewBaseStep creates a base step
func NewBaseStep(id, name string, dependencies ...string) BaseStep {
	return BaseStep{id: id, name: name, dependencies: dependencies}
}

// ID returns the step ID
func (b *BaseStep) ID() string {
	return b.id
}

// Name returns the step name
func (b *BaseStep) Name() string {
	return b.name
}

// GetDependencies returns the step dependencies
func (b *BaseStep) GetDependencies() []string {
	return b.dependencies
}

// Validate accepts any state
func (b *BaseStep) Validate(*OperationState) error {
	return nil
}
