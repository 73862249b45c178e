package operations

import (
	"sync"
	"time"
)

// OperationStatus is the overall status of an operation
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
	OperationStatusCancelled OperationStatus = "cancelled"
)

// OperationState is the state of one operation execution
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Status    OperationStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	steps   map[string]*StepState
	order   []string
	context map[string]any
}

// NewOperationState creates a pending operation
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
		context:   make(map[string]any),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.finish(OperationStatusCompleted, nil)
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.finish(OperationStatusFailed, err)
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.finish(OperationStatusCancelled, err)
}

func (p *OperationState) finish(status OperationStatus, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = status
	p.Error = err
}

// GetStatus returns the current status
func (p *OperationState) GetStatus() OperationStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Status
}

// AddStep registers the state of a step taking part in the operation
func (p *OperationState) AddStep(s *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.steps[s.ID]; !ok {
		p.order = append(p.order, s.ID)
	}
	p.steps[s.ID] = s
}

// GetStep returns the state of a step, or nil when it is not part of the
// operation.
func (p *OperationState) GetStep(id string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[id]
}

// Steps returns snapshots of the step states in execution order
func (p *OperationState) Steps() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*StepState, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.steps[id].snapshot())
	}
	return out
}

// GetContext retrieves a value stored by a step
func (p *OperationState) GetContext(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.context[key]
	return val, ok
}

// SetContext stores a value for later steps
func (p *OperationState) SetContext(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.context[key] = value
}

// Duration returns how long the operation ran
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// HasFailures reports whether any step failed
func (p *OperationState) HasFailures() bool {
	return len(p.stepsWith(StepStatusFailed)) > 0
}

// FailedSteps returns the ids of failed steps in execution order
func (p *OperationState) FailedSteps() []string {
	return p.stepsWith(StepStatusFailed)
}

func (p *OperationState) stepsWith(status StepStatus) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var ids []string
	for _, id := range p.order {
		if p.steps[id].GetStatus() == status {
			ids = append(ids, id)
		}
	}
	return ids
}
