package operations

import (
	"fmt"
	"sync"
)

// Registry holds the steps of an operation in registration order
type Registry struct {
	mu    sync.RWMutex
	steps map[string]Step
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// Register adds a step
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}

	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("step with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a step by ID
func (r *Registry) Get(id string) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[id]
	if !exists {
		return nil, NewNotFoundError(id)
	}
	return step, nil
}

// Has reports whether a step is registered
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.steps[id]
	return exists
}

// ListIDs returns the step IDs in registration order
func (r *Registry) ListIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Count returns the number of registered steps
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

// DependencyOrder returns every step ordered so that dependencies come
// first. Independent steps keep registration order.
func (r *Registry) DependencyOrder() ([]Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dependents := make(map[string][]string, len(r.steps))
	inDegree := make(map[string]int, len(r.steps))
	for _, id := range r.order {
		for _, dep := range r.steps[id].GetDependencies() {
			if _, exists := r.steps[dep]; !exists {
				return nil, NewDependencyError(id, dep, "depends on an unregistered step")
			}
			dependents[dep] = append(dependents[dep], id)
			inDegree[id]++
		}
	}

	// Kahn's algorithm; the ready set is kept in registration order
	ordered := make([]Step, 0, len(r.steps))
	done := make(map[string]bool, len(r.steps))
	for len(ordered) < len(r.steps) {
		progressed := false
		for _, id := range r.order {
			if done[id] || inDegree[id] > 0 {
				continue
			}
			done[id] = true
			ordered = append(ordered, r.steps[id])
			for _, d := range dependents[id] {
				inDegree[d]--
			}
			progressed = true
			break
		}
		if !progressed {
			return nil, NewFatalError("dependency cycle detected", nil)
		}
	}
	return ordered, nil
}

// Dependents returns the IDs of steps that depend on id, directly or
// through other steps.
func (r *Registry) Dependents(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, candidate := range r.order {
			if seen[candidate] {
				continue
			}
			for _, dep := range r.steps[candidate].GetDependencies() {
				if dep == current {
					seen[candidate] = true
					out = append(out, candidate)
					queue = append(queue, candidate)
					break
				}
			}
		}
	}
	return out
}
