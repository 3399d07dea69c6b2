package documents

import (
	"sync"

	domain "github.com/grantscope/docintake/internal/domain/documents"
)

// stateTracker holds the per-tenant analyze state machine:
// Idle → Validating → Processing → Succeeded | Failed.
// Transitions are single-writer: only the goroutine that won begin() moves
// the state until it calls finish(), which also releases the gate.
type stateTracker struct {
	mu     sync.Mutex
	states map[string]domain.Status
}

func newStateTracker() *stateTracker {
	return &stateTracker{states: make(map[string]domain.Status)}
}

// begin claims the gate for a tenant. A tenant with an analyze call already
// in flight is rejected; succeeded/failed are terminal for the previous call
// only and re-submittable.
func (t *stateTracker) begin(tenant string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.states[tenant] {
	case domain.StatusValidating, domain.StatusProcessing:
		return domain.ErrAnalysisInFlight
	}
	t.states[tenant] = domain.StatusValidating
	return nil
}

func (t *stateTracker) to(tenant string, s domain.Status) {
	t.mu.Lock()
	t.states[tenant] = s
	t.mu.Unlock()
}

// finish records the terminal state and releases the gate.
func (t *stateTracker) finish(tenant string, ok bool) {
	s := domain.StatusFailed
	if ok {
		s = domain.StatusSucceeded
	}
	t.to(tenant, s)
}

// State reports the current analyze state for a tenant (Idle when unseen).
func (t *stateTracker) State(tenant string) domain.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.states[tenant]; ok {
		return s
	}
	return domain.StatusIdle
}
