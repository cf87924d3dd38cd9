package hook

import (
	"sync"

	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/logging"
)

// Standard hook priorities.
const (
	PriorityAudit   = 1000 // Runs first
	PriorityCounter = 900
	PriorityScript  = 100
)

// AuditHook logs every first undoable change.
type AuditHook struct {
	logger *logging.Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger *logging.Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// FirstUndoableChange implements ChangeHook.
func (h *AuditHook) FirstUndoableChange(buf undo.Buffer) error {
	if h.logger != nil {
		h.logger.Info("first undoable change", "buffer", buf.Name(), "modified", buf.Modified())
	}
	return nil
}

// CounterHook counts first undoable changes per buffer name.
type CounterHook struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewCounterHook creates a counter hook.
func NewCounterHook() *CounterHook {
	return &CounterHook{counts: make(map[string]int)}
}

// Name implements Hook.
func (h *CounterHook) Name() string { return "counter" }

// Priority implements Hook.
func (h *CounterHook) Priority() int { return PriorityCounter }

// FirstUndoableChange implements ChangeHook.
func (h *CounterHook) FirstUndoableChange(buf undo.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[buf.Name()]++
	return nil
}

// Count returns how many clean intervals of the named buffer were broken.
func (h *CounterHook) Count(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[name]
}

// Counts returns a copy of all counts.
func (h *CounterHook) Counts() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[string]int, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	return out
}
