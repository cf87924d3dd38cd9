package hook

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/logging"
)

// Manager runs change hooks in priority order. It implements undo.Notifier.
type Manager struct {
	mu     sync.RWMutex
	hooks  []ChangeHook
	logger *logging.Logger
}

// NewManager creates a new hook manager. A nil logger discards output.
func NewManager(logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{
		hooks:  make([]ChangeHook, 0),
		logger: logger.WithComponent("hook"),
	}
}

// Register adds a hook, replacing any hook with the same name.
// Hooks are sorted by priority (higher runs first).
func (m *Manager) Register(h ChangeHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.hooks {
		if existing.Name() == h.Name() {
			m.hooks[i] = h
			m.sortHooks()
			return
		}
	}

	m.hooks = append(m.hooks, h)
	m.sortHooks()
}

// Unregister removes a hook by name.
func (m *Manager) Unregister(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, h := range m.hooks {
		if h.Name() == name {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// FirstUndoableChange runs every hook for buf. Hook errors and panics are
// logged; they never reach the recorder.
func (m *Manager) FirstUndoableChange(buf undo.Buffer) {
	m.mu.RLock()
	hooks := make([]ChangeHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		if err := m.run(h, buf); err != nil {
			m.logger.Error("first-undoable-change hook failed",
				"hook", h.Name(), "buffer", buf.Name(), "error", err)
		}
	}
}

func (m *Manager) run(h ChangeHook, buf undo.Buffer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.FirstUndoableChange(buf)
}

// Count returns the number of registered hooks.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// Names returns the names of all hooks in run order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.hooks))
	for i, h := range m.hooks {
		names[i] = h.Name()
	}
	return names
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = m.hooks[:0]
}

// sortHooks sorts hooks by priority descending (higher first). Hooks with
// equal priority keep registration order.
func (m *Manager) sortHooks() {
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority() > m.hooks[j].Priority()
	})
}

var _ undo.Notifier = (*Manager)(nil)
