// Package hook runs named, prioritized hooks when a buffer has its first
// undoable change.
package hook

import "github.com/dshills/undolog/internal/engine/undo"

// Hook is the base interface for all hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority. Higher values run first.
	// Standard priorities:
	//   1000+ = system hooks
	//   100-999 = script hooks
	//   0-99 = user hooks
	Priority() int
}

// ChangeHook is called when a buffer goes from clean to undoably changed.
type ChangeHook interface {
	Hook

	// FirstUndoableChange is called with the buffer about to be recorded.
	// An error is logged and does not stop the remaining hooks or the edit.
	FirstUndoableChange(buf undo.Buffer) error
}

// ChangeFunc wraps a function as a ChangeHook.
type ChangeFunc struct {
	name     string
	priority int
	fn       func(buf undo.Buffer) error
}

// NewChangeFunc creates a new ChangeFunc hook.
func NewChangeFunc(name string, priority int, fn func(buf undo.Buffer) error) *ChangeFunc {
	return &ChangeFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *ChangeFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *ChangeFunc) Priority() int { return f.priority }

// FirstUndoableChange implements ChangeHook.
func (f *ChangeFunc) FirstUndoableChange(buf undo.Buffer) error {
	if f.fn == nil {
		return nil
	}
	return f.fn(buf)
}
