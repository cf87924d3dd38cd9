package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrFunctionNotFound is returned when a called global is not a function.
	ErrFunctionNotFound = errors.New("lua function not found")
)

// ScriptError reports a failure inside a named script.
type ScriptError struct {
	Script string
	Func   string
	Err    error
}

// Error implements error.
func (e *ScriptError) Error() string {
	if e.Func == "" {
		return fmt.Sprintf("lua script %s: %v", e.Script, e.Err)
	}
	return fmt.Sprintf("lua script %s: %s: %v", e.Script, e.Func, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
