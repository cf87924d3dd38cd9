// Package app wires configuration, logging, hooks, scripts and the engine
// into a running undolog instance.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")

	// ErrMemoryLimit is returned by the memory check when the heap is over
	// the configured ceiling.
	ErrMemoryLimit = errors.New("heap over memory limit")
)

// InitError reports which component failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is matches ErrInitialization.
func (e *InitError) Is(target error) bool {
	return target == ErrInitialization
}
