package engine

import (
	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/logging"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithSessionOptions passes options to the undo session.
func WithSessionOptions(opts ...undo.Option) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, opts...)
	}
}

// WithLogger sets the engine logger. The undo session logs through it too.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithAutoCollect makes EndCommand run a collection pass after marking the
// boundary.
func WithAutoCollect(enabled bool) Option {
	return func(e *Engine) {
		e.autoCollect = enabled
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
