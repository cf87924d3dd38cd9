package buffer

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/undolog/internal/engine/undo"
)

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithText sets the initial content. The buffer starts unmodified.
func WithText(s string) Option {
	return func(b *Buffer) {
		b.text.runes = []rune(s)
		b.text.saveModiff = b.text.modiff
	}
}

// WithVisitedFileModTime sets the modification time of the visited file.
func WithVisitedFileModTime(t time.Time) Option {
	return func(b *Buffer) {
		b.visitedModTime = t
	}
}

// WithUndoDisabled creates the buffer with recording turned off.
func WithUndoDisabled() Option {
	return func(b *Buffer) {
		b.log = undo.NewDisabledLog()
	}
}

// WithID sets the buffer identifier instead of a random one.
func WithID(id uuid.UUID) Option {
	return func(b *Buffer) {
		b.id = id
	}
}
