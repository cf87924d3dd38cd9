package engine

import (
	"errors"

	"github.com/dshills/undolog/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrOffsetOutOfRange indicates an offset is outside the valid buffer range.
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates an invalid range (e.g., end < begin).
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrBufferNotFound indicates no buffer has the given name.
	ErrBufferNotFound = errors.New("buffer not found")

	// ErrBufferExists indicates a buffer with the given name already exists.
	ErrBufferExists = errors.New("buffer already exists")

	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
