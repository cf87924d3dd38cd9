package undo

import "errors"

// Errors returned by undo operations.
var (
	// ErrResourceExhausted indicates the boundary for the current command
	// could not be reserved. Nothing has been recorded when it is returned.
	ErrResourceExhausted = errors.New("undo: resource exhausted")

	// ErrInvalidArgument indicates a malformed argument such as a negative
	// boundary count.
	ErrInvalidArgument = errors.New("undo: invalid argument")

	// ErrMalformedLog indicates the log structure is inconsistent.
	// Truncation does nothing when it is returned.
	ErrMalformedLog = errors.New("undo: malformed log")
)
