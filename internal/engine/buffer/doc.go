// Package buffer provides the text buffer the undo journal records for.
//
// A Buffer holds text addressed by character offsets, a cursor position
// (point), markers, per-character text properties and the modification
// state needed to tell a buffer that changed since it was last saved.
//
// Basic usage:
//
//	buf := buffer.New("notes", buffer.WithText("Hello, World!"))
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//	buf.Delete(0, 7)             // "Beautiful World!"
//
// Markers:
//
// Markers are positions that follow the text as it is edited. They are
// addressed through undo.MarkerRef handles that carry a slot generation, so
// a handle to a deleted marker resolves to nothing even after its slot has
// been reused. A marker created with insertionType set advances when text is
// inserted exactly at its position; other markers stay put.
//
// Indirect buffers:
//
// NewIndirect creates a buffer that shares the text, markers and properties
// of a base buffer and records into the base buffer's undo log, while
// keeping a point of its own.
//
// The edit methods only change the text. Recording undo information is the
// job of the engine package, which calls the undo recorder around them.
//
// Buffers are not safe for concurrent use.
package buffer
