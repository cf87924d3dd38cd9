// Package engine ties buffers to the undo journal.
//
// The engine package is the facade a command loop talks to. It owns a set
// of named buffers and one undo session, and exposes edit primitives that
// record into the journal before they change the text.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - buffer: text, point, markers, text properties and modification state
//   - undo: the record model, recorder, boundary manager and truncator
//
// # Basic Usage
//
//	e := engine.New()
//	e.CreateBuffer("notes")
//
//	e.Insert("notes", 0, "Hello")
//	e.Insert("notes", 5, ", World")   // coalesced with the previous insertion
//	e.EndCommand("notes")             // one boundary per command
//
//	e.Delete("notes", 0, 7)           // records the text and marker moves
//	e.EndCommand("notes")
//
//	entries, _ := e.UndoEntries("notes") // newest first
//
// # Retention
//
// Collect truncates every log according to the session's soft, strong and
// outer limits. WithAutoCollect runs it at the end of each command:
//
//	e := engine.New(
//	    engine.WithAutoCollect(true),
//	    engine.WithSessionOptions(
//	        undo.WithSoftLimit(4000),
//	        undo.WithStrongLimit(6000),
//	        undo.WithOverflowHandler(undo.DiscardOverflow(logger)),
//	    ),
//	)
//
// # Indirect Buffers
//
// CreateIndirect makes a buffer that shares another buffer's text and undo
// log. Edits through either are recorded in the base buffer's log.
//
// # Thread Safety
//
// Engine methods are serialized by a mutex so that configuration reloads
// from a watcher goroutine are safe. The undo session and the buffers it
// hands out are not synchronized themselves; use them only through the
// engine once it is shared.
package engine
