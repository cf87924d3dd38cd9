// Package undo records buffer edits in a form that can be reversed later
// and keeps that history within configured space limits.
//
// # Log
//
// Every buffer owns a Log: a singly linked list of entries, newest first.
// Entries are records (Insertion, Deletion, MarkerAdjustment,
// PropertyChange, FirstChange, CursorHint) or Boundary sentinels that
// separate one command's records from the next. Undo walks the log from
// its head.
//
// # Recording
//
// Edit primitives call the Session once per primitive edit:
//
//	s := undo.NewSession()
//	s.RecordInsertion(buf, 10, 3)          // before or after inserting
//	s.RecordDeletion(buf, 5, "abc", true)  // before deleting
//	s.MarkBoundary(buf)                    // when the command ends
//
// Consecutive insertions are merged into one record. Deletions remember
// whether point sat at the end of the deleted text, and may be preceded by
// marker corrections for markers inside the deleted range.
//
// The first record of a command reserves the boundary node that will end
// it, so MarkBoundary never needs to allocate for a command that recorded
// anything. A refused reservation (see WithMemoryCheck) is reported before
// anything has been recorded.
//
// # Retention
//
// Truncate is called at collection time. It keeps the newest command,
// then older commands up to the soft limit, and never past the strong
// limit. A newest command larger than the outer limit is handed to the
// OverflowHandler; DiscardOverflow drops the log and warns.
//
// # Concurrency
//
// A Session and the buffers it records for belong to one goroutine. None of
// the types in this package lock.
package undo
