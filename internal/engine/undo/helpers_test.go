package undo

import (
	"iter"
	"strings"
	"time"
)

// fakeBuffer is a minimal Buffer whose state tests set directly.
type fakeBuffer struct {
	name     string
	log      *Log
	point    Position
	modified bool
	modTime  time.Time
	base     *fakeBuffer
	markers  []MarkerState
	changed  bool
}

func newFakeBuffer(name string) *fakeBuffer {
	return &fakeBuffer{name: name, log: NewLog(), modified: true}
}

func (b *fakeBuffer) Name() string { return b.name }

func (b *fakeBuffer) UndoLog() *Log {
	if b.base != nil {
		return b.base.UndoLog()
	}
	return b.log
}

func (b *fakeBuffer) Point() Position               { return b.point }
func (b *fakeBuffer) Modified() bool                { return b.modified }
func (b *fakeBuffer) VisitedFileModTime() time.Time { return b.modTime }
func (b *fakeBuffer) UndoablyChanged() bool         { return b.changed }
func (b *fakeBuffer) SetUndoablyChanged(v bool)     { b.changed = v }

func (b *fakeBuffer) Base() Buffer {
	if b.base == nil {
		return nil
	}
	return b.base
}

func (b *fakeBuffer) Markers() iter.Seq[MarkerState] {
	return func(yield func(MarkerState) bool) {
		for _, m := range b.markers {
			if !yield(m) {
				return
			}
		}
	}
}

// countingNotifier records every first-undoable-change signal.
type countingNotifier struct {
	buffers []Buffer
}

func (n *countingNotifier) FirstUndoableChange(buf Buffer) {
	n.buffers = append(n.buffers, buf)
}

// buildLog pushes entries oldest first, so the last argument ends up at the
// head of the log.
func buildLog(entries ...Entry) *Log {
	l := NewLog()
	for _, e := range entries {
		l.PushFront(e)
	}
	return l
}

func deletionOf(n int) Deletion {
	return Deletion{Text: strings.Repeat("x", n), At: 0}
}
