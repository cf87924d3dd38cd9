package undo

import "iter"

// node is one cell of the newest-first list.
type node struct {
	entry Entry
	next  *node
}

// Log is a singly linked, newest-first list of undo entries owned by a
// buffer. A disabled log records nothing.
type Log struct {
	head     *node
	length   int
	disabled bool
}

// NewLog returns an empty, enabled log.
func NewLog() *Log {
	return &Log{}
}

// NewDisabledLog returns a log with recording turned off.
func NewDisabledLog() *Log {
	return &Log{disabled: true}
}

// PushFront prepends an entry. It does nothing on a disabled log.
func (l *Log) PushFront(e Entry) {
	if l.disabled || e == nil {
		return
	}
	l.link(&node{entry: e})
}

// link prepends an already allocated node.
func (l *Log) link(n *node) {
	n.next = l.head
	l.head = n
	l.length++
}

// Head returns the newest entry.
func (l *Log) Head() (Entry, bool) {
	if l.head == nil {
		return nil, false
	}
	return l.head.entry, true
}

// Disabled reports whether recording is turned off.
func (l *Log) Disabled() bool {
	return l.disabled
}

// Disable drops all history and turns recording off.
func (l *Log) Disable() {
	l.head = nil
	l.length = 0
	l.disabled = true
}

// Enable turns recording back on with an empty history.
// Enabling an already enabled log keeps its history.
func (l *Log) Enable() {
	if !l.disabled {
		return
	}
	l.disabled = false
	l.head = nil
	l.length = 0
}

// Clear drops all history. A disabled log stays disabled.
func (l *Log) Clear() {
	l.head = nil
	l.length = 0
}

// Len returns the number of entries, boundaries included.
func (l *Log) Len() int {
	return l.length
}

// All iterates entries newest first.
func (l *Log) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for n := l.head; n != nil; n = n.next {
			if !yield(n.entry) {
				return
			}
		}
	}
}

// Entries returns a newest-first copy of the entries.
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, l.length)
	for e := range l.All() {
		out = append(out, e)
	}
	return out
}

// Boundaries returns the number of boundary entries.
func (l *Log) Boundaries() int {
	count := 0
	for e := range l.All() {
		if isBoundary(e) {
			count++
		}
	}
	return count
}

// cutAfter drops every node after n and recounts the length.
func (l *Log) cutAfter(n *node) {
	n.next = nil
	count := 0
	for c := l.head; c != nil; c = c.next {
		count++
	}
	l.length = count
}

// replaceHead swaps the newest entry in place.
func (l *Log) replaceHead(e Entry) {
	if l.head != nil {
		l.head.entry = e
	}
}

// atBoundary reports whether the log is empty or its head is a boundary.
func (l *Log) atBoundary() bool {
	return l.head == nil || isBoundary(l.head.entry)
}

func isBoundary(e Entry) bool {
	_, ok := e.(Boundary)
	return ok
}
