package undo

import "fmt"

// MarkBoundary ends the current command in buf's log. When there is at
// least one record since the last boundary, the reserved boundary node is
// linked at the head; otherwise the log is left alone. It never reports
// ErrResourceExhausted; that surfaces only when a record reserves. Either way point and
// buf are remembered as the last boundary, which point recording consults.
func (s *Session) MarkBoundary(buf Buffer) error {
	log := buf.UndoLog()
	if log == nil || log.Disabled() {
		return nil
	}

	if head, ok := log.Head(); ok && !isBoundary(head) {
		// A command that recorded into several logs has used its one
		// reservation already. Closing it must not fail, so the extra node
		// bypasses the memory check.
		n := s.pending
		if n == nil {
			n = newBoundaryNode()
		}
		s.pending = nil
		log.link(n)
		recordsTotal.WithLabelValues(KindBoundary.String()).Inc()
	}

	s.lastBoundaryPosition = buf.Point()
	s.lastBoundaryBuffer = buf
	return nil
}

// reservePending allocates the boundary node the current command will end
// with, unless one is already reserved. Any failure surfaces here, before
// the command has recorded anything.
func (s *Session) reservePending() error {
	if s.pending != nil {
		return nil
	}
	n, err := s.allocBoundary()
	if err != nil {
		return err
	}
	s.pending = n
	return nil
}

func (s *Session) allocBoundary() (*node, error) {
	if s.memoryCheck != nil {
		if err := s.memoryCheck(); err != nil {
			reservationFailuresTotal.Inc()
			s.logger.Warn("boundary reservation refused", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrResourceExhausted, err)
		}
	}
	return newBoundaryNode(), nil
}

func newBoundaryNode() *node {
	return &node{entry: Boundary{}}
}

// noteUndoableChange raises the first-undoable-change signal once per clean
// interval of buf.
func (s *Session) noteUndoableChange(buf Buffer) {
	if buf.UndoablyChanged() {
		return
	}
	buf.SetUndoablyChanged(true)
	if s.notifier != nil {
		s.notifier.FirstUndoableChange(buf)
	}
}
