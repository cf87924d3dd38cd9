package undo

// recordPoint prepares buf's log for a record whose natural cursor position
// after undo is pt. It reserves the closing boundary, raises the
// first-undoable-change signal, marks the first change since save, and, right
// after a boundary, records where point was when that boundary was made if
// it differs from pt.
func (s *Session) recordPoint(buf Buffer, pt Position) error {
	if s.cfg.SuppressPointRecording {
		return nil
	}
	if err := s.reservePending(); err != nil {
		return err
	}
	s.noteUndoableChange(buf)

	log := buf.UndoLog()
	atBoundary := log.atBoundary()

	if !buf.Modified() {
		s.pushFirstChange(buf)
	}

	if atBoundary && s.lastBoundaryBuffer == buf && s.lastBoundaryPosition != pt {
		s.push(log, CursorHint{Position: s.lastBoundaryPosition})
	}
	return nil
}
