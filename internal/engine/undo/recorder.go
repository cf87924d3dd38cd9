package undo

import (
	"time"
	"unicode/utf8"
)

// RecordInsertion records that length characters were inserted at begin.
// An insertion that continues the insertion at the head of the log extends
// that record instead of adding a new one.
func (s *Session) RecordInsertion(buf Buffer, begin Position, length int) error {
	log := buf.UndoLog()
	if !recording(log) {
		return nil
	}
	if err := s.reservePending(); err != nil {
		return err
	}
	if err := s.recordPoint(buf, begin); err != nil {
		return err
	}

	end := begin + Position(length)
	if head, ok := log.Head(); ok {
		if ins, ok := head.(Insertion); ok && ins.End == begin {
			log.replaceHead(Insertion{Begin: ins.Begin, End: end})
			coalescedInsertionsTotal.Inc()
			return nil
		}
	}

	s.push(log, Insertion{Begin: begin, End: end})
	return nil
}

// RecordDeletion records that text is about to be deleted at begin. When
// adjustMarkers is set, marker corrections for the deleted range are
// recorded first so they sit right before the deletion record.
func (s *Session) RecordDeletion(buf Buffer, begin Position, text string, adjustMarkers bool) error {
	log := buf.UndoLog()
	if !recording(log) {
		return nil
	}
	if err := s.reservePending(); err != nil {
		return err
	}

	end := begin + Position(utf8.RuneCountInString(text))
	rec := Deletion{Text: text, At: begin}
	pt := begin
	if p := buf.Point(); p == end {
		rec.PointAtEnd = true
		pt = p
	}
	if err := s.recordPoint(buf, pt); err != nil {
		return err
	}

	if adjustMarkers {
		if err := s.recordMarkerAdjustments(buf, begin, end); err != nil {
			return err
		}
	}

	s.push(log, rec)
	return nil
}

// RecordChange records a replacement that keeps the character count:
// oldText at begin is about to be overwritten by as many characters.
// Markers are not adjusted.
func (s *Session) RecordChange(buf Buffer, begin Position, oldText string) error {
	if err := s.RecordDeletion(buf, begin, oldText, false); err != nil {
		return err
	}
	return s.RecordInsertion(buf, begin, utf8.RuneCountInString(oldText))
}

// RecordFirstChange records that an unmodified buffer is about to change,
// with the visited file's modification time so undo can tell whether the
// record went stale through a later save. Indirect buffers record against
// their root buffer.
func (s *Session) RecordFirstChange(buf Buffer) error {
	if !recording(buf.UndoLog()) {
		return nil
	}
	if err := s.reservePending(); err != nil {
		return err
	}
	s.pushFirstChange(buf)
	return nil
}

// RecordPropertyChange records that property had oldValue over
// [begin, begin+length) of target before a change. The record goes into
// target's log, which need not belong to the buffer the caller is editing.
func (s *Session) RecordPropertyChange(begin Position, length int, property string, oldValue any, target Buffer) error {
	log := target.UndoLog()
	if !recording(log) {
		return nil
	}
	if err := s.reservePending(); err != nil {
		return err
	}
	s.noteUndoableChange(target)

	if !target.Modified() {
		s.pushFirstChange(target)
	}

	s.push(log, PropertyChange{
		Property: property,
		OldValue: oldValue,
		Begin:    begin,
		End:      begin + Position(length),
		Buffer:   target,
	})
	return nil
}

// pushFirstChange records the first change of root(buf) unless the current
// command already holds one for the same saved file time. The buffer stays
// unmodified until the edit primitive that records is done, so records made
// by one primitive would otherwise each add a FirstChange.
func (s *Session) pushFirstChange(buf Buffer) {
	root := Root(buf)
	log := root.UndoLog()
	saved := root.VisitedFileModTime()
	if hasFirstChange(log, saved) {
		return
	}
	s.push(log, FirstChange{SavedFileTime: saved})
}

// hasFirstChange reports whether the records after the newest boundary of
// log include a FirstChange for saved.
func hasFirstChange(log *Log, saved time.Time) bool {
	if log == nil {
		return false
	}
	for n, seen := log.head, 0; n != nil && seen < log.length; n, seen = n.next, seen+1 {
		switch e := n.entry.(type) {
		case Boundary:
			return false
		case FirstChange:
			if e.SavedFileTime.Equal(saved) {
				return true
			}
		}
	}
	return false
}

func (s *Session) push(log *Log, e Entry) {
	if !recording(log) {
		return
	}
	log.PushFront(e)
	recordsTotal.WithLabelValues(e.Kind().String()).Inc()
}

// Root follows Base links to the buffer that owns the text.
func Root(buf Buffer) Buffer {
	for b := buf.Base(); b != nil; b = b.Base() {
		buf = b
	}
	return buf
}

func recording(log *Log) bool {
	return log != nil && !log.Disabled()
}
