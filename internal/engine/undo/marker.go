package undo

// recordMarkerAdjustments records, for every marker of buf in [from, to],
// how far it must move when the deletion of that range is undone.
//
// Deleting the range collapses those markers to from. Reinserting the text
// leaves non-advancing markers at from and pushes advancing ones to to, the
// opposite of where each kind should land, so each marker whose position
// differs from its landing spot gets a record with the difference.
func (s *Session) recordMarkerAdjustments(buf Buffer, from, to Position) error {
	if err := s.reservePending(); err != nil {
		return err
	}
	s.noteUndoableChange(buf)

	log := buf.UndoLog()
	for m := range buf.Markers() {
		if m.Position < from || m.Position > to {
			continue
		}
		target := from
		if m.InsertionType {
			target = to
		}
		if delta := int(target - m.Position); delta != 0 {
			s.push(log, MarkerAdjustment{Marker: m.Ref, Delta: delta})
		}
	}
	return nil
}
