package buffer

import (
	"iter"

	"github.com/dshills/undolog/internal/engine/undo"
)

type markerSlot struct {
	pos           Position
	insertionType bool
	generation    uint32
	live          bool
}

// markerTable stores markers in reusable slots. A MarkerRef names a slot
// and the generation it was issued for, so a deleted marker's ref no longer
// resolves even after the slot is reused.
type markerTable struct {
	slots []markerSlot
	free  []uint32
}

func (t *markerTable) add(pos Position, insertionType bool) undo.MarkerRef {
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, markerSlot{})
	}
	s := &t.slots[idx]
	s.pos = pos
	s.insertionType = insertionType
	s.live = true
	return undo.MarkerRef{Index: idx, Generation: s.generation}
}

func (t *markerTable) lookup(ref undo.MarkerRef) *markerSlot {
	if int(ref.Index) >= len(t.slots) {
		return nil
	}
	s := &t.slots[ref.Index]
	if !s.live || s.generation != ref.Generation {
		return nil
	}
	return s
}

func (t *markerTable) remove(ref undo.MarkerRef) bool {
	s := t.lookup(ref)
	if s == nil {
		return false
	}
	s.live = false
	s.generation++
	t.free = append(t.free, ref.Index)
	return true
}

func (t *markerTable) all() iter.Seq[undo.MarkerState] {
	return func(yield func(undo.MarkerState) bool) {
		for i := range t.slots {
			s := &t.slots[i]
			if !s.live {
				continue
			}
			st := undo.MarkerState{
				Ref:           undo.MarkerRef{Index: uint32(i), Generation: s.generation},
				Position:      s.pos,
				InsertionType: s.insertionType,
			}
			if !yield(st) {
				return
			}
		}
	}
}

func (t *markerTable) adjustForInsert(pos Position, n int) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live {
			continue
		}
		if s.pos > pos || (s.pos == pos && s.insertionType) {
			s.pos += Position(n)
		}
	}
}

func (t *markerTable) adjustForDelete(begin, end Position) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.live {
			s.pos = collapse(s.pos, begin, end)
		}
	}
}

// NewMarker creates a marker at pos. Markers with insertionType set advance
// when text is inserted at their position.
func (b *Buffer) NewMarker(pos Position, insertionType bool) (undo.MarkerRef, error) {
	if err := b.checkOffset(pos); err != nil {
		return undo.MarkerRef{}, err
	}
	return b.text.markers.add(pos, insertionType), nil
}

// DeleteMarker removes a marker. It reports false if ref does not name a
// live marker.
func (b *Buffer) DeleteMarker(ref undo.MarkerRef) bool {
	return b.text.markers.remove(ref)
}

// MarkerPosition returns the position of a live marker.
func (b *Buffer) MarkerPosition(ref undo.MarkerRef) (Position, bool) {
	s := b.text.markers.lookup(ref)
	if s == nil {
		return 0, false
	}
	return s.pos, true
}

// SetMarkerPosition moves a live marker.
func (b *Buffer) SetMarkerPosition(ref undo.MarkerRef, pos Position) error {
	s := b.text.markers.lookup(ref)
	if s == nil {
		return ErrMarkerNotFound
	}
	if err := b.checkOffset(pos); err != nil {
		return err
	}
	s.pos = pos
	return nil
}
