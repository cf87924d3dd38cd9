package buffer

import (
	"slices"
	"unicode/utf8"
)

// Insert inserts s at pos and returns the end of the inserted text.
// Markers after pos move forward, as do markers at pos that advance on
// insertion. Point of this buffer moves forward when it is at or after pos;
// point of other buffers sharing the text moves only when after pos.
//
// Insert does not record undo information; see the engine package.
func (b *Buffer) Insert(pos Position, s string) (Position, error) {
	if err := b.checkOffset(pos); err != nil {
		return 0, err
	}
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return pos, nil
	}

	t := b.text
	t.runes = slices.Insert(t.runes, int(pos), []rune(s)...)
	for name, vals := range t.props {
		t.props[name] = slices.Insert(vals, int(pos), make([]any, n)...)
	}
	t.markers.adjustForInsert(pos, n)

	delta := Position(n)
	for _, v := range t.views {
		if v.point > pos || (v == b && v.point == pos) {
			v.point += delta
		}
	}
	t.modiff++

	return pos + delta, nil
}

// Delete removes [begin, end) and returns the removed text. Markers and
// points inside the range collapse to begin.
//
// Delete does not record undo information; see the engine package.
func (b *Buffer) Delete(begin, end Position) (string, error) {
	if err := b.checkRange(begin, end); err != nil {
		return "", err
	}
	if begin == end {
		return "", nil
	}

	t := b.text
	removed := string(t.runes[begin:end])
	t.runes = slices.Delete(t.runes, int(begin), int(end))
	for name, vals := range t.props {
		t.props[name] = slices.Delete(vals, int(begin), int(end))
	}
	t.markers.adjustForDelete(begin, end)

	for _, v := range t.views {
		v.point = collapse(v.point, begin, end)
	}
	t.modiff++

	return removed, nil
}

// Overwrite replaces the characters starting at begin with s, keeping the
// length of the text, and returns the overwritten text. Markers and point
// do not move.
func (b *Buffer) Overwrite(begin Position, s string) (string, error) {
	n := utf8.RuneCountInString(s)
	end := begin + Position(n)
	if err := b.checkRange(begin, end); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}

	t := b.text
	old := string(t.runes[begin:end])
	copy(t.runes[begin:end], []rune(s))
	t.modiff++

	return old, nil
}

// collapse maps a position through the deletion of [begin, end).
func collapse(pos, begin, end Position) Position {
	switch {
	case pos >= end:
		return pos - (end - begin)
	case pos > begin:
		return begin
	default:
		return pos
	}
}
