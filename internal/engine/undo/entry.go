package undo

import (
	"fmt"
	"time"
)

// Position is a character offset into a buffer.
type Position int

// Kind identifies the arm of an Entry.
type Kind uint8

const (
	KindBoundary Kind = iota
	KindInsertion
	KindDeletion
	KindMarkerAdjustment
	KindPropertyChange
	KindFirstChange
	KindCursorHint
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBoundary:
		return "boundary"
	case KindInsertion:
		return "insertion"
	case KindDeletion:
		return "deletion"
	case KindMarkerAdjustment:
		return "marker-adjustment"
	case KindPropertyChange:
		return "property-change"
	case KindFirstChange:
		return "first-change"
	case KindCursorHint:
		return "cursor-hint"
	default:
		return "unknown"
	}
}

// Entry is one node payload in an undo log. The set of implementations is
// closed: Boundary, Insertion, Deletion, MarkerAdjustment, PropertyChange,
// FirstChange and CursorHint.
type Entry interface {
	Kind() Kind
	String() string
	entry()
}

// Boundary separates the records of one command from the next.
type Boundary struct{}

// Insertion records that [Begin, End) was inserted.
type Insertion struct {
	Begin Position
	End   Position
}

// Deletion records deleted text. At is where the text started; PointAtEnd
// reports that point sat at the end of the deleted range when it was removed,
// so undoing it should leave point after the reinserted text.
type Deletion struct {
	Text       string
	At         Position
	PointAtEnd bool
}

// MarkerAdjustment records that Marker must move by Delta when the deletion
// recorded right after it is undone.
type MarkerAdjustment struct {
	Marker MarkerRef
	Delta  int
}

// PropertyChange records the previous value of a text property over
// [Begin, End) in Buffer, which need not own the log holding the record.
type PropertyChange struct {
	Property string
	OldValue any
	Begin    Position
	End      Position
	Buffer   Buffer
}

// FirstChange marks the transition from unmodified to modified.
// SavedFileTime is the visited file's modification time at that moment.
type FirstChange struct {
	SavedFileTime time.Time
}

// CursorHint records where point was before the command started.
type CursorHint struct {
	Position Position
}

func (Boundary) Kind() Kind         { return KindBoundary }
func (Insertion) Kind() Kind        { return KindInsertion }
func (Deletion) Kind() Kind         { return KindDeletion }
func (MarkerAdjustment) Kind() Kind { return KindMarkerAdjustment }
func (PropertyChange) Kind() Kind   { return KindPropertyChange }
func (FirstChange) Kind() Kind      { return KindFirstChange }
func (CursorHint) Kind() Kind       { return KindCursorHint }

func (Boundary) entry()         {}
func (Insertion) entry()        {}
func (Deletion) entry()         {}
func (MarkerAdjustment) entry() {}
func (PropertyChange) entry()   {}
func (FirstChange) entry()      {}
func (CursorHint) entry()       {}

func (Boundary) String() string { return "boundary" }

func (e Insertion) String() string {
	return fmt.Sprintf("insert [%d,%d)", e.Begin, e.End)
}

func (e Deletion) String() string {
	at := int(e.At)
	if e.PointAtEnd {
		at = -at
	}
	return fmt.Sprintf("delete %q at %d", e.Text, at)
}

func (e MarkerAdjustment) String() string {
	return fmt.Sprintf("marker %s %+d", e.Marker, e.Delta)
}

func (e PropertyChange) String() string {
	name := "<nil>"
	if e.Buffer != nil {
		name = e.Buffer.Name()
	}
	return fmt.Sprintf("property %s=%v [%d,%d) in %s", e.Property, e.OldValue, e.Begin, e.End, name)
}

func (e FirstChange) String() string {
	if e.SavedFileTime.IsZero() {
		return "first-change (no file)"
	}
	return "first-change " + e.SavedFileTime.UTC().Format(time.RFC3339)
}

func (e CursorHint) String() string {
	return fmt.Sprintf("point %d", e.Position)
}

// MarkerRef is a lookup-only handle to a marker in a buffer's marker table.
// It never keeps the marker alive; once the marker is deleted the handle
// resolves to nothing because the slot's generation has moved on.
type MarkerRef struct {
	Index      uint32
	Generation uint32
}

// String returns a compact form of the handle.
func (r MarkerRef) String() string {
	return fmt.Sprintf("#%d.%d", r.Index, r.Generation)
}

// MarkerState is a snapshot of one live marker as the buffer reports it.
type MarkerState struct {
	Ref      MarkerRef
	Position Position
	// InsertionType markers advance when text is inserted at their position.
	InsertionType bool
}
