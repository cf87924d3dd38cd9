package buffer

import (
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/undolog/internal/engine/undo"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrMarkerNotFound   = errors.New("marker not found")
)

// Position is a character offset into the buffer text.
type Position = undo.Position

// text is the storage shared by a buffer and its indirect buffers.
type text struct {
	runes   []rune
	props   map[string][]any
	markers markerTable

	// modiff counts modifications; saveModiff is its value at the last save.
	modiff     uint64
	saveModiff uint64

	views []*Buffer
}

// Buffer is a mutable text buffer with point, markers, text properties and
// an undo log. Indirect buffers share the text, markers and properties of
// their base buffer and record into its undo log, but have their own point.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	id   uuid.UUID
	name string

	text *text
	base *Buffer
	log  *undo.Log

	point           Position
	visitedModTime  time.Time
	undoablyChanged bool
}

// New creates an empty, unmodified buffer with undo recording enabled.
func New(name string, opts ...Option) *Buffer {
	b := &Buffer{
		id:   uuid.New(),
		name: name,
		text: &text{props: make(map[string][]any)},
		log:  undo.NewLog(),
	}
	b.text.views = append(b.text.views, b)

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewIndirect creates a buffer sharing base's text. An indirect buffer of an
// indirect buffer shares the root's text.
func NewIndirect(base *Buffer, name string) *Buffer {
	root := base.Root()
	b := &Buffer{
		id:             uuid.New(),
		name:           name,
		text:           root.text,
		base:           root,
		point:          base.point,
		visitedModTime: root.visitedModTime,
	}
	b.text.views = append(b.text.views, b)
	return b
}

// ID returns the buffer's unique identifier.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Name returns the buffer name.
func (b *Buffer) Name() string {
	return b.name
}

// Root returns the buffer owning the text.
func (b *Buffer) Root() *Buffer {
	if b.base != nil {
		return b.base
	}
	return b
}

// Base returns the base buffer of an indirect buffer, or nil.
func (b *Buffer) Base() undo.Buffer {
	if b.base == nil {
		return nil
	}
	return b.base
}

// IsIndirect reports whether b shares another buffer's text.
func (b *Buffer) IsIndirect() bool {
	return b.base != nil
}

// UndoLog returns the log edits of this buffer are recorded in.
func (b *Buffer) UndoLog() *undo.Log {
	return b.Root().log
}

// SetUndoEnabled turns recording on or off. Turning it off drops the
// history; turning it back on starts an empty one.
func (b *Buffer) SetUndoEnabled(enabled bool) {
	log := b.UndoLog()
	if enabled {
		log.Enable()
	} else {
		log.Disable()
	}
}

// UndoEnabled reports whether edits of the buffer are recorded.
func (b *Buffer) UndoEnabled() bool {
	return !b.UndoLog().Disabled()
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return string(b.text.runes)
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() int {
	return len(b.text.runes)
}

// IsEmpty reports whether the buffer has no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.text.runes) == 0
}

// Slice returns the text in [begin, end).
func (b *Buffer) Slice(begin, end Position) (string, error) {
	if err := b.checkRange(begin, end); err != nil {
		return "", err
	}
	return string(b.text.runes[begin:end]), nil
}

// Point returns the cursor position.
func (b *Buffer) Point() Position {
	return b.point
}

// SetPoint moves the cursor.
func (b *Buffer) SetPoint(pos Position) error {
	if err := b.checkOffset(pos); err != nil {
		return err
	}
	b.point = pos
	return nil
}

// Modified reports whether the text changed since the last save.
func (b *Buffer) Modified() bool {
	return b.text.modiff > b.text.saveModiff
}

// ModCount returns the number of modifications made to the text.
func (b *Buffer) ModCount() uint64 {
	return b.text.modiff
}

// MarkSaved records that the text was written to its file at modTime.
func (b *Buffer) MarkSaved(modTime time.Time) {
	b.text.saveModiff = b.text.modiff
	for _, v := range b.text.views {
		v.visitedModTime = modTime
	}
}

// VisitedFileModTime returns the modification time of the visited file as
// of the last visit or save.
func (b *Buffer) VisitedFileModTime() time.Time {
	return b.visitedModTime
}

// UndoablyChanged reports whether the buffer had an undoable change since
// the flag was last reset.
func (b *Buffer) UndoablyChanged() bool {
	return b.undoablyChanged
}

// SetUndoablyChanged sets the undoably-changed flag.
func (b *Buffer) SetUndoablyChanged(v bool) {
	b.undoablyChanged = v
}

// ResetUndoablyChanged clears the flag, so the next undoable change raises
// the first-undoable-change signal again.
func (b *Buffer) ResetUndoablyChanged() {
	b.undoablyChanged = false
}

// Markers iterates the live markers of the buffer text.
func (b *Buffer) Markers() iter.Seq[undo.MarkerState] {
	return b.text.markers.all()
}

func (b *Buffer) checkOffset(pos Position) error {
	if pos < 0 || int(pos) > len(b.text.runes) {
		return ErrOffsetOutOfRange
	}
	return nil
}

func (b *Buffer) checkRange(begin, end Position) error {
	if begin < 0 || begin > end || int(end) > len(b.text.runes) {
		return ErrRangeInvalid
	}
	return nil
}

var _ undo.Buffer = (*Buffer)(nil)
