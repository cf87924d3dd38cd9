package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dshills/undolog/internal/engine/buffer"
	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Position is a character offset into a buffer.
	Position = undo.Position

	// Entry is one record of an undo log.
	Entry = undo.Entry
)

// Engine owns a set of named buffers and the undo session that records
// their edits. Every edit primitive records before it mutates, so the
// journal always describes how to get back to the previous state.
//
// All operations are serialized by a mutex, so configuration can be
// reloaded from another goroutine while edits are applied.
type Engine struct {
	mu sync.Mutex

	session *undo.Session
	buffers map[string]*buffer.Buffer
	order   []string
	logger  *logging.Logger

	sessionOpts []undo.Option
	autoCollect bool
	readOnly    bool
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		buffers: make(map[string]*buffer.Buffer),
		logger:  logging.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	sessionOpts := append([]undo.Option{undo.WithLogger(e.logger)}, e.sessionOpts...)
	e.session = undo.NewSession(sessionOpts...)
	e.logger = e.logger.WithComponent("engine")

	return e
}

// Session returns the undo session. Callers must not use it concurrently
// with the engine.
func (e *Engine) Session() *undo.Session {
	return e.session
}

// ============================================================================
// Buffers
// ============================================================================

// CreateBuffer creates a named buffer.
func (e *Engine) CreateBuffer(name string, opts ...buffer.Option) (*buffer.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.buffers[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrBufferExists, name)
	}
	b := buffer.New(name, opts...)
	e.add(b)
	e.logger.Debug("buffer created", "buffer", name, "id", b.ID().String(), "len", b.Len())
	return b, nil
}

// CreateIndirect creates a buffer sharing the text and undo log of base.
func (e *Engine) CreateIndirect(base, name string) (*buffer.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.buffers[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrBufferExists, name)
	}
	root, err := e.lookup(base)
	if err != nil {
		return nil, err
	}
	b := buffer.NewIndirect(root, name)
	e.add(b)
	e.logger.Debug("indirect buffer created", "buffer", name, "base", root.Root().Name())
	return b, nil
}

// Buffer returns the named buffer.
func (e *Engine) Buffer(name string) (*buffer.Buffer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lookup(name)
}

// Buffers returns all buffers in creation order.
func (e *Engine) Buffers() []*buffer.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*buffer.Buffer, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.buffers[name])
	}
	return out
}

func (e *Engine) add(b *buffer.Buffer) {
	e.buffers[b.Name()] = b
	e.order = append(e.order, b.Name())
}

func (e *Engine) lookup(name string) (*buffer.Buffer, error) {
	b, ok := e.buffers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBufferNotFound, name)
	}
	return b, nil
}

func (e *Engine) writable(name string) (*buffer.Buffer, error) {
	if e.readOnly {
		return nil, ErrReadOnly
	}
	return e.lookup(name)
}

// ============================================================================
// Edit primitives
// ============================================================================

// Insert inserts text at pos in the named buffer.
func (e *Engine) Insert(name string, pos Position, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.writable(name)
	if err != nil {
		return err
	}
	return e.insert(b, pos, text)
}

func (e *Engine) insert(b *buffer.Buffer, pos Position, text string) error {
	if pos < 0 || int(pos) > b.Len() {
		return fmt.Errorf("insert at %d: %w", pos, ErrOffsetOutOfRange)
	}
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return nil
	}
	if err := e.session.RecordInsertion(b, pos, n); err != nil {
		return fmt.Errorf("insert at %d: %w", pos, err)
	}
	_, err := b.Insert(pos, text)
	return err
}

// Delete removes [begin, end) from the named buffer and returns the
// removed text.
func (e *Engine) Delete(name string, begin, end Position) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.writable(name)
	if err != nil {
		return "", err
	}
	return e.delete(b, begin, end)
}

func (e *Engine) delete(b *buffer.Buffer, begin, end Position) (string, error) {
	text, err := b.Slice(begin, end)
	if err != nil {
		return "", fmt.Errorf("delete [%d,%d): %w", begin, end, err)
	}
	if text == "" {
		return "", nil
	}
	if err := e.session.RecordDeletion(b, begin, text, true); err != nil {
		return "", fmt.Errorf("delete [%d,%d): %w", begin, end, err)
	}
	return b.Delete(begin, end)
}

// Replace replaces [begin, end) with text. A replacement of the same length
// is recorded as a change; others as a deletion followed by an insertion.
func (e *Engine) Replace(name string, begin, end Position, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.writable(name)
	if err != nil {
		return err
	}

	old, err := b.Slice(begin, end)
	if err != nil {
		return fmt.Errorf("replace [%d,%d): %w", begin, end, err)
	}
	if utf8.RuneCountInString(text) == int(end-begin) {
		if old == text {
			return nil
		}
		if err := e.session.RecordChange(b, begin, old); err != nil {
			return fmt.Errorf("replace [%d,%d): %w", begin, end, err)
		}
		_, err = b.Overwrite(begin, text)
		return err
	}

	if _, err := e.delete(b, begin, end); err != nil {
		return err
	}
	return e.insert(b, begin, text)
}

// PutProperty sets a text property over [begin, end) of the named buffer,
// recording the previous value of every run that changes.
func (e *Engine) PutProperty(name string, begin, end Position, property string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.writable(name)
	if err != nil {
		return err
	}

	runs, err := b.PropertyRuns(begin, end, property)
	if err != nil {
		return fmt.Errorf("put property %s: %w", property, err)
	}
	for _, r := range runs {
		if buffer.SameValue(r.Value, value) {
			continue
		}
		if err := e.session.RecordPropertyChange(r.Begin, int(r.End-r.Begin), property, r.Value, b); err != nil {
			return fmt.Errorf("put property %s: %w", property, err)
		}
	}
	_, err = b.PutProperty(begin, end, property, value)
	return err
}

// Goto moves point of the named buffer.
func (e *Engine) Goto(name string, pos Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return err
	}
	return b.SetPoint(pos)
}

// NewMarker places a marker at pos in the named buffer. An insertion-type
// marker advances past text inserted at its position.
func (e *Engine) NewMarker(name string, pos Position, insertionType bool) (undo.MarkerRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return undo.MarkerRef{}, err
	}
	return b.NewMarker(pos, insertionType)
}

// MarkerPosition returns the current position of a marker in the named
// buffer.
func (e *Engine) MarkerPosition(name string, ref undo.MarkerRef) (Position, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return 0, err
	}
	pos, ok := b.MarkerPosition(ref)
	if !ok {
		return 0, buffer.ErrMarkerNotFound
	}
	return pos, nil
}

// Save marks the named buffer as saved to its file at modTime.
func (e *Engine) Save(name string, modTime time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return err
	}
	b.MarkSaved(modTime)
	e.logger.Debug("buffer saved", "buffer", name, "modtime", modTime)
	return nil
}

// ============================================================================
// Undo
// ============================================================================

// EndCommand marks the end of a command in the named buffer. With
// auto-collection enabled it then truncates every log.
func (e *Engine) EndCommand(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return err
	}
	if err := e.session.MarkBoundary(b); err != nil {
		return fmt.Errorf("end command in %s: %w", name, err)
	}
	if e.autoCollect {
		return e.collect()
	}
	return nil
}

// Collect truncates the undo log of every buffer that owns one. It does
// nothing while collection is inhibited.
func (e *Engine) Collect() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collect()
}

func (e *Engine) collect() error {
	if e.session.CollectionInhibited() {
		return nil
	}
	var errs []error
	for _, name := range e.order {
		b := e.buffers[name]
		if b.IsIndirect() {
			continue
		}
		if err := e.session.Truncate(b); err != nil {
			errs = append(errs, fmt.Errorf("collect %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// SetUndoEnabled turns recording on or off for the named buffer and the
// buffers sharing its text.
func (e *Engine) SetUndoEnabled(name string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return err
	}
	b.SetUndoEnabled(enabled)
	return nil
}

// UndoSize returns the cost of the named buffer's log through the given
// number of boundaries, or of the whole log when boundaries is zero.
// ok is false when recording is disabled.
func (e *Engine) UndoSize(name string, boundaries int) (size int, ok bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return 0, false, err
	}
	return e.session.QuerySize(b, boundaries)
}

// UndoEntries returns the named buffer's log, newest first.
func (e *Engine) UndoEntries(name string) ([]Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	return b.UndoLog().Entries(), nil
}

// ResetUndoablyChanged starts a new clean interval for the named buffer.
func (e *Engine) ResetUndoablyChanged(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.lookup(name)
	if err != nil {
		return err
	}
	b.ResetUndoablyChanged()
	return nil
}

// ApplyUndoConfig replaces the retention settings of the session.
func (e *Engine) ApplyUndoConfig(cfg undo.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.SetConfig(cfg)
}

// UndoConfig returns the current retention settings.
func (e *Engine) UndoConfig() undo.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Config()
}

// SetAutoCollect turns collection after every command on or off.
func (e *Engine) SetAutoCollect(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoCollect = enabled
}
