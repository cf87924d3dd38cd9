package undo

import (
	"iter"
	"time"

	"github.com/dshills/undolog/internal/logging"
)

// Buffer is what the recorder needs from a text buffer.
type Buffer interface {
	// Name identifies the buffer in logs and record dumps.
	Name() string

	// UndoLog returns the log edits of this buffer are recorded in.
	// Indirect buffers return their base buffer's log.
	UndoLog() *Log

	// Point returns the cursor position.
	Point() Position

	// Modified reports whether the buffer changed since it was last saved.
	Modified() bool

	// VisitedFileModTime returns the modification time of the visited file
	// as of the last visit or save. Zero when no file is visited.
	VisitedFileModTime() time.Time

	// Base returns the buffer this one is a view over, or nil.
	Base() Buffer

	// Markers iterates the live markers of the buffer.
	Markers() iter.Seq[MarkerState]

	// UndoablyChanged reports whether the buffer had an undoable change
	// since the flag was last cleared.
	UndoablyChanged() bool

	// SetUndoablyChanged sets the flag.
	SetUndoablyChanged(bool)
}

// Notifier receives the first-undoable-change signal.
type Notifier interface {
	FirstUndoableChange(buf Buffer)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(buf Buffer)

// FirstUndoableChange calls f(buf).
func (f NotifierFunc) FirstUndoableChange(buf Buffer) {
	f(buf)
}

// Session carries the recorder state shared by every buffer edited from one
// editing context: the pending boundary node, the position and buffer of the
// last boundary, and the collection-inhibit depth.
//
// A Session is not safe for concurrent use. It belongs to the goroutine that
// owns the buffers it records for.
type Session struct {
	cfg         Config
	notifier    Notifier
	memoryCheck func() error
	logger      *logging.Logger

	pending *node

	lastBoundaryBuffer   Buffer
	lastBoundaryPosition Position

	inhibit int
}

// NewSession creates a session with default configuration.
func NewSession(opts ...Option) *Session {
	s := &Session{
		cfg:    DefaultConfig(),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("undo")
	return s
}

// Config returns the current configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// SetConfig replaces the configuration. The pending boundary and
// last-boundary state are kept.
func (s *Session) SetConfig(cfg Config) {
	s.cfg = cfg
	s.logger.Debug("configuration updated",
		"soft", cfg.SoftLimit, "strong", cfg.StrongLimit, "outer", outerString(cfg.OuterLimit))
}

// SetOverflowHandler replaces only the overflow handler.
func (s *Session) SetOverflowHandler(h OverflowHandler) {
	s.cfg.OverflowHandler = h
}

// SetNotifier replaces the first-undoable-change receiver.
func (s *Session) SetNotifier(n Notifier) {
	s.notifier = n
}

// HasPendingBoundary reports whether a boundary node is reserved.
func (s *Session) HasPendingBoundary() bool {
	return s.pending != nil
}

// LastBoundary returns the buffer and point of the last MarkBoundary call.
func (s *Session) LastBoundary() (Buffer, Position, bool) {
	if s.lastBoundaryBuffer == nil {
		return nil, 0, false
	}
	return s.lastBoundaryBuffer, s.lastBoundaryPosition, true
}

// QuerySize returns the cost of buf's log through the given number of
// boundaries, or of the whole log when boundaries is zero. ok is false when
// logging is disabled for the buffer.
func (s *Session) QuerySize(buf Buffer, boundaries int) (size int, ok bool, err error) {
	log := buf.UndoLog()
	if log == nil || log.Disabled() {
		return 0, false, nil
	}
	size, err = ScanCost(log, boundaries)
	if err != nil {
		return 0, false, err
	}
	return size, true, nil
}

func outerString(n *int) any {
	if n == nil {
		return "none"
	}
	return *n
}
