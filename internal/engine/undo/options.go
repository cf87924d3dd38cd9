package undo

import "github.com/dshills/undolog/internal/logging"

// Default retention thresholds, in cost-model bytes.
const (
	DefaultSoftLimit   = 80000
	DefaultStrongLimit = 120000
	DefaultOuterLimit  = 12000000
)

// OverflowHandler is called when the newest command alone costs more than
// the outer limit. Returning handled=true means the handler took care of the
// log and truncation stops there.
type OverflowHandler func(buf Buffer, size int) (handled bool, err error)

// Config holds the retention and recording settings of a Session.
type Config struct {
	// SoftLimit: history past the command that crosses it is dropped.
	SoftLimit int
	// StrongLimit: the command that crosses it is dropped as well.
	StrongLimit int
	// OuterLimit bounds the newest command; nil means no bound.
	OuterLimit *int
	// OverflowHandler runs when OuterLimit is exceeded.
	OverflowHandler OverflowHandler
	// SuppressPointRecording turns off point recording entirely.
	SuppressPointRecording bool
}

// DefaultConfig returns the stock thresholds with no overflow handler.
func DefaultConfig() Config {
	return Config{
		SoftLimit:   DefaultSoftLimit,
		StrongLimit: DefaultStrongLimit,
		OuterLimit:  Limit(DefaultOuterLimit),
	}
}

// Limit returns a pointer to n, for Config.OuterLimit.
func Limit(n int) *int {
	return &n
}

// Option configures a Session during creation.
type Option func(*Session)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithSoftLimit sets the soft retention limit.
func WithSoftLimit(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.cfg.SoftLimit = n
		}
	}
}

// WithStrongLimit sets the strong retention limit.
func WithStrongLimit(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.cfg.StrongLimit = n
		}
	}
}

// WithOuterLimit sets the outer limit. A nil limit disables it.
func WithOuterLimit(n *int) Option {
	return func(s *Session) {
		s.cfg.OuterLimit = n
	}
}

// WithOverflowHandler sets the outer-limit handler.
func WithOverflowHandler(h OverflowHandler) Option {
	return func(s *Session) {
		s.cfg.OverflowHandler = h
	}
}

// WithSuppressPointRecording turns point recording off.
func WithSuppressPointRecording(suppress bool) Option {
	return func(s *Session) {
		s.cfg.SuppressPointRecording = suppress
	}
}

// WithNotifier sets the receiver of the first-undoable-change signal.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithMemoryCheck installs a check consulted whenever a boundary node is
// reserved. A non-nil error makes the reservation, and so the recording
// call, fail with ErrResourceExhausted before anything is recorded.
func WithMemoryCheck(check func() error) Option {
	return func(s *Session) {
		s.memoryCheck = check
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
