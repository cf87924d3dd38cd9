package undo

import (
	"fmt"

	"github.com/dshills/undolog/internal/logging"
)

// CollectionInhibited reports whether a truncation pass is in progress.
// Collectors must not start another one while it is.
func (s *Session) CollectionInhibited() bool {
	return s.inhibit > 0
}

// InhibitCollection blocks truncation until the returned release function
// is called. Calls nest.
func (s *Session) InhibitCollection() (release func()) {
	s.inhibit++
	released := false
	return func() {
		if !released {
			released = true
			s.inhibit--
		}
	}
}

// Truncate shortens buf's log at collection time.
//
// A boundary at the head of the log is kept without being charged. The
// newest command is always kept unless it alone exceeds the outer limit and
// the overflow handler takes over. Older commands are kept while
// the running total stays within the soft limit; the command that crosses
// the soft limit is kept too, unless the total also crosses the strong
// limit, in which case it goes with everything older. A log that is scanned
// to its end without crossing a limit at a boundary is left unchanged.
//
// Truncation runs with collection inhibited, so the overflow handler cannot
// start a nested pass. Handler errors are returned after the inhibition has
// been lifted.
func (s *Session) Truncate(buf Buffer) error {
	if s.CollectionInhibited() {
		s.logger.Debug("truncation skipped, collection inhibited", "buffer", buf.Name())
		return nil
	}
	log := buf.UndoLog()
	if !recording(log) {
		truncationsTotal.WithLabelValues(outcomeDisabled).Inc()
		return nil
	}

	release := s.InhibitCollection()
	defer release()

	length := log.length
	seen := 0
	var prev, lastBoundary *node
	next := log.head
	size := 0

	advance := func() error {
		seen++
		if next.entry == nil || seen > length {
			return ErrMalformedLog
		}
		size += Cost(next.entry)
		prev = next
		next = next.next
		return nil
	}
	failClosed := func(err error) error {
		truncationsTotal.WithLabelValues(outcomeFailed).Inc()
		s.logger.Error("undo log is malformed, not truncating", "buffer", buf.Name())
		return err
	}

	// A leading boundary is skipped and not charged.
	if next != nil && next.entry != nil && isBoundary(next.entry) {
		if err := advance(); err != nil {
			return failClosed(err)
		}
		size = 0
	}

	// The newest command.
	for next != nil && (next.entry == nil || !isBoundary(next.entry)) {
		if err := advance(); err != nil {
			return failClosed(err)
		}
	}

	cfg := s.cfg
	if cfg.OuterLimit != nil && size > *cfg.OuterLimit && cfg.OverflowHandler != nil {
		overflowCallsTotal.Inc()
		s.logger.Warn("newest command exceeds outer limit",
			"buffer", buf.Name(), "size", size, "outer", *cfg.OuterLimit)
		handled, err := cfg.OverflowHandler(buf, size)
		if err != nil {
			truncationsTotal.WithLabelValues(outcomeFailed).Inc()
			return fmt.Errorf("undo: overflow handler: %w", err)
		}
		if handled {
			truncationsTotal.WithLabelValues(outcomeHandled).Inc()
			return nil
		}
	}

	if next != nil {
		lastBoundary = prev
	}

	for next != nil {
		if next.entry != nil && isBoundary(next.entry) {
			if size > cfg.StrongLimit {
				break
			}
			lastBoundary = prev
			if size > cfg.SoftLimit {
				break
			}
		}
		if err := advance(); err != nil {
			return failClosed(err)
		}
	}

	if next == nil {
		truncationsTotal.WithLabelValues(outcomeKept).Inc()
		return nil
	}

	if lastBoundary == nil {
		dropped, _ := ScanCost(log, 0)
		log.Clear()
		truncatedBytesTotal.Add(float64(dropped))
		truncationsTotal.WithLabelValues(outcomeCleared).Inc()
		s.logger.Debug("undo log cleared", "buffer", buf.Name(), "dropped", dropped)
		return nil
	}

	dropped := 0
	for n := lastBoundary.next; n != nil; n = n.next {
		if n.entry != nil {
			dropped += Cost(n.entry)
		}
	}
	log.cutAfter(lastBoundary)
	truncatedBytesTotal.Add(float64(dropped))
	truncationsTotal.WithLabelValues(outcomeCut).Inc()
	s.logger.Debug("undo log truncated", "buffer", buf.Name(), "kept", log.Len(), "dropped", dropped)
	return nil
}

// DiscardOverflow returns the stock overflow handler: it drops the whole
// log of the offending buffer and logs a warning.
func DiscardOverflow(logger *logging.Logger) OverflowHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(buf Buffer, size int) (bool, error) {
		logger.Warn("undo info discarded for a command that was too big",
			"buffer", buf.Name(), "size", size)
		if log := buf.UndoLog(); log != nil {
			log.Clear()
		}
		return true, nil
	}
}
