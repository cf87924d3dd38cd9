package undo

import "fmt"

// Cost model constants, in bytes.
const (
	// EntryOverhead is charged for every entry, boundaries included.
	EntryOverhead = 16

	// TextOverhead is charged on top of EntryOverhead for the string object
	// held by a Deletion.
	TextOverhead = 31
)

// Cost returns the retention cost of one entry.
func Cost(e Entry) int {
	size := EntryOverhead
	if d, ok := e.(Deletion); ok {
		size += TextOverhead + len(d.Text)
	}
	return size
}

// ScanCost sums entry costs from the head of the log. It stops after the
// boundaries-th boundary has been crossed, counting that boundary. A count of
// zero scans the whole log.
func ScanCost(l *Log, boundaries int) (int, error) {
	if boundaries < 0 {
		return 0, fmt.Errorf("%w: boundary count %d", ErrInvalidArgument, boundaries)
	}

	size, crossed, seen := 0, 0, 0
	for n := l.head; n != nil; n = n.next {
		seen++
		if n.entry == nil || seen > l.length {
			return 0, ErrMalformedLog
		}
		size += Cost(n.entry)
		if isBoundary(n.entry) {
			crossed++
			if boundaries > 0 && crossed >= boundaries {
				break
			}
		}
	}
	return size, nil
}
