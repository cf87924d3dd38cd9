package undo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkBoundaryIdempotent(t *testing.T) {
	s := NewSession()
	b := newFakeBuffer("main")

	require.NoError(t, s.RecordInsertion(b, 0, 1))
	require.NoError(t, s.MarkBoundary(b))
	require.NoError(t, s.MarkBoundary(b))

	assert.Equal(t, []Entry{Boundary{}, Insertion{Begin: 0, End: 1}}, b.log.Entries())
	assert.Equal(t, 1, b.log.Boundaries())
}

func TestMarkBoundaryEmptyLog(t *testing.T) {
	s := NewSession()
	b := newFakeBuffer("main")
	b.point = 4

	require.NoError(t, s.MarkBoundary(b))

	assert.Equal(t, 0, b.log.Len())
	last, pos, ok := s.LastBoundary()
	require.True(t, ok)
	assert.Equal(t, b, last)
	assert.Equal(t, Position(4), pos)
}

func TestMarkBoundaryLinksReservedNode(t *testing.T) {
	s := NewSession()
	b := newFakeBuffer("main")

	require.NoError(t, s.RecordInsertion(b, 0, 1))
	require.True(t, s.HasPendingBoundary())
	reserved := s.pending

	require.NoError(t, s.MarkBoundary(b))

	assert.Same(t, reserved, b.log.head)
	assert.False(t, s.HasPendingBoundary())
}

func TestMarkBoundaryAllocatesWithoutReservation(t *testing.T) {
	s := NewSession()
	b := newFakeBuffer("main")
	b.log = buildLog(Insertion{Begin: 0, End: 2})

	require.NoError(t, s.MarkBoundary(b))

	assert.Equal(t, []Entry{Boundary{}, Insertion{Begin: 0, End: 2}}, b.log.Entries())
}

func TestPendingBoundaryIsShared(t *testing.T) {
	s := NewSession()
	a := newFakeBuffer("a")
	b := newFakeBuffer("b")

	require.NoError(t, s.RecordInsertion(a, 0, 1))
	reserved := s.pending
	require.NoError(t, s.RecordInsertion(b, 0, 1))
	assert.Same(t, reserved, s.pending, "one pending boundary per session")

	require.NoError(t, s.MarkBoundary(a))
	assert.False(t, s.HasPendingBoundary())

	// b still needs a boundary and gets a fresh node.
	require.NoError(t, s.MarkBoundary(b))
	assert.Equal(t, 1, a.log.Boundaries())
	assert.Equal(t, 1, b.log.Boundaries())
	assert.NotSame(t, a.log.head, b.log.head)
}

func TestMarkBoundaryNeverExhausted(t *testing.T) {
	heapFull := errors.New("heap over limit")
	refuse := false
	s := NewSession(WithMemoryCheck(func() error {
		if refuse {
			return heapFull
		}
		return nil
	}))
	a := newFakeBuffer("a")
	b := newFakeBuffer("b")

	// One command edits two buffers; only one boundary was reserved.
	require.NoError(t, s.RecordInsertion(a, 0, 1))
	require.NoError(t, s.RecordInsertion(b, 0, 1))
	refuse = true

	require.NoError(t, s.MarkBoundary(a))
	require.NoError(t, s.MarkBoundary(b))

	assert.Equal(t, []Entry{Boundary{}, Insertion{Begin: 0, End: 1}}, a.log.Entries())
	assert.Equal(t, []Entry{Boundary{}, Insertion{Begin: 0, End: 1}}, b.log.Entries())

	// The next command is refused when it reserves.
	err := s.RecordInsertion(a, 1, 1)
	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.ErrorIs(t, err, heapFull)
}

func TestRecordFirstChangeReserves(t *testing.T) {
	heapFull := errors.New("heap over limit")
	refuse := true
	s := NewSession(WithMemoryCheck(func() error {
		if refuse {
			return heapFull
		}
		return nil
	}))
	b := newFakeBuffer("main")
	b.modified = false

	err := s.RecordFirstChange(b)
	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.Equal(t, 0, b.log.Len())
	assert.False(t, s.HasPendingBoundary())

	refuse = false
	require.NoError(t, s.RecordFirstChange(b))
	require.True(t, s.HasPendingBoundary())

	refuse = true
	require.NoError(t, s.MarkBoundary(b))
	assert.Equal(t, []Entry{Boundary{}, FirstChange{}}, b.log.Entries())
}
