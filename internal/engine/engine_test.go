package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/undolog/internal/engine/buffer"
	"github.com/dshills/undolog/internal/engine/undo"
)

// ============================================================================
// Buffers
// ============================================================================

func newEngineWithBuffer(t *testing.T, text string, opts ...Option) *Engine {
	t.Helper()
	e := New(opts...)
	_, err := e.CreateBuffer("main", buffer.WithText(text))
	require.NoError(t, err)
	return e
}

func TestCreateBuffer(t *testing.T) {
	e := New()

	b, err := e.CreateBuffer("a", buffer.WithText("xyz"))
	require.NoError(t, err)
	assert.Equal(t, "xyz", b.Text())

	_, err = e.CreateBuffer("a")
	assert.ErrorIs(t, err, ErrBufferExists)

	_, err = e.CreateBuffer("b")
	require.NoError(t, err)

	names := []string{}
	for _, b := range e.Buffers() {
		names = append(names, b.Name())
	}
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = e.Buffer("missing")
	assert.ErrorIs(t, err, ErrBufferNotFound)
}

func TestReadOnly(t *testing.T) {
	e := newEngineWithBuffer(t, "abc", WithReadOnly())

	assert.ErrorIs(t, e.Insert("main", 0, "x"), ErrReadOnly)
	_, err := e.Delete("main", 0, 1)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, e.Replace("main", 0, 1, "y"), ErrReadOnly)
	assert.ErrorIs(t, e.PutProperty("main", 0, 1, "face", "bold"), ErrReadOnly)
	assert.NoError(t, e.Goto("main", 2))
}

// ============================================================================
// Recording
// ============================================================================

func TestInsertRecordsAndCoalesces(t *testing.T) {
	e := newEngineWithBuffer(t, "")

	require.NoError(t, e.Insert("main", 0, "Hello"))
	require.NoError(t, e.Insert("main", 5, ", World"))

	b, _ := e.Buffer("main")
	assert.Equal(t, "Hello, World", b.Text())

	entries, err := e.UndoEntries("main")
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		undo.Insertion{Begin: 0, End: 12},
		undo.FirstChange{},
	}, entries)
}

func TestInsertOutOfRange(t *testing.T) {
	e := newEngineWithBuffer(t, "abc")

	err := e.Insert("main", 10, "x")
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)

	entries, _ := e.UndoEntries("main")
	assert.Empty(t, entries, "nothing recorded for a rejected edit")
}

func TestDeleteRecordsMarkers(t *testing.T) {
	e := newEngineWithBuffer(t, "0123456789")
	b, _ := e.Buffer("main")
	b.MarkSaved(time.Time{})
	ref, err := b.NewMarker(5, false)
	require.NoError(t, err)
	require.NoError(t, e.Goto("main", 7))

	removed, err := e.Delete("main", 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "3456", removed)
	assert.Equal(t, "012789", b.Text())

	entries, _ := e.UndoEntries("main")
	assert.Equal(t, []Entry{
		undo.Deletion{Text: "3456", At: 3, PointAtEnd: true},
		undo.MarkerAdjustment{Marker: ref, Delta: -2},
		undo.FirstChange{},
	}, entries)

	pos, ok := b.MarkerPosition(ref)
	require.True(t, ok)
	assert.Equal(t, Position(3), pos)
}

func TestMarkers(t *testing.T) {
	e := newEngineWithBuffer(t, "abcdef")

	ref, err := e.NewMarker("main", 2, true)
	require.NoError(t, err)
	require.NoError(t, e.Insert("main", 2, "XY"))

	pos, err := e.MarkerPosition("main", ref)
	require.NoError(t, err)
	assert.Equal(t, Position(4), pos)

	_, err = e.NewMarker("main", 99, false)
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	_, err = e.NewMarker("nope", 0, false)
	assert.ErrorIs(t, err, ErrBufferNotFound)

	b, _ := e.Buffer("main")
	require.True(t, b.DeleteMarker(ref))
	_, err = e.MarkerPosition("main", ref)
	assert.ErrorIs(t, err, buffer.ErrMarkerNotFound)
}

func TestReplace(t *testing.T) {
	t.Run("same length", func(t *testing.T) {
		e := newEngineWithBuffer(t, "abcdef")
		b, _ := e.Buffer("main")
		_, err := b.Overwrite(0, "a")
		require.NoError(t, err)

		require.NoError(t, e.Replace("main", 2, 4, "XY"))

		assert.Equal(t, "abXYef", b.Text())
		entries, _ := e.UndoEntries("main")
		assert.Equal(t, []Entry{
			undo.Insertion{Begin: 2, End: 4},
			undo.Deletion{Text: "cd", At: 2},
		}, entries)
	})

	t.Run("different length", func(t *testing.T) {
		e := newEngineWithBuffer(t, "abcdef")
		b, _ := e.Buffer("main")
		_, err := b.Overwrite(0, "a")
		require.NoError(t, err)

		require.NoError(t, e.Replace("main", 2, 4, "XYZ"))

		assert.Equal(t, "abXYZef", b.Text())
		entries, _ := e.UndoEntries("main")
		assert.Equal(t, []Entry{
			undo.Insertion{Begin: 2, End: 5},
			undo.Deletion{Text: "cd", At: 2},
		}, entries)
	})

	t.Run("same length on unmodified buffer", func(t *testing.T) {
		e := newEngineWithBuffer(t, "abcdef")

		require.NoError(t, e.Replace("main", 2, 4, "XY"))

		entries, _ := e.UndoEntries("main")
		assert.Equal(t, []Entry{
			undo.Insertion{Begin: 2, End: 4},
			undo.Deletion{Text: "cd", At: 2},
			undo.FirstChange{},
		}, entries)
	})

	t.Run("identical text", func(t *testing.T) {
		e := newEngineWithBuffer(t, "abcdef")
		require.NoError(t, e.Replace("main", 2, 4, "cd"))
		entries, _ := e.UndoEntries("main")
		assert.Empty(t, entries)
	})
}

func TestPutPropertyRecordsChangedRuns(t *testing.T) {
	e := newEngineWithBuffer(t, "abcdef")
	b, _ := e.Buffer("main")
	_, err := b.PutProperty(0, 2, "face", "bold")
	require.NoError(t, err)
	b.UndoLog().Clear()

	require.NoError(t, e.PutProperty("main", 0, 4, "face", "italic"))

	entries, _ := e.UndoEntries("main")
	assert.Equal(t, []Entry{
		undo.PropertyChange{Property: "face", OldValue: nil, Begin: 2, End: 4, Buffer: b},
		undo.PropertyChange{Property: "face", OldValue: "bold", Begin: 0, End: 2, Buffer: b},
	}, entries)
	assert.Equal(t, "italic", b.PropertyAt(3, "face"))
}

func TestPutPropertyRecordsOneFirstChange(t *testing.T) {
	saved := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	e := newEngineWithBuffer(t, "abcdef")
	b, _ := e.Buffer("main")
	_, err := b.PutProperty(0, 2, "face", "bold")
	require.NoError(t, err)
	require.NoError(t, e.Save("main", saved))
	require.False(t, b.Modified())

	require.NoError(t, e.PutProperty("main", 0, 4, "face", "italic"))

	entries, _ := e.UndoEntries("main")
	assert.Equal(t, []Entry{
		undo.PropertyChange{Property: "face", OldValue: nil, Begin: 2, End: 4, Buffer: b},
		undo.PropertyChange{Property: "face", OldValue: "bold", Begin: 0, End: 2, Buffer: b},
		undo.FirstChange{SavedFileTime: saved},
	}, entries)
}

func TestEndCommandGroupsRecords(t *testing.T) {
	e := newEngineWithBuffer(t, "")
	b, _ := e.Buffer("main")

	require.NoError(t, e.Insert("main", 0, "ab"))
	require.NoError(t, e.Goto("main", 0))
	require.NoError(t, e.EndCommand("main"))
	require.NoError(t, e.EndCommand("main"))
	require.NoError(t, e.Insert("main", 2, "c"))
	require.NoError(t, e.EndCommand("main"))

	entries, _ := e.UndoEntries("main")
	assert.Equal(t, []Entry{
		undo.Boundary{},
		undo.Insertion{Begin: 2, End: 3},
		undo.CursorHint{Position: 0},
		undo.Boundary{},
		undo.Insertion{Begin: 0, End: 2},
		undo.FirstChange{},
	}, entries)
	assert.Equal(t, 2, b.UndoLog().Boundaries())
}

func TestSaveRecordsNewFirstChange(t *testing.T) {
	saved := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	e := newEngineWithBuffer(t, "abc")

	require.NoError(t, e.Insert("main", 0, "x"))
	require.NoError(t, e.EndCommand("main"))
	require.NoError(t, e.Save("main", saved))
	require.NoError(t, e.Goto("main", 4))
	require.NoError(t, e.Insert("main", 4, "y"))

	entries, _ := e.UndoEntries("main")
	assert.Equal(t, []Entry{
		undo.Insertion{Begin: 4, End: 5},
		undo.CursorHint{Position: 1},
		undo.FirstChange{SavedFileTime: saved},
		undo.Boundary{},
		undo.Insertion{Begin: 0, End: 1},
		undo.FirstChange{},
	}, entries)
}

func TestIndirectBufferRecordsIntoBase(t *testing.T) {
	e := newEngineWithBuffer(t, "shared")
	view, err := e.CreateIndirect("main", "view")
	require.NoError(t, err)

	require.NoError(t, e.Insert("view", 0, ">"))

	base, _ := e.Buffer("main")
	assert.Same(t, base.UndoLog(), view.UndoLog())
	assert.Equal(t, ">shared", base.Text())
	assert.Equal(t, 2, base.UndoLog().Len())

	_, err = e.CreateIndirect("missing", "other")
	assert.ErrorIs(t, err, ErrBufferNotFound)
}

func TestSetUndoEnabled(t *testing.T) {
	e := newEngineWithBuffer(t, "abc")

	require.NoError(t, e.SetUndoEnabled("main", false))
	require.NoError(t, e.Insert("main", 0, "x"))
	require.NoError(t, e.EndCommand("main"))

	_, ok, err := e.UndoSize("main", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.SetUndoEnabled("main", true))
	require.NoError(t, e.Insert("main", 0, "y"))
	size, ok, err := e.UndoSize("main", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 16, size)
}

func TestFirstUndoableChangeNotifier(t *testing.T) {
	var seen []string
	notifier := undo.NotifierFunc(func(buf undo.Buffer) { seen = append(seen, buf.Name()) })
	e := newEngineWithBuffer(t, "abc", WithSessionOptions(undo.WithNotifier(notifier)))

	require.NoError(t, e.Insert("main", 0, "x"))
	require.NoError(t, e.Insert("main", 1, "y"))
	require.NoError(t, e.ResetUndoablyChanged("main"))
	require.NoError(t, e.Insert("main", 2, "z"))

	assert.Equal(t, []string{"main", "main"}, seen)
}

func TestResourceExhausted(t *testing.T) {
	e := newEngineWithBuffer(t, "abc", WithSessionOptions(undo.WithMemoryCheck(func() error {
		return errors.New("over budget")
	})))

	err := e.Insert("main", 0, "x")
	assert.ErrorIs(t, err, undo.ErrResourceExhausted)

	b, _ := e.Buffer("main")
	assert.Equal(t, "abc", b.Text(), "the edit is not applied when recording fails")
	assert.Equal(t, 0, b.UndoLog().Len())
}

// ============================================================================
// Retention
// ============================================================================

func TestCollect(t *testing.T) {
	e := newEngineWithBuffer(t, "", WithSessionOptions(undo.WithConfig(undo.Config{
		SoftLimit:   40,
		StrongLimit: 60,
	})))
	_, err := e.CreateIndirect("main", "view")
	require.NoError(t, err)

	for i := range 5 {
		require.NoError(t, e.Goto("main", Position(i)))
		require.NoError(t, e.Insert("main", Position(i), "x"))
		require.NoError(t, e.EndCommand("main"))
	}
	size, _, _ := e.UndoSize("main", 0)
	require.Greater(t, size, 60)

	require.NoError(t, e.Collect())

	size, _, err = e.UndoSize("main", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, size, 60)
	entries, _ := e.UndoEntries("main")
	assert.Equal(t, undo.Boundary{}, entries[0])
	assert.Equal(t, undo.Insertion{Begin: 4, End: 5}, entries[1])
}

func TestAutoCollect(t *testing.T) {
	e := newEngineWithBuffer(t, "", WithAutoCollect(true), WithSessionOptions(undo.WithConfig(undo.Config{
		SoftLimit:   0,
		StrongLimit: 0,
	})))

	for i := range 3 {
		require.NoError(t, e.Goto("main", Position(i)))
		require.NoError(t, e.Insert("main", Position(i), "x"))
		require.NoError(t, e.EndCommand("main"))
	}

	entries, _ := e.UndoEntries("main")
	assert.Equal(t, []Entry{undo.Boundary{}, undo.Insertion{Begin: 2, End: 3}}, entries)
}

func TestSetAutoCollect(t *testing.T) {
	e := newEngineWithBuffer(t, "", WithAutoCollect(true), WithSessionOptions(undo.WithConfig(undo.Config{})))
	e.SetAutoCollect(false)

	for i := range 3 {
		require.NoError(t, e.Insert("main", Position(i), "x"))
		require.NoError(t, e.EndCommand("main"))
	}

	b, _ := e.Buffer("main")
	assert.Equal(t, 3, b.UndoLog().Boundaries())
}

func TestCollectInhibited(t *testing.T) {
	e := newEngineWithBuffer(t, "", WithSessionOptions(undo.WithConfig(undo.Config{})))
	for i := range 3 {
		require.NoError(t, e.Goto("main", Position(i)))
		require.NoError(t, e.Insert("main", Position(i), "x"))
		require.NoError(t, e.EndCommand("main"))
	}

	release := e.Session().InhibitCollection()
	require.NoError(t, e.Collect())
	entries, _ := e.UndoEntries("main")
	assert.Len(t, entries, 7)

	release()
	require.NoError(t, e.Collect())
	entries, _ = e.UndoEntries("main")
	assert.Len(t, entries, 2)
}

func TestApplyUndoConfig(t *testing.T) {
	e := New()
	cfg := e.UndoConfig()
	assert.Equal(t, undo.DefaultSoftLimit, cfg.SoftLimit)

	cfg.SoftLimit = 10
	e.ApplyUndoConfig(cfg)
	assert.Equal(t, 10, e.UndoConfig().SoftLimit)
}
