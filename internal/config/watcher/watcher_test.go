package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects delivered events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func newWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()
	w, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.op.String())
	}
}

func TestWatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	w := newWatcher(t)

	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.lua")
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))
	assert.ElementsMatch(t, []string{a, b}, w.WatchedFiles())
	assert.Equal(t, 2, w.dirs[dir])

	require.NoError(t, w.Unwatch(a))
	assert.Equal(t, []string{b}, w.WatchedFiles())
	require.NoError(t, w.Unwatch(b))
	assert.Empty(t, w.dirs)
}

func TestWatchMissingDirectory(t *testing.T) {
	w := newWatcher(t)
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "nope", "a.toml")))
}

func TestWatchAfterClose(t *testing.T) {
	w := newWatcher(t)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Watch(filepath.Join(t.TempDir(), "a.toml")), ErrWatcherClosed)
}

func TestDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.toml")
	w := newWatcher(t, WithDebounce(30*time.Millisecond))
	require.NoError(t, w.Watch(path))

	rec := &recorder{}
	w.OnChange(rec.handle)

	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: filepath.Join(dir, "other.toml"), Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Chmod})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, path, events[0].Path)
	assert.Equal(t, OpCreate, events[0].Op)
}

func TestDebounceRemoveWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.toml")
	w := newWatcher(t, WithDebounce(20*time.Millisecond))
	require.NoError(t, w.Watch(path))

	rec := &recorder{}
	w.OnChange(rec.handle)

	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Remove})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Create})

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, OpRemove, rec.snapshot()[0].Op)
}

func TestNoDebounceDeliversEach(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.toml")
	w := newWatcher(t, WithDebounce(0))
	require.NoError(t, w.Watch(path))

	rec := &recorder{}
	w.OnChange(rec.handle)
	w.OnChange(func(Event) { panic("bad handler") })

	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	assert.Len(t, rec.snapshot(), 2)
}

func TestWatchesRealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "undolog.toml")
	w := newWatcher(t, WithDebounce(10*time.Millisecond))
	require.NoError(t, w.Watch(path))

	rec := &recorder{}
	w.OnChange(rec.handle)

	require.NoError(t, os.WriteFile(path, []byte("[undo]\n"), 0o644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, rec.snapshot()[0].Path)
}
