package viewer

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/undolog/internal/engine"
	"github.com/dshills/undolog/internal/script"
)

const demoScript = `
name: demo
buffers:
  - name: main
    text: abc
  - name: mirror
    base: main
steps:
  - {op: insert, at: 3, text: xy}
  - {op: end}
  - {op: delete, from: 0, to: 9}
`

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(60, 10)
	t.Cleanup(s.Fini)
	return s
}

func newViewer(t *testing.T, screen tcell.Screen) *Viewer {
	t.Helper()
	s, err := script.Parse(strings.NewReader(demoScript))
	require.NoError(t, err)

	e := engine.New()
	r := script.NewRunner(e)
	require.NoError(t, r.Setup(s))
	return New(screen, e, r, s, nil)
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteString(string(c.Runes))
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestStep(t *testing.T) {
	v := newViewer(t, newScreen(t))
	assert.False(t, v.Done())

	assert.True(t, v.Step())
	assert.Equal(t, 1, v.Position())
	assert.True(t, v.Step())

	assert.False(t, v.Step())
	assert.True(t, v.Done())
	assert.Equal(t, 2, v.Position())
	require.Error(t, v.Err())
	assert.ErrorIs(t, v.Err(), engine.ErrRangeInvalid)

	var stepErr *script.StepError
	require.ErrorAs(t, v.Err(), &stepErr)
	assert.Equal(t, 2, stepErr.Index)

	assert.False(t, v.Step())
}

func TestAll(t *testing.T) {
	v := newViewer(t, newScreen(t))
	v.All()
	assert.True(t, v.Done())
	assert.Equal(t, 2, v.Position())
	assert.Error(t, v.Err())
}

func TestLines(t *testing.T) {
	v := newViewer(t, newScreen(t))

	lines := v.Lines()
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, `demo  step 0/3  next: insert "xy" at 3`, lines[0])
	assert.Equal(t, "buffer main  point 0  size 0  boundaries 0  entries 0", lines[1])

	require.True(t, v.Step())
	lines = v.Lines()
	assert.Equal(t, "demo  step 1/3  next: end", lines[0])
	assert.Equal(t, "buffer main  point 0  size 32  boundaries 0  entries 2", lines[1])
	assert.Equal(t, `  text "abcxy"`, lines[2])

	v.NextBuffer()
	lines = v.Lines()
	assert.Equal(t, "buffer mirror (indirect, base main)  point 0", lines[1])
}

func TestNextBuffer(t *testing.T) {
	v := newViewer(t, newScreen(t))
	assert.Equal(t, "main", v.Buffer())
	v.NextBuffer()
	assert.Equal(t, "mirror", v.Buffer())
	v.NextBuffer()
	assert.Equal(t, "main", v.Buffer())
}

func TestHandleEvent(t *testing.T) {
	v := newViewer(t, newScreen(t))

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone)))
	assert.Equal(t, 1, v.Position())

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, 2, v.Position())

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	assert.Equal(t, "mirror", v.Buffer())

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone)))
	assert.NoError(t, v.Err())

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	assert.True(t, v.Done())

	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, v.HandleEvent(tcell.NewEventInterrupt(nil)))
}

func TestDraw(t *testing.T) {
	screen := newScreen(t)
	v := newViewer(t, screen)
	require.True(t, v.Step())

	v.Draw()
	assert.Equal(t, "demo  step 1/3  next: end", rowText(screen, 0))
	assert.Equal(t, "buffer main  point 0  size 32  boundaries 0  entries 2", rowText(screen, 1))
	assert.Equal(t, helpLine, rowText(screen, 9))

	v.All()
	v.Draw()
	assert.True(t, strings.HasPrefix(rowText(screen, 9), "step 2 (delete [0,9))"))
}

func TestDrawStringClips(t *testing.T) {
	screen := newScreen(t)
	drawString(screen, 0, 0, 5, "héllo wörld", tcell.StyleDefault)
	screen.Show()
	assert.Equal(t, "héllo", rowText(screen, 0))

	drawString(screen, 2, 1, 6, "abcdef", tcell.StyleDefault)
	screen.Show()
	assert.Equal(t, "  abcd", rowText(screen, 1))
}

func TestRunQuits(t *testing.T) {
	screen := newScreen(t)
	v := newViewer(t, screen)

	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	require.NoError(t, v.Run(context.Background()))
	assert.Equal(t, 1, v.Position())
}

func TestRunStopsOnCancel(t *testing.T) {
	v := newViewer(t, newScreen(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, v.Run(ctx))
	assert.Equal(t, 0, v.Position())
}
