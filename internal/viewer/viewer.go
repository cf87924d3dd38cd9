// Package viewer steps through an edit script in the terminal, showing each
// buffer's text and undo journal after every step.
package viewer

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/undolog/internal/engine"
	"github.com/dshills/undolog/internal/logging"
	"github.com/dshills/undolog/internal/report"
	"github.com/dshills/undolog/internal/script"
)

const helpLine = "n/space step  a all  tab buffer  c collect  q quit"

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Bold(true)
	styleStatus  = tcell.StyleDefault.Reverse(true)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Viewer shows one buffer of an engine at a time while a script is
// replayed step by step. The script must already be set up on the runner.
type Viewer struct {
	screen tcell.Screen
	engine *engine.Engine
	runner *script.Runner
	script *script.Script
	logger *logging.Logger

	next    int
	current int
	err     error
}

// New creates a viewer drawing to screen.
func New(screen tcell.Screen, e *engine.Engine, r *script.Runner, s *script.Script, logger *logging.Logger) *Viewer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Viewer{
		screen: screen,
		engine: e,
		runner: r,
		script: s,
		logger: logger.WithComponent("viewer"),
	}
}

// Done reports whether every step has run or a step failed.
func (v *Viewer) Done() bool {
	return v.err != nil || v.next >= len(v.script.Steps)
}

// Err returns the error of the step that failed, if any.
func (v *Viewer) Err() error {
	return v.err
}

// Position returns the index of the next step to run.
func (v *Viewer) Position() int {
	return v.next
}

// Step runs the next step. It returns false when nothing ran.
func (v *Viewer) Step() bool {
	if v.Done() {
		return false
	}
	if err := v.runner.Apply(v.script, v.next); err != nil {
		v.err = err
		v.logger.Warn("step failed", "index", v.next, "error", err)
		return false
	}
	v.next++
	return true
}

// All runs the remaining steps.
func (v *Viewer) All() {
	for v.Step() {
	}
}

// Collect truncates every log now.
func (v *Viewer) Collect() {
	if err := v.engine.Collect(); err != nil {
		v.err = err
	}
}

// NextBuffer switches to the following buffer, wrapping around.
func (v *Viewer) NextBuffer() {
	n := len(v.engine.Buffers())
	if n == 0 {
		return
	}
	v.current = (v.current + 1) % n
}

// Buffer returns the name of the buffer on display.
func (v *Viewer) Buffer() string {
	bufs := v.engine.Buffers()
	if len(bufs) == 0 {
		return ""
	}
	return bufs[v.current%len(bufs)].Name()
}

// Lines returns the text of the main area: a progress line followed by
// the report of the buffer on display.
func (v *Viewer) Lines() []string {
	lines := []string{v.progress()}
	r, err := report.Build(v.engine, v.script.Name)
	if err != nil {
		return append(lines, err.Error())
	}
	if len(r.Buffers) == 0 {
		return append(lines, "no buffers")
	}
	return append(lines, r.Buffers[v.current%len(r.Buffers)].Lines()...)
}

func (v *Viewer) progress() string {
	total := len(v.script.Steps)
	if v.next >= total {
		return fmt.Sprintf("%s  step %d/%d  done", v.script.Name, v.next, total)
	}
	return fmt.Sprintf("%s  step %d/%d  next: %s", v.script.Name, v.next, total, v.script.Steps[v.next])
}

// Draw renders the current state.
func (v *Viewer) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()

	for y, line := range v.Lines() {
		if y >= height-1 {
			break
		}
		style := styleDefault
		if y <= 1 {
			style = styleHeader
		}
		drawString(v.screen, 0, y, width, line, style)
	}

	if height > 0 {
		status, style := helpLine, styleStatus
		if v.err != nil {
			status, style = v.err.Error(), styleError
		}
		drawString(v.screen, 0, height-1, width, status, style)
	}
	v.screen.Show()
}

// HandleEvent applies ev and reports whether the viewer should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRight, tcell.KeyEnter:
			v.Step()
		case tcell.KeyTab:
			v.NextBuffer()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case 'n', ' ':
				v.Step()
			case 'a':
				v.All()
			case 'c':
				v.Collect()
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventInterrupt:
		return true
	}
	return false
}

// Run draws and handles events until the user quits or ctx is done. The
// screen must be initialized.
func (v *Viewer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		v.Draw()
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if v.HandleEvent(ev) {
			return nil
		}
	}
}

// drawString writes s at (x, y) one grapheme cluster at a time, clipped to
// width columns.
func drawString(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		runes := gr.Runes()
		w := gr.Width()
		if w == 0 {
			continue
		}
		if x+w > width {
			return
		}
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
}
