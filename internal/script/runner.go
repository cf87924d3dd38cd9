package script

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/undolog/internal/engine"
	"github.com/dshills/undolog/internal/engine/buffer"
	"github.com/dshills/undolog/internal/engine/undo"
	"github.com/dshills/undolog/internal/logging"
)

// StepError reports the step a run stopped at.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Step, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Observer is called after each step that succeeds.
type Observer func(index int, step Step)

// Result summarizes a run.
type Result struct {
	// Applied is the number of steps that ran.
	Applied int
	// Markers maps marker step names to the markers they placed.
	Markers map[string]undo.MarkerRef
}

// Runner replays scripts through an engine.
type Runner struct {
	engine   *engine.Engine
	logger   *logging.Logger
	clock    func() time.Time
	observer Observer
	markers  map[string]undo.MarkerRef
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithClock sets the source of save times.
func WithClock(clock func() time.Time) RunnerOption {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithObserver sets a callback run after every step.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		r.observer = o
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *logging.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner for e.
func NewRunner(e *engine.Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:  e,
		logger:  logging.Nop(),
		clock:   time.Now,
		markers: make(map[string]undo.MarkerRef),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")
	return r
}

// Setup creates the script's buffers and applies its limits.
func (r *Runner) Setup(s *Script) error {
	if s.Undo != nil {
		cfg := r.engine.UndoConfig()
		if s.Undo.SoftLimit != nil {
			cfg.SoftLimit = *s.Undo.SoftLimit
		}
		if s.Undo.StrongLimit != nil {
			cfg.StrongLimit = *s.Undo.StrongLimit
		}
		if s.Undo.OuterLimit != nil {
			cfg.OuterLimit = nil
			if *s.Undo.OuterLimit > 0 {
				cfg.OuterLimit = undo.Limit(*s.Undo.OuterLimit)
			}
		}
		r.engine.ApplyUndoConfig(cfg)
	}

	for _, spec := range s.Buffers {
		var err error
		if spec.Base != "" {
			_, err = r.engine.CreateIndirect(spec.Base, spec.Name)
		} else {
			var opts []buffer.Option
			if spec.Text != "" {
				opts = append(opts, buffer.WithText(spec.Text))
			}
			if spec.NoUndo {
				opts = append(opts, buffer.WithUndoDisabled())
			}
			_, err = r.engine.CreateBuffer(spec.Name, opts...)
		}
		if err != nil {
			return fmt.Errorf("setup %s: %w", spec.Name, err)
		}
	}
	return nil
}

// Run sets the script up and applies every step, stopping at the first
// failure or when ctx is done.
func (r *Runner) Run(ctx context.Context, s *Script) (*Result, error) {
	if err := r.Setup(s); err != nil {
		return nil, err
	}

	res := &Result{}
	defer func() { res.Markers = r.Markers() }()

	for i := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.Apply(s, i); err != nil {
			return res, err
		}
		res.Applied++
	}
	r.logger.Debug("script replayed", "script", s.Name, "steps", res.Applied)
	return res, nil
}

// Apply runs step i of s. The script must have been set up.
func (r *Runner) Apply(s *Script, i int) error {
	step := s.Steps[i]
	if err := r.apply(s, step); err != nil {
		return &StepError{Index: i, Step: step, Err: err}
	}
	if r.observer != nil {
		r.observer(i, step)
	}
	return nil
}

// Markers returns the named markers placed so far.
func (r *Runner) Markers() map[string]undo.MarkerRef {
	out := make(map[string]undo.MarkerRef, len(r.markers))
	for name, ref := range r.markers {
		out[name] = ref
	}
	return out
}

func (r *Runner) apply(s *Script, step Step) error {
	e := r.engine
	name := s.bufferFor(step)

	switch step.Op {
	case OpInsert:
		return e.Insert(name, engine.Position(step.At), step.Text)
	case OpDelete:
		_, err := e.Delete(name, engine.Position(step.From), engine.Position(step.To))
		return err
	case OpReplace:
		return e.Replace(name, engine.Position(step.From), engine.Position(step.To), step.Text)
	case OpProperty:
		return e.PutProperty(name, engine.Position(step.From), engine.Position(step.To), step.Name, step.Value)
	case OpGoto:
		return e.Goto(name, engine.Position(step.At))
	case OpMarker:
		ref, err := e.NewMarker(name, engine.Position(step.At), step.Insertion)
		if err != nil {
			return err
		}
		if step.Name != "" {
			r.markers[step.Name] = ref
		}
		return nil
	case OpSave:
		return e.Save(name, r.clock())
	case OpEnd:
		return e.EndCommand(name)
	case OpCollect:
		return e.Collect()
	case OpEnable:
		return e.SetUndoEnabled(name, true)
	case OpDisable:
		return e.SetUndoEnabled(name, false)
	case OpReset:
		return e.ResetUndoablyChanged(name)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
}
