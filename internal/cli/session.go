package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dshills/undolog/internal/app"
	"github.com/dshills/undolog/internal/report"
	"github.com/dshills/undolog/internal/script"
)

// session is one application replaying one script.
type session struct {
	app    *app.Application
	script *script.Script
	runner *script.Runner
}

// openSession loads the script at path and starts an application for it.
// The caller must close the session.
func openSession(opts app.Options, path string, verbose io.Writer) (*session, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load script", err)
	}

	a, err := app.New(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to start", err)
	}

	runnerOpts := []script.RunnerOption{script.WithLogger(a.Logger())}
	if verbose != nil {
		runnerOpts = append(runnerOpts, script.WithObserver(func(i int, step script.Step) {
			fmt.Fprintf(verbose, "step %d: %s\n", i, step)
		}))
	}

	return &session{
		app:    a,
		script: s,
		runner: script.NewRunner(a.Engine(), runnerOpts...),
	}, nil
}

// run replays the whole script. A failing step yields ExitFailure, any
// other failure ExitCommandError.
func (s *session) run(ctx context.Context) error {
	_, err := s.runner.Run(ctx, s.script)
	if err == nil {
		return nil
	}
	var stepErr *script.StepError
	if errors.As(err, &stepErr) {
		return WrapExitError(ExitFailure, "replay failed", err)
	}
	return WrapExitError(ExitCommandError, "replay failed", err)
}

func (s *session) report() (*report.Report, error) {
	r, err := report.Build(s.app.Engine(), s.script.Name)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to build report", err)
	}
	return r, nil
}

// writeFirstChanges lists how often each buffer went from unchanged to
// changed during the replay.
func (s *session) writeFirstChanges(w io.Writer) {
	counts := s.app.Counter().Counts()
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "first change %s: %d\n", name, counts[name])
	}
}

func (s *session) close() {
	s.app.Shutdown()
}

// verboseWriter returns the diagnostic writer when --verbose is set.
func (o *RootOptions) verboseWriter(cmd *cobra.Command) io.Writer {
	if !o.Verbose {
		return nil
	}
	return cmd.ErrOrStderr()
}

// replayScript replays path and reports the final state. The report is
// returned even when a step fails.
func (o *RootOptions) replayScript(ctx context.Context, cmd *cobra.Command, path string) (*report.Report, error) {
	s, err := openSession(o.appOptions(cmd), path, o.verboseWriter(cmd))
	if err != nil {
		return nil, err
	}
	defer s.close()

	runErr := s.run(ctx)
	r, err := s.report()
	if err != nil {
		return nil, err
	}
	if w := o.verboseWriter(cmd); w != nil {
		s.writeFirstChanges(w)
	}
	return r, runErr
}

func (o *RootOptions) writeReport(w io.Writer, r *report.Report) error {
	if o.Format == "json" {
		return r.WriteJSON(w)
	}
	return r.WriteText(w)
}
