package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/undolog/internal/viewer"
)

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view SCRIPT",
		Short: "Step through an edit script in the terminal",
		Long: `Step through an edit script in a full-screen view of one buffer and its
undo journal at a time.

Keys:
  n, space, right  run the next step
  a                run every remaining step
  tab              show the next buffer
  c                collect (truncate every log) now
  q, esc           quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			screen, err := tcell.NewScreen()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open terminal", err)
			}
			return runView(ctx, rootOpts, cmd, screen, args[0])
		},
	}
}

// runView drives screen until the user quits. Logs are discarded while the
// screen is up.
func runView(ctx context.Context, opts *RootOptions, cmd *cobra.Command, screen tcell.Screen, path string) error {
	appOpts := opts.appOptions(cmd)
	appOpts.LogOutput = io.Discard

	s, err := openSession(appOpts, path, nil)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.runner.Setup(s.script); err != nil {
		return WrapExitError(ExitCommandError, "failed to set up script", err)
	}

	if err := screen.Init(); err != nil {
		return WrapExitError(ExitCommandError, "failed to init terminal", err)
	}
	v := viewer.New(screen, s.app.Engine(), s.runner, s.script, s.app.Logger())
	err = v.Run(ctx)
	screen.Fini()
	if err != nil {
		return WrapExitError(ExitCommandError, "viewer failed", err)
	}

	if v.Err() != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "stopped at %v\n", v.Err())
		return WrapExitError(ExitFailure, "replay failed", v.Err())
	}
	return nil
}
