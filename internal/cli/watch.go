package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/undolog/internal/config/watcher"
	"github.com/dshills/undolog/internal/logging"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch SCRIPT",
		Short: "Replay an edit script every time it or the config changes",
		Long: `Replay an edit script, print the report, and replay it again from a
fresh engine whenever the script or the --config file is written. Runs
until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts, cmd, args[0])
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 200*time.Millisecond, "wait this long after a change before replaying")

	return cmd
}

func runWatch(ctx context.Context, opts *WatchOptions, cmd *cobra.Command, path string) error {
	w, err := watcher.New(
		watcher.WithDebounce(opts.Debounce),
		watcher.WithLogger(logging.Nop()),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start watcher", err)
	}
	defer w.Close()

	paths := []string{path}
	if opts.ConfigPath != "" {
		paths = append(paths, opts.ConfigPath)
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			return WrapExitError(ExitCommandError, "failed to watch "+p, err)
		}
	}

	changes := make(chan watcher.Event, 1)
	w.OnChange(func(ev watcher.Event) {
		select {
		case changes <- ev:
		default:
		}
	})

	replayAndPrint(ctx, opts.RootOptions, cmd, path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-changes:
			if ev.Op == watcher.OpRemove {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s removed, waiting\n", ev.Path)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "--- %s %s\n", ev.Path, ev.Op)
			replayAndPrint(ctx, opts.RootOptions, cmd, path)
		}
	}
}

// replayAndPrint replays once. Failures are reported and watching goes on.
func replayAndPrint(ctx context.Context, opts *RootOptions, cmd *cobra.Command, path string) {
	r, err := opts.replayScript(ctx, cmd, path)
	if r != nil {
		if werr := opts.writeReport(cmd.OutOrStdout(), r); werr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", werr)
		}
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
}
