// Package cli implements the undolog command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dshills/undolog/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Scripts    []string // Lua overflow scripts
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "undolog",
		Short: "Replay edit scripts and inspect their undo journals",
		Long: `undolog replays edit scripts through a text engine that records an
Emacs-style undo journal for every buffer, then reports each journal with
its sizes as the truncator sees them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (TOML or YAML)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringArrayVar(&opts.Scripts, "lua", nil, "Lua overflow script (repeatable)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewSizeCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// appOptions maps the global flags onto application options.
func (o *RootOptions) appOptions(cmd *cobra.Command) app.Options {
	level := o.LogLevel
	if level == "" && o.Verbose {
		level = "debug"
	}
	return app.Options{
		ConfigPath: o.ConfigPath,
		LogLevel:   level,
		LogOutput:  cmd.ErrOrStderr(),
		Scripts:    o.Scripts,
	}
}

func (o *RootOptions) newApplication(cmd *cobra.Command) (*app.Application, error) {
	a, err := app.New(o.appOptions(cmd))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to start", err)
	}
	return a, nil
}
