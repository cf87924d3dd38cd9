package cli

import (
	"github.com/spf13/cobra"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Replay an edit script and print every undo journal",
		Long: `Replay an edit script and print, for each buffer, its text and its undo
journal newest first with the cost of every record.

Exit codes:
  0 - Every step ran
  1 - A step failed; the report shows the state before it
  2 - Command error (unreadable script or configuration)

Examples:
  undolog replay edits.yaml
  undolog replay edits.yaml --format json
  undolog replay edits.yaml -c undolog.toml --lua overflow.lua`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rootOpts.replayScript(cmd.Context(), cmd, args[0])
			if r != nil {
				if werr := rootOpts.writeReport(cmd.OutOrStdout(), r); werr != nil {
					return WrapExitError(ExitCommandError, "failed to write report", werr)
				}
			}
			return err
		},
	}
}
