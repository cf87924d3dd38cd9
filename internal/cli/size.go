package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SizeOptions holds flags for the size command.
type SizeOptions struct {
	*RootOptions
	Buffer     string
	Boundaries int
}

// SizeResult is the undo size of one buffer.
type SizeResult struct {
	Buffer     string `json:"buffer"`
	Boundaries int    `json:"boundaries"`
	Size       int    `json:"size"`
	Recording  bool   `json:"recording"`
}

// NewSizeCommand creates the size command.
func NewSizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "size SCRIPT",
		Short: "Replay an edit script and print undo sizes",
		Long: `Replay an edit script and print the cost of each buffer's undo log
through the given number of boundaries, or of the whole log when
--boundaries is 0. Indirect buffers are skipped; their edits are in their
base buffer's log.

Examples:
  undolog size edits.yaml
  undolog size edits.yaml --buffer main --boundaries 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSize(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Buffer, "buffer", "b", "", "report this buffer only")
	cmd.Flags().IntVarP(&opts.Boundaries, "boundaries", "k", 0, "count through this many boundaries (0 for all)")

	return cmd
}

func runSize(opts *SizeOptions, cmd *cobra.Command, path string) error {
	if opts.Boundaries < 0 {
		return NewExitError(ExitCommandError, "--boundaries must not be negative")
	}

	s, err := openSession(opts.appOptions(cmd), path, opts.verboseWriter(cmd))
	if err != nil {
		return err
	}
	defer s.close()

	runErr := s.run(cmd.Context())

	e := s.app.Engine()
	var results []SizeResult
	for _, b := range e.Buffers() {
		if b.IsIndirect() || (opts.Buffer != "" && b.Name() != opts.Buffer) {
			continue
		}
		size, ok, err := e.UndoSize(b.Name(), opts.Boundaries)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to size "+b.Name(), err)
		}
		results = append(results, SizeResult{
			Buffer:     b.Name(),
			Boundaries: opts.Boundaries,
			Size:       size,
			Recording:  ok,
		})
	}
	if opts.Buffer != "" && len(results) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no buffer %q with an undo log", opts.Buffer))
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if results == nil {
			results = []SizeResult{}
		}
		if err := json.NewEncoder(out).Encode(results); err != nil {
			return WrapExitError(ExitCommandError, "failed to write sizes", err)
		}
		return runErr
	}
	for _, r := range results {
		if !r.Recording {
			fmt.Fprintf(out, "%s\trecording off\n", r.Buffer)
			continue
		}
		fmt.Fprintf(out, "%s\t%d\n", r.Buffer, r.Size)
	}
	return runErr
}
