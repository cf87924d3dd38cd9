package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the configuration in effect",
		Long: `Print the configuration after merging the defaults, the --config file
and UNDOLOG_* environment variables. Text output is YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.newApplication(cmd)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				err = enc.Encode(a.Config())
			} else {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				err = enc.Encode(a.Config())
				if err == nil {
					err = enc.Close()
				}
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to write config", err)
			}
			return nil
		},
	}
}
