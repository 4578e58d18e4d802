package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/toolbench/internal/envs"
)

// NewToolsCommand creates the tools command: prints the function-calling
// descriptors of one environment, the same surface an agent harness sees.
func NewToolsCommand(rootOpts *RootOptions) *cobra.Command {
	var envName string

	cmd := &cobra.Command{
		Use:           "tools --env <name>",
		Short:         "Print the tool descriptors of an environment",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			env, err := envs.Load(rootOpts.Root, envName, newLogger(rootOpts))
			if err != nil {
				_ = formatter.Error(err.Error(), nil)
				return WrapExitError(ExitCommandError, "load environment", err)
			}

			descriptors := env.Tools.Descriptors()
			if formatter.Format == "json" {
				return formatter.Success(map[string]any{
					"environment": env.Name,
					"tools":       descriptors,
				})
			}

			for _, d := range descriptors {
				data, err := json.MarshalIndent(d, "", "  ")
				if err != nil {
					return WrapExitError(ExitCommandError, "marshal descriptor", err)
				}
				fmt.Fprintln(formatter.Writer, string(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envName, "env", "", "environment name (required)")
	_ = cmd.MarkFlagRequired("env")
	return cmd
}
