package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/toolbench/internal/envs"
)

// NewListEnvsCommand creates the list-envs command.
func NewListEnvsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list-envs",
		Short:         "Enumerate loadable environments",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			names, err := envs.List(rootOpts.Root)
			if err != nil {
				_ = formatter.Error(err.Error(), nil)
				return WrapExitError(ExitCommandError, "list environments", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]any{"environments": names})
			}
			if len(names) == 0 {
				fmt.Fprintln(formatter.Writer, "no environments found")
				return nil
			}
			fmt.Fprintln(formatter.Writer, strings.Join(names, "\n"))
			return nil
		},
	}
}
