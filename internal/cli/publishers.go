package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PublishersResult is the JSON payload of the publishers command.
type PublishersResult struct {
	Publishers []string `json:"publishers"`
}

// NewPublishersCommand creates the publishers command.
func NewPublishersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "publishers",
		Short: "List registered publishers",
		Long: `List the publisher names scenarios can refer to.

Names are printed in sorted order, one per line.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			names := rootOpts.registry().Names()
			if formatter.Format == "json" {
				return formatter.Success(PublishersResult{Publishers: names})
			}
			if len(names) == 0 {
				fmt.Fprintln(formatter.Writer, "No publishers registered.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(formatter.Writer, name)
			}
			return nil
		},
	}
}
