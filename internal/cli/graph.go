package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGraphCommand creates the graph command.
func NewGraphCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Dump every link edge in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(root)
			if err != nil {
				return err
			}
			defer cleanup()

			links, err := svc.Store().AllLinks(cmd.Context())
			if err != nil {
				return err
			}

			if root.JSON {
				return printJSON(cmd.OutOrStdout(), links)
			}
			for _, l := range links {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s  (%s)\n", l.FromID, l.ToID, l.Source)
			}
			return nil
		},
	}
}
