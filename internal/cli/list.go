package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListOptions configures the list command.
type ListOptions struct {
	*RootOptions
}

// NewListCommand creates the list command.
func NewListCommand(root *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: root}

	return &cobra.Command{
		Use:   "list",
		Short: "List all notes, favorites first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()

			summaries, err := svc.Store().ListNotes(cmd.Context())
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), summaries)
			}
			for _, n := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s  (%s)\n",
					star(n.Favorite), n.ID, n.Title, formatStamp(n.UpdatedAt))
			}
			return nil
		},
	}
}
