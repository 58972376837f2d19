package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/notegraph/internal/store"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	*RootOptions
}

// noteView bundles a note with its checklist and inbound links for
// the show command's JSON output.
type noteView struct {
	Note      *store.Note      `json:"note"`
	Tasks     []store.Task     `json:"tasks"`
	Backlinks []store.Backlink `json:"backlinks"`
}

// NewShowCommand creates the show command.
func NewShowCommand(root *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: root}

	return &cobra.Command{
		Use:   "show <note-id>",
		Short: "Show a note with its tasks and backlinks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			note, err := svc.Store().GetNote(ctx, args[0])
			if err != nil {
				return err
			}
			if note == nil {
				return fmt.Errorf("note %q not found", args[0])
			}

			tasks, err := svc.Store().TasksForNote(ctx, note.ID)
			if err != nil {
				return err
			}
			backlinks, err := svc.Store().Backlinks(ctx, note.ID)
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), noteView{Note: note, Tasks: tasks, Backlinks: backlinks})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", star(note.Favorite), note.Title)
			fmt.Fprintf(out, "id: %s  updated: %s\n", note.ID, formatStamp(note.UpdatedAt))
			if note.Content != "" {
				fmt.Fprintf(out, "\n%s\n", note.Content)
			}
			if len(tasks) > 0 {
				fmt.Fprintln(out, "\ntasks:")
				for _, t := range tasks {
					fmt.Fprintf(out, "  %s %s\n", checkbox(t.Checked), t.Content)
				}
			}
			if len(backlinks) > 0 {
				fmt.Fprintln(out, "\nbacklinks:")
				for _, b := range backlinks {
					fmt.Fprintf(out, "  %s (%s, %s)\n", b.FromTitle, b.FromID, b.Source)
				}
			}
			return nil
		},
	}
}
