package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kittclouds/notegraph/internal/store"
)

// SaveOptions configures the save command.
type SaveOptions struct {
	*RootOptions

	ID          string
	Title       string
	Content     string
	ContentFile string
	Favorite    bool
}

// NewSaveCommand creates the save command.
func NewSaveCommand(root *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a note and sync its wikilink edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := opts.Content
			switch {
			case opts.ContentFile == "-":
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				content = string(data)
			case opts.ContentFile != "":
				data, err := os.ReadFile(opts.ContentFile)
				if err != nil {
					return err
				}
				content = string(data)
			}

			in := store.NoteInput{
				ID:      opts.ID,
				Title:   opts.Title,
				Content: content,
			}
			if in.ID == "" {
				in.ID = uuid.NewString()
			}
			// Only overwrite the favorite flag when the flag was given;
			// an omitted flag preserves the stored value.
			if cmd.Flags().Changed("favorite") {
				in.Favorite = &opts.Favorite
			}

			svc, cleanup, err := openService(opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()

			note, err := svc.Save(cmd.Context(), in)
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), note)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s  %s\n", note.ID, note.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "note id (generated when empty)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "note title")
	cmd.Flags().StringVar(&opts.Content, "content", "", "note content")
	cmd.Flags().StringVar(&opts.ContentFile, "content-file", "", "read content from file, or - for stdin")
	cmd.Flags().BoolVar(&opts.Favorite, "favorite", false, "set the favorite flag")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note and its outgoing links and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(root)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

// NewFavoriteCommand creates the favorite command.
func NewFavoriteCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <note-id>",
		Short: "Toggle a note's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(root)
			if err != nil {
				return err
			}
			defer cleanup()

			note, err := svc.Store().ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if note == nil {
				return fmt.Errorf("note %q not found", args[0])
			}

			if root.JSON {
				return printJSON(cmd.OutOrStdout(), note)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s favorite=%t\n", note.ID, note.Favorite)
			return nil
		},
	}
}
