package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kittclouds/notegraph/internal/store"
)

// LinksOptions configures the links command group.
type LinksOptions struct {
	*RootOptions

	Apply  bool
	Source string
}

// NewLinksCommand creates the links command group.
func NewLinksCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Inspect and suggest links between notes",
	}
	cmd.AddCommand(newLinksBacklinksCommand(root))
	cmd.AddCommand(newLinksSetCommand(root))
	cmd.AddCommand(newLinksSuggestCommand(root))
	cmd.AddCommand(newLinksRebuildCommand(root))
	return cmd
}

func newLinksSetCommand(root *RootOptions) *cobra.Command {
	opts := &LinksOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "set <from-id> [to-id...]",
		Short: "Replace one source's outgoing links for a note",
		Long: "Replaces the note's outgoing links for the given source with the " +
			"listed targets. No targets clears that source's links. Links asserted " +
			"by other sources are left alone.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := parseSource(opts.Source)
			if err != nil {
				return err
			}

			svc, cleanup, err := openService(opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()

			fromID, toIDs := args[0], args[1:]
			if err := svc.Store().ReplaceLinksFrom(cmd.Context(), fromID, toIDs, source); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set %d %s links from %s\n", len(toIDs), source, fromID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", string(store.SourceUserWikilink), "link source (user_wikilink or ai)")

	return cmd
}

func parseSource(s string) (store.LinkSource, error) {
	switch store.LinkSource(s) {
	case store.SourceUserWikilink, store.SourceAI:
		return store.LinkSource(s), nil
	default:
		return "", fmt.Errorf("unknown link source %q", s)
	}
}

func newLinksBacklinksCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backlinks <note-id>",
		Short: "List notes that link to this note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(root)
			if err != nil {
				return err
			}
			defer cleanup()

			backlinks, err := svc.Store().Backlinks(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if root.JSON {
				return printJSON(cmd.OutOrStdout(), backlinks)
			}
			for _, b := range backlinks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n", b.FromID, b.FromTitle, b.Source)
			}
			return nil
		},
	}
}

func newLinksSuggestCommand(root *RootOptions) *cobra.Command {
	opts := &LinksOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "suggest <note-id>",
		Short: "Suggest link targets mentioned in the note body",
		Long: "Scans the note body for plain-text mentions of other notes' titles " +
			"and prints the matching note ids. With --apply the suggestions are " +
			"persisted as automated links, replacing earlier ones.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()

			var ids []string
			if opts.Apply {
				ids, err = svc.ApplySuggestedLinks(cmd.Context(), args[0])
			} else {
				ids, err = svc.SuggestLinks(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			if opts.JSON {
				return printJSON(cmd.OutOrStdout(), ids)
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "persist suggestions as links")

	return cmd
}

func newLinksRebuildCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the title-matching dictionary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(root)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.RebuildDictionary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %d titles\n", n)
			return nil
		},
	}
}
