// Package cli implements the notegraph command line interface. Every
// inbound operation of the persistence core is reachable from a
// subcommand, with text or JSON output.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kittclouds/notegraph/internal/config"
	"github.com/kittclouds/notegraph/internal/store"
	"github.com/kittclouds/notegraph/pkg/notes"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string // overrides the configured path when set
	JSON       bool
}

// NewRootCommand creates the notegraph root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "notegraph",
		Short:         "Local note, link and task store",
		Long:          "notegraph persists notes, the wikilink graph between them, and per-note checklists in a local SQLite database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "config file path")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "emit JSON instead of text")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewFavoriteCommand(opts))
	cmd.AddCommand(NewTasksCommand(opts))
	cmd.AddCommand(NewLinksCommand(opts))
	cmd.AddCommand(NewGraphCommand(opts))

	return cmd
}

// openService loads config, sets up logging, and opens the store. The
// returned cleanup closes the store.
func openService(opts *RootOptions) (*notes.Service, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return notes.New(st), func() { st.Close() }, nil
}
