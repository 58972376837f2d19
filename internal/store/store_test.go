package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore opens a store on a throwaway database file.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "notegraph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "notegraph.db")

	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	require.NoError(t, err, "database file should exist")
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "notegraph.db")

	s, err := Open(dbPath)
	require.NoError(t, err)
	_, err = s.UpsertNote(context.Background(), NoteInput{ID: "a", Title: "A", Content: "<p></p>"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening runs schema + migrations again against existing tables.
	s2, err := Open(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	note, err := s2.GetNote(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "A", note.Title)
}

func TestOpenMemory(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	notes, err := s.ListNotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

// TestMigration_AddsFavoriteColumn opens a database created before the
// favorite column existed and verifies Open upgrades it in place.
func TestMigration_AddsFavoriteColumn(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = legacy.Exec(`
		CREATE TABLE notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
		INSERT INTO notes (id, title, content, updated_at) VALUES ('old', 'Old Note', '<p></p>', 1000);
	`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	note, err := s.GetNote(context.Background(), "old")
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.False(t, note.Favorite, "migrated rows default to not-favorite")

	toggled, err := s.ToggleFavorite(context.Background(), "old")
	require.NoError(t, err)
	require.NotNil(t, toggled)
	assert.True(t, toggled.Favorite)
}
