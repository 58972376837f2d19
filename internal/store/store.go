package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Store is the SQLite-backed data store. It owns the single database handle
// for the process; construct one with Open (or OpenMemory in tests) and
// inject it into consumers. Thread-safe: a RWMutex serializes writers while
// WAL mode lets readers proceed.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	logger *slog.Logger
}

// schema defines all tables and indexes. Applied on every Open; every
// statement is idempotent (create-if-missing only).
//
// note_links has no foreign keys on purpose: a wikilink may point at a note
// that does not exist yet, or that was deleted. Existence is resolved at
// read time (see Backlinks). tasks does cascade with its owning note.
const schema = `
CREATE TABLE IF NOT EXISTS notes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    favorite INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at);
CREATE INDEX IF NOT EXISTS idx_notes_favorite ON notes(favorite);

CREATE TABLE IF NOT EXISTS note_links (
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    source TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (from_id, to_id, source)
);

CREATE INDEX IF NOT EXISTS idx_note_links_to ON note_links(to_id, source);
CREATE INDEX IF NOT EXISTS idx_note_links_from ON note_links(from_id, source);

CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    note_id TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    checked INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_note ON tasks(note_id);
CREATE INDEX IF NOT EXISTS idx_tasks_checked ON tasks(checked);
`

// Open creates or opens the database at path, creating parent directories
// as needed. The schema is applied and pending migrations run before Open
// returns.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	return open(path)
}

// OpenMemory opens an in-memory store. Intended for tests.
func OpenMemory() (*Store, error) {
	return open(":memory:")
}

func open(dsn string) (*Store, error) {
	logger := slog.Default().With("component", "store")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports one writer at a time; a single pooled connection also
	// keeps per-connection pragmas (and :memory: databases) stable.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, logger: logger}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Debug("store opened", "dsn", dsn)
	return s, nil
}

// runMigrations upgrades databases created before a column existed. SQLite
// has no ADD COLUMN IF NOT EXISTS, so each step probes pragma_table_info
// first. Steps run in order and are safe to re-run.
func (s *Store) runMigrations() error {
	migrations := []struct {
		table  string
		column string
		apply  string
	}{
		{
			table:  "notes",
			column: "favorite",
			apply:  `ALTER TABLE notes ADD COLUMN favorite INTEGER NOT NULL DEFAULT 0`,
		},
		{
			table:  "tasks",
			column: "position",
			apply:  `ALTER TABLE tasks ADD COLUMN position INTEGER NOT NULL DEFAULT 0`,
		},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRow(
			`SELECT 1 FROM pragma_table_info(?) WHERE name = ?`, m.table, m.column,
		).Scan(&exists)
		if err == nil {
			continue // column already present
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("probing %s.%s: %w", m.table, m.column, err)
		}
		if _, err := s.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to %s: %w", m.column, m.table, err)
		}
		s.logger.Info("applied migration", "table", m.table, "column", m.column)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nowMillis is the server clock for updated_at stamps.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isConstraintViolation reports whether err is a SQLite constraint failure.
// The replace algorithms use it to attach context before rolling back.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "constraint failed")
}
