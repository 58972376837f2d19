package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ListNotes returns summaries of every note, favorites first, then most
// recently updated. No pagination; the corpus is local and single-user.
func (s *Store) ListNotes(ctx context.Context) ([]NoteSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, updated_at, favorite
		FROM notes
		ORDER BY favorite DESC, updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []NoteSummary
	for rows.Next() {
		var n NoteSummary
		var favorite int
		if err := rows.Scan(&n.ID, &n.Title, &n.UpdatedAt, &favorite); err != nil {
			return nil, fmt.Errorf("scanning note summary: %w", err)
		}
		n.Favorite = favorite != 0
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// GetNote retrieves a note by id. Returns (nil, nil) when the note does not
// exist; absence is routine, not an error.
func (s *Store) GetNote(ctx context.Context, id string) (*Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getNote(ctx, id)
}

func (s *Store) getNote(ctx context.Context, id string) (*Note, error) {
	var n Note
	var favorite int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, favorite, updated_at
		FROM notes WHERE id = ?
	`, id).Scan(&n.ID, &n.Title, &n.Content, &favorite, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", id, err)
	}
	n.Favorite = favorite != 0
	return &n, nil
}

// UpsertNote inserts or updates a note keyed on id. updated_at is stamped
// server-side regardless of any caller-supplied value. When in.Favorite is
// nil an existing row keeps its flag; otherwise the flag is overwritten.
// Returns the row as persisted.
func (s *Store) UpsertNote(ctx context.Context, in NoteInput) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowMillis()

	var err error
	if in.Favorite == nil {
		// favorite deliberately absent from the UPDATE set
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO notes (id, title, content, favorite, updated_at)
			VALUES (?, ?, ?, 0, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				content = excluded.content,
				updated_at = excluded.updated_at
		`, in.ID, in.Title, in.Content, now)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO notes (id, title, content, favorite, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				content = excluded.content,
				favorite = excluded.favorite,
				updated_at = excluded.updated_at
		`, in.ID, in.Title, in.Content, boolToInt(*in.Favorite), now)
	}
	if err != nil {
		return nil, fmt.Errorf("upserting note %s: %w", in.ID, err)
	}

	return s.getNote(ctx, in.ID)
}

// ToggleFavorite flips the favorite flag in place and stamps updated_at.
// Returns the updated row, or (nil, nil) when the id does not exist.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET favorite = 1 - favorite, updated_at = ? WHERE id = ?
	`, nowMillis(), id)
	if err != nil {
		return nil, fmt.Errorf("toggling favorite on %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("toggling favorite on %s: %w", id, err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.getNote(ctx, id)
}

// DeleteNote removes a note. Its tasks cascade; its links are left in place
// and filtered out of backlink queries instead.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	return nil
}
