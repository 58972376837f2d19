package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ReplaceTasksFor atomically replaces the checklist of one note while
// preserving task identity by content equality. Within a single transaction:
//
//  1. existing tasks are read into a content -> id map (when several
//     existing tasks share identical content, the last one wins as the
//     match target; a known limitation of content-keyed matching);
//  2. all task rows for the note are deleted;
//  3. each incoming task is inserted in caller order, reusing the mapped id
//     on an exact content match and minting a fresh uuid otherwise.
//     created_at/updated_at are stamped to the transaction's now for every
//     row, matched or not; only the id survives a replace.
//
// An empty inputs slice clears the checklist. On any failure the
// transaction rolls back and the prior list is left fully intact. Ids of
// unmatched existing tasks are discarded and never reused.
func (s *Store) ReplaceTasksFor(ctx context.Context, noteID string, inputs []TaskInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowMillis()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace tasks for %s: begin: %w", noteID, err)
	}
	defer tx.Rollback()

	existing, err := readTaskIDsByContent(ctx, tx, noteID)
	if err != nil {
		return fmt.Errorf("replace tasks for %s: %w", noteID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("replace tasks for %s: delete: %w", noteID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, note_id, content, checked, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("replace tasks for %s: prepare: %w", noteID, err)
	}
	defer stmt.Close()

	for _, in := range inputs {
		id, ok := existing[in.Content]
		if !ok {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, noteID, in.Content, boolToInt(in.Checked), in.Position, now, now); err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("replace tasks for %s: duplicate task identity %q: %w", noteID, in.Content, err)
			}
			return fmt.Errorf("replace tasks for %s: insert: %w", noteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace tasks for %s: commit: %w", noteID, err)
	}

	s.logger.Debug("replaced tasks", "note", noteID, "count", len(inputs))
	return nil
}

func readTaskIDsByContent(ctx context.Context, tx *sql.Tx, noteID string) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, content FROM tasks WHERE note_id = ?
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("reading existing: %w", err)
	}
	defer rows.Close()

	byContent := make(map[string]string)
	for rows.Next() {
		var id, content string
		if err := rows.Scan(&id, &content); err != nil {
			return nil, fmt.Errorf("reading existing: scan: %w", err)
		}
		byContent[content] = id
	}
	return byContent, rows.Err()
}

// TasksForNote returns a note's checklist ordered by position ascending.
func (s *Store) TasksForNote(ctx context.Context, noteID string) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, note_id, content, checked, position, created_at, updated_at
		FROM tasks
		WHERE note_id = ?
		ORDER BY position ASC
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("tasks for %s: %w", noteID, err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("tasks for %s: %w", noteID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// AllTasks returns every task across all notes, each annotated with its
// owning note's title, most recently updated first. A non-nil checked
// filters to that completion state; nil returns both.
func (s *Store) AllTasks(ctx context.Context, checked *bool) ([]TaskWithNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT t.id, t.note_id, t.content, t.checked, t.position,
		       t.created_at, t.updated_at, n.title
		FROM tasks t
		JOIN notes n ON t.note_id = n.id
	`
	args := []any{}
	if checked != nil {
		query += ` WHERE t.checked = ?`
		args = append(args, boolToInt(*checked))
	}
	query += ` ORDER BY t.updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskWithNote
	for rows.Next() {
		var t TaskWithNote
		var checkedInt int
		if err := rows.Scan(&t.ID, &t.NoteID, &t.Content, &checkedInt, &t.Position,
			&t.CreatedAt, &t.UpdatedAt, &t.NoteTitle); err != nil {
			return nil, fmt.Errorf("listing tasks: scan: %w", err)
		}
		t.Checked = checkedInt != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ToggleTask flips a task's checked state and stamps updated_at. Returns
// the updated row, or (nil, nil) when the id does not exist.
func (s *Store) ToggleTask(ctx context.Context, taskID string) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET checked = 1 - checked, updated_at = ? WHERE id = ?
	`, nowMillis(), taskID)
	if err != nil {
		return nil, fmt.Errorf("toggling task %s: %w", taskID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("toggling task %s: %w", taskID, err)
	}
	if affected == 0 {
		return nil, nil
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, note_id, content, checked, position, created_at, updated_at
		FROM tasks WHERE id = ?
	`, taskID)
	t, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("toggling task %s: %w", taskID, err)
	}
	return &t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (Task, error) {
	var t Task
	var checked int
	if err := r.Scan(&t.ID, &t.NoteID, &t.Content, &checked, &t.Position,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Task{}, fmt.Errorf("scanning task: %w", err)
	}
	t.Checked = checked != 0
	return t, nil
}
