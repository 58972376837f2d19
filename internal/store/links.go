package store

import (
	"context"
	"fmt"
)

// ReplaceLinksFrom atomically replaces the outbound edge set for one
// (fromID, source) pair. Within a single transaction all rows matching the
// pair are deleted, then one row is inserted per distinct element of toIDs
// with fresh timestamps. Duplicate targets collapse to one edge; an empty
// toIDs is a legal terminal state (no outbound links from this source), not
// a no-op. On any failure the transaction rolls back and the prior edge set
// is left fully intact. Edges owned by other sources, and edges pointing at
// fromID, are never touched.
func (s *Store) ReplaceLinksFrom(ctx context.Context, fromID string, toIDs []string, source LinkSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowMillis()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace links from %s: begin: %w", fromID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM note_links WHERE from_id = ? AND source = ?
	`, fromID, string(source)); err != nil {
		return fmt.Errorf("replace links from %s: delete: %w", fromID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO note_links (from_id, to_id, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(from_id, to_id, source) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("replace links from %s: prepare: %w", fromID, err)
	}
	defer stmt.Close()

	for _, toID := range toIDs {
		if _, err := stmt.ExecContext(ctx, fromID, toID, string(source), now, now); err != nil {
			return fmt.Errorf("replace links from %s: insert %s: %w", fromID, toID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace links from %s: commit: %w", fromID, err)
	}

	s.logger.Debug("replaced links", "from", fromID, "source", source, "count", len(toIDs))
	return nil
}

// Backlinks returns every inbound edge to toID together with the referring
// note's title, most recently updated first. Inner join semantics: edges
// whose source note was deleted are silently excluded, not surfaced as
// dangling.
func (s *Store) Backlinks(ctx context.Context, toID string) ([]Backlink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.title, nl.source, nl.updated_at
		FROM note_links nl
		JOIN notes n ON nl.from_id = n.id
		WHERE nl.to_id = ?
		ORDER BY nl.updated_at DESC
	`, toID)
	if err != nil {
		return nil, fmt.Errorf("backlinks to %s: %w", toID, err)
	}
	defer rows.Close()

	var backlinks []Backlink
	for rows.Next() {
		var b Backlink
		var source string
		if err := rows.Scan(&b.FromID, &b.FromTitle, &source, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("backlinks to %s: scan: %w", toID, err)
		}
		b.Source = LinkSource(source)
		backlinks = append(backlinks, b)
	}
	return backlinks, rows.Err()
}

// AllLinks returns the entire edge set, for building an in-memory graph
// view. No ordering guarantee.
func (s *Store) AllLinks(ctx context.Context) ([]Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT from_id, to_id, source, created_at, updated_at FROM note_links
	`)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		var source string
		if err := rows.Scan(&l.FromID, &l.ToID, &source, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("listing links: scan: %w", err)
		}
		l.Source = LinkSource(source)
		links = append(links, l)
	}
	return links, rows.Err()
}

// LinksFrom returns the outbound edges for one (fromID, source) pair.
func (s *Store) LinksFrom(ctx context.Context, fromID string, source LinkSource) ([]Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT from_id, to_id, source, created_at, updated_at
		FROM note_links
		WHERE from_id = ? AND source = ?
	`, fromID, string(source))
	if err != nil {
		return nil, fmt.Errorf("links from %s: %w", fromID, err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var l Link
		var src string
		if err := rows.Scan(&l.FromID, &l.ToID, &src, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("links from %s: scan: %w", fromID, err)
		}
		l.Source = LinkSource(src)
		links = append(links, l)
	}
	return links, rows.Err()
}
