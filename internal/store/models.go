// Package store provides SQLite-backed persistence for notegraph.
// It owns the notes, note_links and tasks tables and the two reconciliation
// algorithms (source-scoped link replacement, identity-preserving task
// replacement) that keep them consistent.
package store

// LinkSource tags the mechanism that created a link. Each source owns its
// edge set independently: replacing one source's links never touches edges
// asserted by another source.
type LinkSource string

const (
	// SourceUserWikilink marks links authored by wikilinks in the note body.
	SourceUserWikilink LinkSource = "user_wikilink"
	// SourceAI marks links produced by automated suggestion.
	SourceAI LinkSource = "ai"
)

// Note is a persisted note. Content holds the serialized rich-text document;
// the store treats it as an opaque string. UpdatedAt is stamped server-side
// in milliseconds since epoch on every write.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Favorite  bool   `json:"favorite"`
	UpdatedAt int64  `json:"updatedAt"`
}

// NoteInput is the caller-supplied payload for UpsertNote. Favorite is a
// pointer so callers can omit it: nil preserves the existing row's flag,
// non-nil overwrites it.
type NoteInput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Favorite *bool  `json:"favorite,omitempty"`
}

// NoteSummary is the list-view projection of a note.
type NoteSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updatedAt"`
	Favorite  bool   `json:"favorite"`
}

// Link is a directed, source-tagged edge between two notes. Referential
// integrity is advisory: either endpoint may name a note that does not (or
// no longer) exist. Wikilinks to not-yet-created notes are a valid state.
type Link struct {
	FromID    string     `json:"fromId"`
	ToID      string     `json:"toId"`
	Source    LinkSource `json:"source"`
	CreatedAt int64      `json:"createdAt"`
	UpdatedAt int64      `json:"updatedAt"`
}

// Backlink is an inbound edge resolved with the referring note's title.
// Edges whose source note was deleted are excluded at query time.
type Backlink struct {
	FromID    string     `json:"fromId"`
	FromTitle string     `json:"fromTitle"`
	Source    LinkSource `json:"source"`
	UpdatedAt int64      `json:"updatedAt"`
}

// Task is one checklist item owned by a note. IDs are system-assigned and
// stable across content-preserving list replacements.
type Task struct {
	ID        string `json:"id"`
	NoteID    string `json:"noteId"`
	Content   string `json:"content"`
	Checked   bool   `json:"checked"`
	Position  int    `json:"position"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// TaskInput is one incoming checklist item for ReplaceTasksFor. Identity is
// derived by the reconciler; callers never supply ids.
type TaskInput struct {
	Content  string `json:"content"`
	Checked  bool   `json:"checked"`
	Position int    `json:"position"`
}

// TaskWithNote annotates a task with its owning note's title for
// cross-note task views.
type TaskWithNote struct {
	Task
	NoteTitle string `json:"noteTitle"`
}
