// Package notes composes the persistence core with wikilink extraction and
// the title linker into the save-side flows the client calls: saving a note
// keeps its authored edge set in sync with its body, and the suggestion
// flow feeds the automated "ai" link source. Plain reads and the task
// operations go straight to the store.
package notes

import (
	"context"
	"fmt"
	"sync"

	"github.com/kittclouds/notegraph/internal/store"
	"github.com/kittclouds/notegraph/pkg/linker"
	"github.com/kittclouds/notegraph/pkg/wikilink"
)

// Service owns the composite note flows. Safe for concurrent use.
type Service struct {
	store *store.Store

	mu   sync.Mutex
	dict *linker.Dictionary // nil until first use or after invalidation
}

// New creates a Service over an opened store.
func New(st *store.Store) *Service {
	return &Service{store: st}
}

// Store exposes the underlying store for plain reads and task operations.
func (s *Service) Store() *store.Store {
	return s.store
}

// Save upserts the note, then derives its outbound user_wikilink edge set
// from the body and replaces it atomically. A body with no wikilinks clears
// the note's authored links. The title dictionary is invalidated since the
// title may have changed.
func (s *Service) Save(ctx context.Context, in store.NoteInput) (*store.Note, error) {
	note, err := s.store.UpsertNote(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("saving note %s: %w", in.ID, err)
	}

	toIDs := wikilink.ExtractIDs(note.Content)
	if err := s.store.ReplaceLinksFrom(ctx, note.ID, toIDs, store.SourceUserWikilink); err != nil {
		return nil, fmt.Errorf("saving note %s: %w", in.ID, err)
	}

	s.invalidateDictionary()
	return note, nil
}

// Delete removes a note and invalidates the title dictionary.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.invalidateDictionary()
	return nil
}

// SuggestLinks returns ids of notes whose titles are mentioned in the given
// note's body but are not already wikilinked there. Candidates for the ai
// link source; nothing is persisted.
func (s *Service) SuggestLinks(ctx context.Context, id string) ([]string, error) {
	note, err := s.store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	dict, err := s.dictionary(ctx)
	if err != nil {
		return nil, err
	}

	linked := make(map[string]bool)
	for _, toID := range wikilink.ExtractIDs(note.Content) {
		linked[toID] = true
	}

	var out []string
	for _, candidate := range dict.Suggest(id, wikilink.StripTags(note.Content)) {
		if !linked[candidate] {
			out = append(out, candidate)
		}
	}
	return out, nil
}

// ApplySuggestedLinks persists the current suggestions as the note's ai
// edge set, replacing whatever the ai source asserted before. The authored
// user_wikilink edges are untouched. Returns the applied target ids.
func (s *Service) ApplySuggestedLinks(ctx context.Context, id string) ([]string, error) {
	suggested, err := s.SuggestLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceLinksFrom(ctx, id, suggested, store.SourceAI); err != nil {
		return nil, err
	}
	return suggested, nil
}

// RebuildDictionary recompiles the title automaton from the current corpus
// and returns the number of compiled patterns.
func (s *Service) RebuildDictionary(ctx context.Context) (int, error) {
	dict, err := s.compile(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.dict = dict
	s.mu.Unlock()
	return dict.Size(), nil
}

func (s *Service) dictionary(ctx context.Context) (*linker.Dictionary, error) {
	s.mu.Lock()
	dict := s.dict
	s.mu.Unlock()
	if dict != nil {
		return dict, nil
	}

	dict, err := s.compile(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.dict = dict
	s.mu.Unlock()
	return dict, nil
}

func (s *Service) compile(ctx context.Context) (*linker.Dictionary, error) {
	summaries, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("compiling title dictionary: %w", err)
	}
	titles := make([]linker.NoteTitle, 0, len(summaries))
	for _, n := range summaries {
		titles = append(titles, linker.NoteTitle{ID: n.ID, Title: n.Title})
	}
	dict, err := linker.Compile(titles)
	if err != nil {
		return nil, fmt.Errorf("compiling title dictionary: %w", err)
	}
	return dict, nil
}

func (s *Service) invalidateDictionary() {
	s.mu.Lock()
	s.dict = nil
	s.mu.Unlock()
}
