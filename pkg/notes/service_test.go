package notes

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/notegraph/internal/store"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "notegraph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st)
}

func wikilinkSpan(id, label string) string {
	return `<span data-type="wikilink" data-id="` + id + `" data-label="` + label + `">[[` + label + `]]</span>`
}

func TestSave_SyncsWikilinkEdges(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, store.NoteInput{ID: "b", Title: "Beta", Content: "<p></p>"})
	require.NoError(t, err)

	_, err = svc.Save(ctx, store.NoteInput{
		ID:      "a",
		Title:   "Alpha",
		Content: "<p>see " + wikilinkSpan("b", "Beta") + "</p>",
	})
	require.NoError(t, err)

	backlinks, err := svc.Store().Backlinks(ctx, "b")
	require.NoError(t, err)
	require.Len(t, backlinks, 1)
	assert.Equal(t, "a", backlinks[0].FromID)
	assert.Equal(t, store.SourceUserWikilink, backlinks[0].Source)

	// Removing the wikilink from the body clears the authored edge.
	_, err = svc.Save(ctx, store.NoteInput{ID: "a", Title: "Alpha", Content: "<p>no links</p>"})
	require.NoError(t, err)

	backlinks, err = svc.Store().Backlinks(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, backlinks)
}

func TestSave_LeavesAIEdgesAlone(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, store.NoteInput{ID: "a", Title: "Alpha", Content: "<p></p>"})
	require.NoError(t, err)
	require.NoError(t, svc.Store().ReplaceLinksFrom(ctx, "a", []string{"c"}, store.SourceAI))

	_, err = svc.Save(ctx, store.NoteInput{ID: "a", Title: "Alpha", Content: "<p>edited</p>"})
	require.NoError(t, err)

	links, err := svc.Store().AllLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, store.SourceAI, links[0].Source)
}

func TestSuggestLinks_FindsMentionsSkipsWikilinked(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, store.NoteInput{ID: "alpha", Title: "Project Alpha", Content: "<p></p>"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, store.NoteInput{ID: "beta", Title: "Beta Launch", Content: "<p></p>"})
	require.NoError(t, err)

	// Mentions both; Beta Launch is already wikilinked, Project Alpha is not.
	_, err = svc.Save(ctx, store.NoteInput{
		ID:    "journal",
		Title: "Journal",
		Content: "<p>Synced on Project Alpha with the " +
			wikilinkSpan("beta", "Beta Launch") + " owners.</p>",
	})
	require.NoError(t, err)

	suggested, err := svc.SuggestLinks(ctx, "journal")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, suggested)
}

func TestSuggestLinks_MissingNote(t *testing.T) {
	svc := setupService(t)

	suggested, err := svc.SuggestLinks(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, suggested)
}

func TestApplySuggestedLinks_PersistsUnderAISource(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, store.NoteInput{ID: "alpha", Title: "Project Alpha", Content: "<p></p>"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, store.NoteInput{
		ID:      "journal",
		Title:   "Journal",
		Content: "<p>more Project Alpha follow-ups</p>",
	})
	require.NoError(t, err)

	applied, err := svc.ApplySuggestedLinks(ctx, "journal")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, applied)

	links, err := svc.Store().LinksFrom(ctx, "journal", store.SourceAI)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "alpha", links[0].ToID)

	// Re-applying after the mention is gone clears the ai set.
	_, err = svc.Save(ctx, store.NoteInput{ID: "journal", Title: "Journal", Content: "<p>done</p>"})
	require.NoError(t, err)
	applied, err = svc.ApplySuggestedLinks(ctx, "journal")
	require.NoError(t, err)
	assert.Empty(t, applied)

	links, err = svc.Store().LinksFrom(ctx, "journal", store.SourceAI)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestRebuildDictionary_CountsPatterns(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, store.NoteInput{ID: "a", Title: "Project Alpha", Content: "<p></p>"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, store.NoteInput{ID: "b", Title: "The", Content: "<p></p>"})
	require.NoError(t, err)

	n, err := svc.RebuildDictionary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "stopword title is not compiled")
}
