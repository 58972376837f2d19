package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileCorpus(t *testing.T) *Dictionary {
	t.Helper()
	d, err := Compile([]NoteTitle{
		{ID: "n1", Title: "Project Alpha"},
		{ID: "n2", Title: "Weekly Review"},
		{ID: "n3", Title: "O'Brien"},
		{ID: "n4", Title: "The"}, // bare stopword, never compiled
	})
	require.NoError(t, err)
	return d
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "project alpha", Canonicalize("  Project   Alpha!  "))
	assert.Equal(t, "o'brien", Canonicalize("O’Brien"))
	assert.Equal(t, "jean-luc", Canonicalize("Jean–Luc"))
	assert.Equal(t, "", Canonicalize("?!,"))
}

func TestCompile_SkipsStopwordAndEmptyTitles(t *testing.T) {
	d := compileCorpus(t)
	assert.Equal(t, 3, d.Size(), "stopword-only title is not compiled")

	empty, err := Compile([]NoteTitle{{ID: "x", Title: "  !! "}})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Size())
	assert.Nil(t, empty.Suggest("y", "anything at all"))
}

func TestSuggest_FindsTitleMentions(t *testing.T) {
	d := compileCorpus(t)

	got := d.Suggest("n9", "Carried over from Project Alpha; see also the weekly review notes.")
	assert.Equal(t, []string{"n1", "n2"}, got)
}

func TestSuggest_CaseAndPunctuationInsensitive(t *testing.T) {
	d := compileCorpus(t)

	got := d.Suggest("n9", "talked to O’BRIEN today")
	assert.Equal(t, []string{"n3"}, got)
}

func TestSuggest_ExcludesSelf(t *testing.T) {
	d := compileCorpus(t)

	got := d.Suggest("n1", "Project Alpha status: green")
	assert.Nil(t, got)
}

func TestSuggest_WholeWordsOnly(t *testing.T) {
	d, err := Compile([]NoteTitle{{ID: "n1", Title: "Art"}})
	require.NoError(t, err)

	assert.Nil(t, d.Suggest("x", "the startup cartel"), "no match inside larger words")
	assert.Equal(t, []string{"n1"}, d.Suggest("x", "modern art history"))
}

func TestSuggest_SharedTitleReturnsAllNotes(t *testing.T) {
	d, err := Compile([]NoteTitle{
		{ID: "a", Title: "Inbox"},
		{ID: "b", Title: "Inbox"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, d.Suggest("x", "clear the inbox"))
}
