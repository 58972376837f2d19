package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestUpsertNote_InsertAndUpdate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.UpsertNote(ctx, NoteInput{ID: "n1", Title: "First", Content: "<p>hi</p>"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "n1", created.ID)
	assert.Equal(t, "First", created.Title)
	assert.False(t, created.Favorite)
	assert.Greater(t, created.UpdatedAt, int64(0), "updated_at is server-stamped")

	updated, err := s.UpsertNote(ctx, NoteInput{ID: "n1", Title: "First, edited", Content: "<p>bye</p>"})
	require.NoError(t, err)
	assert.Equal(t, "First, edited", updated.Title)
	assert.Equal(t, "<p>bye</p>", updated.Content)
	assert.GreaterOrEqual(t, updated.UpdatedAt, created.UpdatedAt)
}

func TestUpsertNote_FavoritePreservedWhenOmitted(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertNote(ctx, NoteInput{ID: "n1", Title: "T", Content: "c"})
	require.NoError(t, err)
	_, err = s.ToggleFavorite(ctx, "n1")
	require.NoError(t, err)

	// Favorite omitted: the existing flag survives the content edit.
	note, err := s.UpsertNote(ctx, NoteInput{ID: "n1", Title: "T2", Content: "c2"})
	require.NoError(t, err)
	assert.True(t, note.Favorite)

	// Favorite supplied: the flag is overwritten.
	note, err = s.UpsertNote(ctx, NoteInput{ID: "n1", Title: "T3", Content: "c3", Favorite: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, note.Favorite)
}

func TestGetNote_NotFound(t *testing.T) {
	s := setupTestStore(t)

	note, err := s.GetNote(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, note, "absence is a nil result, not an error")
}

func TestListNotes_FavoritesFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// c is written last, so it has the newest updated_at.
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.UpsertNote(ctx, NoteInput{ID: id, Title: id, Content: "x"})
		require.NoError(t, err)
	}
	// Favoriting a also bumps its updated_at, but the test holds regardless:
	// favorites sort before non-favorites whatever their timestamps.
	_, err := s.ToggleFavorite(ctx, "a")
	require.NoError(t, err)

	notes, err := s.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "a", notes[0].ID, "favorite sorts first")
	assert.True(t, notes[0].Favorite)
	for _, n := range notes[1:] {
		assert.False(t, n.Favorite)
	}
}

func TestToggleFavorite_MissingID(t *testing.T) {
	s := setupTestStore(t)

	note, err := s.ToggleFavorite(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, note)
}

func TestToggleFavorite_FlipsBothWays(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertNote(ctx, NoteInput{ID: "n1", Title: "T", Content: "c"})
	require.NoError(t, err)

	on, err := s.ToggleFavorite(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, on.Favorite)

	off, err := s.ToggleFavorite(ctx, "n1")
	require.NoError(t, err)
	assert.False(t, off.Favorite)
}

func TestDeleteNote_CascadesTasks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertNote(ctx, NoteInput{ID: "n1", Title: "T", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, s.ReplaceTasksFor(ctx, "n1", []TaskInput{
		{Content: "buy milk", Position: 0},
	}))

	require.NoError(t, s.DeleteNote(ctx, "n1"))

	tasks, err := s.TasksForNote(ctx, "n1")
	require.NoError(t, err)
	assert.Empty(t, tasks, "tasks cascade with their note")
}
