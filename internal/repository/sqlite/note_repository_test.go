package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notevault/internal/domain"
	"notevault/internal/repository"
)

func newNoteRepo(t *testing.T) repository.NoteRepository {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewNoteRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestNoteRepository_CRUD(t *testing.T) {
	t.Parallel()
	repo := newNoteRepo(t)
	ctx := context.Background()

	note := &domain.Note{ID: uuid.NewString(), Text: "buy milk", UserID: "u1"}
	require.NoError(t, repo.Create(ctx, note))

	got, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)
	assert.Equal(t, "u1", got.UserID)

	got.Text = "buy oat milk"
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Text)

	require.NoError(t, repo.Delete(ctx, note.ID))
	_, err = repo.GetByID(ctx, note.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNoteRepository_ListScoping(t *testing.T) {
	t.Parallel()
	repo := newNoteRepo(t)
	ctx := context.Background()

	for _, n := range []*domain.Note{
		{ID: uuid.NewString(), Text: "one", UserID: "u1"},
		{ID: uuid.NewString(), Text: "two", UserID: "u1"},
		{ID: uuid.NewString(), Text: "three", UserID: "u2"},
	} {
		require.NoError(t, repo.Create(ctx, n))
	}

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.ListByUser(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}
