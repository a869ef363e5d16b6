package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notevault/internal/repository/sqlite"
)

func newTestNotes(t *testing.T) NoteService {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewNoteRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return NewNoteService(repo)
}

func TestNoteService_CreateAndGet(t *testing.T) {
	t.Parallel()
	svc := newTestNotes(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "u1", "buy milk")
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "u1", note.UserID)

	got, err := svc.Get(ctx, "u1", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Text)

	_, err = svc.Create(ctx, "u1", "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteService_OwnershipHidesNotes(t *testing.T) {
	t.Parallel()
	svc := newTestNotes(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "u1", "private thought")
	require.NoError(t, err)

	// another user's id gives not-found, not forbidden, so ids don't leak
	_, err = svc.Get(ctx, "u2", note.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "u2", note.ID, "defaced")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", note.ID), ErrNotFound)

	got, err := svc.Get(ctx, "u1", note.ID)
	require.NoError(t, err)
	assert.Equal(t, "private thought", got.Text)
}

func TestNoteService_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	svc := newTestNotes(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "u1", "draft")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "u1", note.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Text)

	require.NoError(t, svc.Delete(ctx, "u1", note.ID))
	_, err = svc.Get(ctx, "u1", note.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteService_Listing(t *testing.T) {
	t.Parallel()
	svc := newTestNotes(t)
	ctx := context.Background()

	for _, text := range []string{"one", "two"} {
		_, err := svc.Create(ctx, "u1", text)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "u2", "three")
	require.NoError(t, err)

	mine, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
