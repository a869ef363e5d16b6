package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notevault/internal/domain"
	"notevault/internal/repository/sqlite"
)

func newTestUsers(t *testing.T) UserService {
	t.Helper()
	db, err := sqlite.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return NewUserService(repo)
}

func TestUserService_CreateListDelete(t *testing.T) {
	t.Parallel()
	svc := newTestUsers(t)
	ctx := context.Background()

	admin, err := svc.Create(ctx, "bigboss", "admin@x.com", "secretpw", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Empty(t, admin.PasswordHash)

	// empty role defaults to user
	member, err := svc.Create(ctx, "member1", "m@x.com", "secretpw", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, member.Role)

	_, err = svc.Create(ctx, "member2", "m@x.com", "secretpw", domain.RoleUser)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Create(ctx, "member2", "m2@x.com", "secretpw", "superuser")
	assert.ErrorIs(t, err, ErrValidation)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}

	require.NoError(t, svc.Delete(ctx, member.ID))
	_, err = svc.Get(ctx, member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, member.ID), ErrNotFound)
}
