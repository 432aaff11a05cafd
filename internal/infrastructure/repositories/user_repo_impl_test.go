package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"donation-hub.backend/internal/domain/entities"
	domainerrors "donation-hub.backend/internal/domain/errors"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &entities.User{
		Email:        "alice@mail.com",
		Name:         "Alice",
		PasswordHash: "hash",
		Role:         entities.UserRoleUser,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@mail.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, "Alice", byEmail.Name)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@mail.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "nobody@mail.com")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_EmailLookupIsCaseSensitive(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entities.User{
		Email: "Bob@mail.com", Name: "Bob", PasswordHash: "h", Role: entities.UserRoleUser, CreatedAt: time.Now(),
	}))

	_, err := repo.GetByEmail(ctx, "bob@mail.com")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserRepository_CountListDeleteAll(t *testing.T) {
	db := newTestDB(t)
	createUserTable(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	for _, email := range []string{"a@mail.com", "b@mail.com", "c@mail.com"} {
		require.NoError(t, repo.Create(ctx, &entities.User{
			Email: email, Name: "User " + email, PasswordHash: "h", Role: entities.UserRoleUser, CreatedAt: time.Now(),
		}))
	}

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	// insertion order
	require.Equal(t, "a@mail.com", users[0].Email)
	require.Equal(t, "c@mail.com", users[2].Email)

	deleted, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, deleted)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}
