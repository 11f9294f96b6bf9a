// AngelaMos | 2026
// repository_integration_test.go

//go:build integration

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	db := testutil.Postgres(t)
	ctx := context.Background()
	repo := NewRepository(db)

	ada := &User{
		Email:        strPtr("ada@bythepixel.com"),
		PasswordHash: "hash-1",
		FirstName:    "Ada",
		LastName:     "Lovelace",
	}
	require.NoError(t, repo.Create(ctx, ada))
	assert.NotZero(t, ada.ID)

	err := repo.Create(ctx, &User{
		Email:        strPtr("ada@bythepixel.com"),
		PasswordHash: "hash-2",
		FirstName:    "Other",
		LastName:     "Ada",
	})
	var conflict *core.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	updated, err := repo.Update(ctx, ada.ID, UpdateParams{
		FirstName: "Augusta",
		LastName:  "Lovelace",
		IsAdmin:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hash-1", updated.PasswordHash)
	assert.Equal(t, "ada@bythepixel.com", updated.EmailAddress())
	assert.True(t, updated.IsAdmin)

	require.NoError(t, repo.IncrementTokenVersion(ctx, ada.ID))
	byEmail, err := repo.GetByEmail(ctx, "ada@bythepixel.com")
	require.NoError(t, err)
	assert.Equal(t, 1, byEmail.TokenVersion)

	seeded := &User{
		Email:        strPtr("ada@bythepixel.com"),
		PasswordHash: "hash-3",
		FirstName:    "Ada",
		LastName:     "Admin",
	}
	require.NoError(t, repo.UpsertAdmin(ctx, seeded))
	assert.Equal(t, ada.ID, seeded.ID)
	assert.Equal(t, "hash-3", seeded.PasswordHash)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Delete(ctx, ada.ID))
	assert.ErrorIs(t, repo.Delete(ctx, ada.ID), core.ErrNotFound)
}
