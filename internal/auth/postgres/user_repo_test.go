// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/inkwell/internal/auth"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func userRow(user *auth.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "email", "password_hash", "role", "confirmed",
		"failed_attempts", "locked_until", "created_at", "updated_at",
	}).AddRow(
		user.ID.String(), user.Email, user.PasswordHash, user.Role, user.Confirmed,
		user.FailedAttempts, user.LockedUntil, user.CreatedAt, user.UpdatedAt,
	)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	user := &auth.User{
		ID:           ulid.Make(),
		Email:        "ada@example.com",
		PasswordHash: "hash",
		Role:         auth.RoleUser,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	t.Run("inserts the user", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(
				user.ID.String(), user.Email, user.PasswordHash, user.Role,
				user.Confirmed, user.FailedAttempts, user.LockedUntil,
				user.CreatedAt, user.UpdatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := NewUserRepository(mock)
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		repo := NewUserRepository(mock)
		err := repo.Create(ctx, user)
		assert.ErrorIs(t, err, auth.ErrConflict)
	})

	t.Run("other failures are not conflicts", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(errors.New("connection refused"))

		repo := NewUserRepository(mock)
		err := repo.Create(ctx, user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrConflict)
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	user := &auth.User{
		ID:           ulid.Make(),
		Email:        "ada@example.com",
		PasswordHash: "hash",
		Role:         auth.RoleUser,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	t.Run("case-insensitive match", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, email, password_hash.*LOWER\(email\) = LOWER\(\$1\)`).
			WithArgs("ADA@EXAMPLE.COM").
			WillReturnRows(userRow(user))

		repo := NewUserRepository(mock)
		got, err := repo.GetByEmail(ctx, "ADA@EXAMPLE.COM")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("absent email is not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, email, password_hash`).
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "email", "password_hash", "role", "confirmed",
				"failed_attempts", "locked_until", "created_at", "updated_at",
			}))

		repo := NewUserRepository(mock)
		_, err := repo.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("store failure is not misreported as not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, email, password_hash`).
			WithArgs("ada@example.com").
			WillReturnError(errors.New("connection refused"))

		repo := NewUserRepository(mock)
		_, err := repo.GetByEmail(ctx, "ada@example.com")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("updates by email", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE users SET password_hash`).
			WithArgs("ada@example.com", "new-hash", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewUserRepository(mock)
		require.NoError(t, repo.UpdatePassword(ctx, "ada@example.com", "new-hash"))
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE users SET password_hash`).
			WithArgs("ghost@example.com", "new-hash", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewUserRepository(mock)
		err := repo.UpdatePassword(ctx, "ghost@example.com", "new-hash")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_SetConfirmed(t *testing.T) {
	ctx := context.Background()

	t.Run("flags the account", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE users SET confirmed = TRUE`).
			WithArgs("ada@example.com", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewUserRepository(mock)
		require.NoError(t, repo.SetConfirmed(ctx, "ada@example.com"))
	})

	t.Run("unknown email is not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE users SET confirmed = TRUE`).
			WithArgs("ghost@example.com", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewUserRepository(mock)
		err := repo.SetConfirmed(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}
