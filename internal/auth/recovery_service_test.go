// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecoveryFixture(t *testing.T, users *stubUsers, mailer LinkMailer) *RecoveryService {
	t.Helper()
	svc, err := NewRecoveryService(users, &stubHasher{}, &stubIssuer{}, mailer, testBaseURL, nil)
	require.NoError(t, err)
	return svc
}

func TestRecoveryService_RequestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches the reset link in the background", func(t *testing.T) {
		stored := existingUser(t)
		users := &stubUsers{
			getByEmail: func(context.Context, string) (*User, error) { return stored, nil },
		}
		mailer := newChanMailer()
		svc := newRecoveryFixture(t, users, mailer)

		require.NoError(t, svc.RequestReset(ctx, "ada@example.com"))

		mail := waitForMail(t, mailer)
		assert.Equal(t, "reset", mail.kind)
		assert.Equal(t, "ada@example.com", mail.email)
		assert.Equal(t, testBaseURL+"/api/v1/users/reset_password?token=reset-token", mail.link)
	})

	t.Run("unknown email wraps not found", func(t *testing.T) {
		svc := newRecoveryFixture(t, &stubUsers{}, newChanMailer())

		err := svc.RequestReset(ctx, "ghost@example.com")
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "AUTH_EMAIL_NOT_FOUND", errCode(t, err))
	})

	t.Run("store failure is not a missing account", func(t *testing.T) {
		users := &stubUsers{
			getByEmail: func(context.Context, string) (*User, error) {
				return nil, oops.Errorf("connection refused")
			},
		}
		svc := newRecoveryFixture(t, users, newChanMailer())

		err := svc.RequestReset(ctx, "ada@example.com")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "AUTH_RESET_REQUEST_FAILED", errCode(t, err))
	})
}

func TestRecoveryService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the new hash for the account", func(t *testing.T) {
		var gotEmail, gotHash string
		users := &stubUsers{
			updatePassword: func(_ context.Context, email, hash string) error {
				gotEmail, gotHash = email, hash
				return nil
			},
		}
		svc := newRecoveryFixture(t, users, newChanMailer())

		require.NoError(t, svc.ResetPassword(ctx, "ada@example.com", "fresh9password"))
		assert.Equal(t, "ada@example.com", gotEmail)
		assert.Equal(t, "hashed:fresh9password", gotHash)
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		svc := newRecoveryFixture(t, &stubUsers{}, newChanMailer())

		err := svc.ResetPassword(ctx, "ada@example.com", "")
		require.Error(t, err)
		assert.Equal(t, "AUTH_RESET_PASSWORD_EMPTY", errCode(t, err))
	})

	t.Run("missing account surfaces as not found", func(t *testing.T) {
		users := &stubUsers{
			updatePassword: func(context.Context, string, string) error {
				return ErrNotFound
			},
		}
		svc := newRecoveryFixture(t, users, newChanMailer())

		err := svc.ResetPassword(ctx, "ghost@example.com", "fresh9password")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
