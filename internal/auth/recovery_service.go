// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// RecoveryService handles the password recovery flow: issuing reset claims
// by email and applying a new password once a claim has been verified.
type RecoveryService struct {
	users   UserRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	mailer  LinkMailer
	baseURL string
	logger  *slog.Logger
}

// NewRecoveryService creates a new RecoveryService.
func NewRecoveryService(
	users UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	mailer LinkMailer,
	baseURL string,
	logger *slog.Logger,
) (*RecoveryService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if mailer == nil {
		return nil, oops.Errorf("mailer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RecoveryService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// RequestReset issues a time-boxed reset claim for the account and
// dispatches the reset link by mail. The caller's response is not blocked
// on mail delivery. Validation has already established that the email
// exists; a missing account here still surfaces as ErrNotFound in case
// the two checks race with a deletion.
func (s *RecoveryService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_EMAIL_NOT_FOUND").
				With("email", email).
				Wrap(err)
		}
		return oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := s.tokens.IssueReset(user.Email)
	if err != nil {
		return oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "issue reset token").
			Wrap(err)
	}

	link := s.baseURL + "/api/v1/users/reset_password?token=" + token

	go func() {
		if err := s.mailer.SendPasswordReset(context.Background(), user.Email, link); err != nil {
			s.logger.Error("password reset mail dispatch failed",
				"email", user.Email, "error", err)
		}
	}()

	return nil
}

// ResetPassword replaces the password for the account identified by email.
// The email comes from a verified reset claim; the handler's auth gate has
// already rejected unverified or expired tokens.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if newPassword == "" {
		return oops.Code("AUTH_RESET_PASSWORD_EMPTY").Errorf("new password cannot be empty")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_RESET_TARGET_MISSING").
				With("email", email).
				Wrap(err)
		}
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	return nil
}
