// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// LoginService authenticates users and issues identity tokens.
type LoginService struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewLoginService creates a new LoginService.
func NewLoginService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) (*LoginService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	return &LoginService{users: users, hasher: hasher, tokens: tokens}, nil
}

// Login authenticates a user by email and password and returns the user
// with a fresh identity token.
// Uses constant-time operations to prevent timing-based email enumeration.
func (s *LoginService) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	// Determine which hash to verify against (real or dummy for timing attack prevention)
	var targetHash string
	var userExists bool

	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			targetHash = dummyPasswordHash
			userExists = false
		} else {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Always verify password (constant-time operation for timing attack prevention)
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		if userExists {
			// Record failure only for existing users
			user.RecordFailure()
			_ = s.users.Update(ctx, user) //nolint:errcheck // Best effort
		}
		return nil, "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	// Check lockout AFTER password verification to maintain constant time
	if user.IsLocked() {
		return nil, "", oops.Code("AUTH_ACCOUNT_LOCKED").
			With("locked_until", user.LockedUntil).
			Errorf("account is temporarily locked")
	}

	user.RecordSuccess()
	// Ignore errors - login should succeed even if the counter reset fails
	_ = s.users.Update(ctx, user) //nolint:errcheck // Best effort, login succeeds regardless

	token, err := s.tokens.IssueIdentity(user.ID, user.Email)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue identity token").
			Wrap(err)
	}

	return user, token, nil
}
