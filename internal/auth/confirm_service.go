// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// ConfirmService marks accounts as confirmed once an email claim has
// been verified.
type ConfirmService struct {
	users UserRepository
}

// NewConfirmService creates a new ConfirmService.
func NewConfirmService(users UserRepository) (*ConfirmService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	return &ConfirmService{users: users}, nil
}

// Confirm sets the confirmed flag for the account identified by email.
// The email comes from a verified confirmation claim.
func (s *ConfirmService) Confirm(ctx context.Context, email string) error {
	if err := s.users.SetConfirmed(ctx, email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("AUTH_CONFIRM_TARGET_MISSING").
				With("email", email).
				Wrap(err)
		}
		return oops.Code("AUTH_CONFIRM_FAILED").
			With("operation", "set confirmed").
			Wrap(err)
	}
	return nil
}
