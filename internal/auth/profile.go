// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// Profile holds the public-facing details of a user.
type Profile struct {
	UserID    ulid.ULID
	Username  string
	FirstName string
	LastName  string
	Gender    string
	Bio       string
	Phone     string
	Address   string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates an empty profile bound to a user.
// The username is stored lowercased; lookups are case-insensitive anyway,
// but a canonical form keeps display consistent.
func NewProfile(userID ulid.ULID, username string) (*Profile, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("AUTH_INVALID_USER").Errorf("user ID cannot be zero")
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}

	now := time.Now()
	return &Profile{
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ProfileRepository manages profile persistence.
type ProfileRepository interface {
	// Create stores a new profile.
	Create(ctx context.Context, profile *Profile) error

	// GetByUsername retrieves a profile by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*Profile, error)

	// GetByUser retrieves the profile belonging to a user.
	GetByUser(ctx context.Context, userID ulid.ULID) (*Profile, error)

	// List retrieves all profiles ordered by username.
	List(ctx context.Context, limit, offset int) ([]*Profile, error)

	// Update updates an existing profile.
	Update(ctx context.Context, profile *Profile) error
}
