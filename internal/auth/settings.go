// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Settings holds per-user notification preferences.
type Settings struct {
	UserID      ulid.ULID
	EmailNotify bool
	InAppNotify bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultSettings returns the settings assigned to a new account.
// Both notification channels start enabled.
func DefaultSettings(userID ulid.ULID) *Settings {
	now := time.Now()
	return &Settings{
		UserID:      userID,
		EmailNotify: true,
		InAppNotify: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SettingsRepository manages settings persistence.
type SettingsRepository interface {
	// Create stores settings for a user.
	Create(ctx context.Context, settings *Settings) error

	// GetByUser retrieves the settings for a user.
	GetByUser(ctx context.Context, userID ulid.ULID) (*Settings, error)

	// Update updates existing settings.
	Update(ctx context.Context, settings *Settings) error
}
