// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkwell/inkwell/internal/auth"
)

// SettingsRepository implements auth.SettingsRepository using PostgreSQL.
type SettingsRepository struct {
	db DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Create stores a user's settings row.
func (r *SettingsRepository) Create(ctx context.Context, settings *auth.Settings) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO settings (user_id, email_notify, in_app_notify, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		settings.UserID.String(),
		settings.EmailNotify,
		settings.InAppNotify,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		return oops.Code("SETTINGS_CREATE_FAILED").
			With("operation", "insert settings").
			With("user_id", settings.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByUser retrieves a user's settings.
func (r *SettingsRepository) GetByUser(ctx context.Context, userID ulid.ULID) (*auth.Settings, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, email_notify, in_app_notify, created_at, updated_at
		FROM settings
		WHERE user_id = $1
	`, userID.String())

	var (
		userIDStr string
		s         auth.Settings
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&userIDStr, &s.EmailNotify, &s.InAppNotify, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SETTINGS_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SETTINGS_GET_FAILED").
			With("operation", "get settings by user").
			With("user_id", userID.String()).
			Wrap(err)
	}

	parsed, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("SETTINGS_INVALID_USER_ID").
			With("user_id", userIDStr).
			Wrap(err)
	}
	s.UserID = parsed
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return &s, nil
}

// Update updates a user's settings.
func (r *SettingsRepository) Update(ctx context.Context, settings *auth.Settings) error {
	result, err := r.db.Exec(ctx, `
		UPDATE settings SET email_notify = $2, in_app_notify = $3, updated_at = $4
		WHERE user_id = $1
	`,
		settings.UserID.String(),
		settings.EmailNotify,
		settings.InAppNotify,
		settings.UpdatedAt,
	)
	if err != nil {
		return oops.Code("SETTINGS_UPDATE_FAILED").
			With("operation", "update settings").
			With("user_id", settings.UserID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SETTINGS_NOT_FOUND").
			With("user_id", settings.UserID.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ auth.SettingsRepository = (*SettingsRepository)(nil)
