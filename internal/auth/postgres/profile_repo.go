// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkwell/inkwell/internal/auth"
)

// ProfileRepository implements auth.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, username, firstname, lastname, gender,
	       bio, phone, address, image, created_at, updated_at`

// Create stores a new profile. A duplicate username surfaces as
// auth.ErrConflict.
func (r *ProfileRepository) Create(ctx context.Context, profile *auth.Profile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (
			user_id, username, firstname, lastname, gender,
			bio, phone, address, image, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		profile.UserID.String(),
		profile.Username,
		profile.FirstName,
		profile.LastName,
		profile.Gender,
		profile.Bio,
		profile.Phone,
		profile.Address,
		profile.Image,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("PROFILE_USERNAME_TAKEN").
				With("username", profile.Username).
				Wrap(auth.ErrConflict)
		}
		return oops.Code("PROFILE_CREATE_FAILED").
			With("operation", "insert profile").
			With("username", profile.Username).
			Wrap(err)
	}
	return nil
}

// GetByUsername retrieves a profile by username (case-insensitive).
func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*auth.Profile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE LOWER(username) = LOWER($1)
	`, username)

	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROFILE_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_GET_BY_USERNAME_FAILED").
			With("operation", "get profile by username").
			With("username", username).
			Wrap(err)
	}
	return profile, nil
}

// GetByUser retrieves the profile owned by a user.
func (r *ProfileRepository) GetByUser(ctx context.Context, userID ulid.ULID) (*auth.Profile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE user_id = $1
	`, userID.String())

	profile, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROFILE_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_GET_BY_USER_FAILED").
			With("operation", "get profile by user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return profile, nil
}

// List returns profiles ordered by username.
func (r *ProfileRepository) List(ctx context.Context, limit, offset int) ([]*auth.Profile, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		ORDER BY username
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, oops.Code("PROFILE_LIST_FAILED").
			With("operation", "list profiles").
			Wrap(err)
	}
	defer rows.Close()

	var profiles []*auth.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, oops.Code("PROFILE_LIST_FAILED").
				With("operation", "scan profile row").
				Wrap(err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("PROFILE_LIST_FAILED").
			With("operation", "iterate profiles").
			Wrap(err)
	}
	return profiles, nil
}

// Update updates an existing profile.
func (r *ProfileRepository) Update(ctx context.Context, profile *auth.Profile) error {
	result, err := r.db.Exec(ctx, `
		UPDATE profiles SET
			username = $2,
			firstname = $3,
			lastname = $4,
			gender = $5,
			bio = $6,
			phone = $7,
			address = $8,
			image = $9,
			updated_at = $10
		WHERE user_id = $1
	`,
		profile.UserID.String(),
		profile.Username,
		profile.FirstName,
		profile.LastName,
		profile.Gender,
		profile.Bio,
		profile.Phone,
		profile.Address,
		profile.Image,
		profile.UpdatedAt,
	)
	if err != nil {
		return oops.Code("PROFILE_UPDATE_FAILED").
			With("operation", "update profile").
			With("user_id", profile.UserID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROFILE_NOT_FOUND").
			With("user_id", profile.UserID.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanProfile scans a single row into a Profile.
// Callers are responsible for handling pgx.ErrNoRows.
func scanProfile(row pgx.Row) (*auth.Profile, error) {
	var (
		userIDStr string
		p         auth.Profile
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&userIDStr,
		&p.Username,
		&p.FirstName,
		&p.LastName,
		&p.Gender,
		&p.Bio,
		&p.Phone,
		&p.Address,
		&p.Image,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PROFILE_SCAN_FAILED").
			With("operation", "scan profile").
			Wrap(err)
	}

	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("PROFILE_INVALID_USER_ID").
			With("operation", "parse profile user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	p.UserID = userID
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}

// Compile-time interface check.
var _ auth.ProfileRepository = (*ProfileRepository)(nil)
