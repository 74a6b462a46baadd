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

	"github.com/inkwell/inkwell/internal/content"
)

// CategoryRepository implements content.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	db DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create stores a new category. A duplicate name surfaces as
// content.ErrConflict.
func (r *CategoryRepository) Create(ctx context.Context, category *content.Category) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, name, created_at)
		VALUES ($1, $2, $3)
	`, category.ID.String(), category.Name, category.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("CATEGORY_NAME_TAKEN").
				With("name", category.Name).
				Wrap(content.ErrConflict)
		}
		return oops.Code("CATEGORY_CREATE_FAILED").
			With("operation", "insert category").
			With("name", category.Name).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id ulid.ULID) (*content.Category, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, created_at FROM categories WHERE id = $1
	`, id.String())

	var (
		idStr     string
		name      string
		createdAt time.Time
	)
	err := row.Scan(&idStr, &name, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CATEGORY_NOT_FOUND").
			With("id", id.String()).
			Wrap(content.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CATEGORY_GET_FAILED").
			With("operation", "get category").
			With("id", id.String()).
			Wrap(err)
	}

	parsed, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("CATEGORY_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	return &content.Category{ID: parsed, Name: name, CreatedAt: createdAt}, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]content.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, created_at FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, oops.Code("CATEGORY_LIST_FAILED").
			With("operation", "list categories").
			Wrap(err)
	}
	defer rows.Close()

	var categories []content.Category
	for rows.Next() {
		var (
			idStr     string
			name      string
			createdAt time.Time
		)
		if err := rows.Scan(&idStr, &name, &createdAt); err != nil {
			return nil, oops.Code("CATEGORY_LIST_FAILED").
				With("operation", "scan category row").
				Wrap(err)
		}
		id, err := ulid.Parse(idStr)
		if err != nil {
			return nil, oops.Code("CATEGORY_INVALID_ID").
				With("id", idStr).
				Wrap(err)
		}
		categories = append(categories, content.Category{ID: id, Name: name, CreatedAt: createdAt})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("CATEGORY_LIST_FAILED").
			With("operation", "iterate categories").
			Wrap(err)
	}
	return categories, nil
}

// Compile-time interface check.
var _ content.CategoryRepository = (*CategoryRepository)(nil)
