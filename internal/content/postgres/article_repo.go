// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkwell/inkwell/internal/content"
)

// ArticleRepository implements content.ArticleRepository using PostgreSQL.
type ArticleRepository struct {
	db DB
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(db DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

const articleColumns = `id, author_id, category_id, slug, title,
	       description, body, tags, created_at, updated_at`

// Create stores a new article. A duplicate slug or duplicate
// author+title surfaces as content.ErrConflict.
func (r *ArticleRepository) Create(ctx context.Context, article *content.Article) error {
	var categoryID *string
	if article.CategoryID != nil {
		s := article.CategoryID.String()
		categoryID = &s
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO articles (
			id, author_id, category_id, slug, title,
			description, body, tags, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		article.ID.String(),
		article.AuthorID.String(),
		categoryID,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.Tags,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("ARTICLE_DUPLICATE").
				With("slug", article.Slug).
				With("title", article.Title).
				Wrap(content.ErrConflict)
		}
		return oops.Code("ARTICLE_INSERT_FAILED").
			With("operation", "insert article").
			With("slug", article.Slug).
			Wrap(err)
	}
	return nil
}

// GetBySlug retrieves an article by slug.
func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*content.Article, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE slug = $1
	`, slug)

	article, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ARTICLE_NOT_FOUND").
			With("slug", slug).
			Wrap(content.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ARTICLE_GET_BY_SLUG_FAILED").
			With("operation", "get article by slug").
			With("slug", slug).
			Wrap(err)
	}
	return article, nil
}

// GetByAuthorAndTitle retrieves an author's article by exact title.
func (r *ArticleRepository) GetByAuthorAndTitle(ctx context.Context, authorID ulid.ULID, title string) (*content.Article, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE author_id = $1 AND title = $2
	`, authorID.String(), title)

	article, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ARTICLE_NOT_FOUND").
			With("author_id", authorID.String()).
			With("title", title).
			Wrap(content.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ARTICLE_GET_BY_AUTHOR_TITLE_FAILED").
			With("operation", "get article by author and title").
			With("author_id", authorID.String()).
			Wrap(err)
	}
	return article, nil
}

// List returns one page of articles matching the filter, newest first,
// along with the total match count.
func (r *ArticleRepository) List(ctx context.Context, filter content.SearchFilter, limit, offset int) ([]content.Article, int, error) {
	where, args := buildFilter(filter)

	countSQL := `SELECT COUNT(*) FROM articles a ` + authorJoin(filter) + where
	var total int
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, oops.Code("ARTICLE_LIST_FAILED").
			With("operation", "count articles").
			Wrap(err)
	}

	listSQL := fmt.Sprintf(`
		SELECT a.id, a.author_id, a.category_id, a.slug, a.title,
		       a.description, a.body, a.tags, a.created_at, a.updated_at
		FROM articles a %s%s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d
	`, authorJoin(filter), where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, oops.Code("ARTICLE_LIST_FAILED").
			With("operation", "list articles").
			Wrap(err)
	}
	defer rows.Close()

	var articles []content.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, oops.Code("ARTICLE_LIST_FAILED").
				With("operation", "scan article row").
				Wrap(err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, oops.Code("ARTICLE_LIST_FAILED").
			With("operation", "iterate articles").
			Wrap(err)
	}
	return articles, total, nil
}

// Update updates an existing article.
func (r *ArticleRepository) Update(ctx context.Context, article *content.Article) error {
	var categoryID *string
	if article.CategoryID != nil {
		s := article.CategoryID.String()
		categoryID = &s
	}

	result, err := r.db.Exec(ctx, `
		UPDATE articles SET
			category_id = $2,
			title = $3,
			description = $4,
			body = $5,
			tags = $6,
			updated_at = $7
		WHERE id = $1
	`,
		article.ID.String(),
		categoryID,
		article.Title,
		article.Description,
		article.Body,
		article.Tags,
		article.UpdatedAt,
	)
	if err != nil {
		return oops.Code("ARTICLE_UPDATE_FAILED").
			With("operation", "update article").
			With("id", article.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ARTICLE_NOT_FOUND").
			With("id", article.ID.String()).
			Wrap(content.ErrNotFound)
	}
	return nil
}

// Delete removes an article.
func (r *ArticleRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM articles WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("ARTICLE_DELETE_FAILED").
			With("operation", "delete article").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ARTICLE_NOT_FOUND").
			With("id", id.String()).
			Wrap(content.ErrNotFound)
	}
	return nil
}

// authorJoin returns the profiles join clause when the filter needs it.
func authorJoin(filter content.SearchFilter) string {
	if filter.Author == "" {
		return ""
	}
	return `JOIN profiles p ON p.user_id = a.author_id `
}

// buildFilter assembles the WHERE clause and positional args for a
// search filter. Text filters match case-insensitive substrings.
func buildFilter(filter content.SearchFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		conds = append(conds, fmt.Sprintf("(a.title ILIKE %s OR a.description ILIKE %s)", p, p))
	}
	if filter.Author != "" {
		p := arg("%" + filter.Author + "%")
		conds = append(conds, fmt.Sprintf(
			"(p.username ILIKE %s OR p.firstname ILIKE %s OR p.lastname ILIKE %s)", p, p, p))
	}
	if filter.Tag != "" {
		p := arg("%" + filter.Tag + "%")
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(a.tags) tag WHERE tag ILIKE %s)", p))
	}
	if filter.CategoryID != nil {
		conds = append(conds, fmt.Sprintf("a.category_id = %s", arg(filter.CategoryID.String())))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// scanArticle scans a single row into an Article.
// Callers are responsible for handling pgx.ErrNoRows.
func scanArticle(row pgx.Row) (*content.Article, error) {
	var (
		idStr         string
		authorIDStr   string
		categoryIDStr *string
		a             content.Article
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(
		&idStr,
		&authorIDStr,
		&categoryIDStr,
		&a.Slug,
		&a.Title,
		&a.Description,
		&a.Body,
		&a.Tags,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ARTICLE_SCAN_FAILED").
			With("operation", "scan article").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ARTICLE_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	authorID, err := ulid.Parse(authorIDStr)
	if err != nil {
		return nil, oops.Code("ARTICLE_INVALID_AUTHOR_ID").
			With("author_id", authorIDStr).
			Wrap(err)
	}
	if categoryIDStr != nil {
		parsed, err := ulid.Parse(*categoryIDStr)
		if err != nil {
			return nil, oops.Code("ARTICLE_INVALID_CATEGORY_ID").
				With("category_id", *categoryIDStr).
				Wrap(err)
		}
		a.CategoryID = &parsed
	}

	a.ID = id
	a.AuthorID = authorID
	a.CreatedAt = createdAt
	a.UpdatedAt = updatedAt
	return &a, nil
}

// Compile-time interface check.
var _ content.ArticleRepository = (*ArticleRepository)(nil)
