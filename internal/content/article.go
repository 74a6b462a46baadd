// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Article is one published or draft post.
type Article struct {
	ID          ulid.ULID
	AuthorID    ulid.ULID
	CategoryID  *ulid.ULID
	Slug        string
	Title       string
	Description string
	Body        string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewArticle creates an article with a generated ID and slug.
func NewArticle(authorID ulid.ULID, title, description, body string) (*Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, oops.Errorf("article title cannot be empty")
	}
	if strings.TrimSpace(body) == "" {
		return nil, oops.Errorf("article body cannot be empty")
	}

	id := ulid.Make()
	now := time.Now().UTC()
	return &Article{
		ID:          id,
		AuthorID:    authorID,
		Slug:        Slugify(title) + "-" + strings.ToLower(id.String()[len(id.String())-6:]),
		Title:       title,
		Description: strings.TrimSpace(description),
		Body:        body,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Slugify lowercases a title and replaces every non-alphanumeric run
// with a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// SearchFilter narrows article listings. Empty fields are ignored; text
// fields match case-insensitively as substrings.
type SearchFilter struct {
	Query      string
	Author     string
	Tag        string
	CategoryID *ulid.ULID
}

// ArticleRepository stores articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	// GetByAuthorAndTitle finds an author's article by exact title, used
	// to reject duplicate titles per author before insert.
	GetByAuthorAndTitle(ctx context.Context, authorID ulid.ULID, title string) (*Article, error)
	List(ctx context.Context, filter SearchFilter, limit, offset int) ([]Article, int, error)
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id ulid.ULID) error
}

// Category groups articles.
type Category struct {
	ID        ulid.ULID
	Name      string
	CreatedAt time.Time
}

// CategoryRepository stores categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id ulid.ULID) (*Category, error)
	List(ctx context.Context) ([]Category, error)
}
