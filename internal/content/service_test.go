// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArticles struct {
	byAuthorAndTitle func(ctx context.Context, authorID ulid.ULID, title string) (*Article, error)
	bySlug           func(ctx context.Context, slug string) (*Article, error)
	create           func(ctx context.Context, article *Article) error
	list             func(ctx context.Context, filter SearchFilter, limit, offset int) ([]Article, int, error)
}

func (s *stubArticles) Create(ctx context.Context, a *Article) error {
	if s.create != nil {
		return s.create(ctx, a)
	}
	return nil
}

func (s *stubArticles) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	if s.bySlug != nil {
		return s.bySlug(ctx, slug)
	}
	return nil, ErrNotFound
}

func (s *stubArticles) GetByAuthorAndTitle(ctx context.Context, authorID ulid.ULID, title string) (*Article, error) {
	if s.byAuthorAndTitle != nil {
		return s.byAuthorAndTitle(ctx, authorID, title)
	}
	return nil, ErrNotFound
}

func (s *stubArticles) List(ctx context.Context, filter SearchFilter, limit, offset int) ([]Article, int, error) {
	if s.list != nil {
		return s.list(ctx, filter, limit, offset)
	}
	return nil, 0, nil
}

func (s *stubArticles) Update(context.Context, *Article) error  { return nil }
func (s *stubArticles) Delete(context.Context, ulid.ULID) error { return nil }

type stubCategories struct{}

func (stubCategories) Create(context.Context, *Category) error { return nil }
func (stubCategories) GetByID(context.Context, ulid.ULID) (*Category, error) {
	return nil, ErrNotFound
}
func (stubCategories) List(context.Context) ([]Category, error) { return nil, nil }

type stubRatings struct {
	upserted []*Rating
}

func (s *stubRatings) Upsert(_ context.Context, r *Rating) error {
	s.upserted = append(s.upserted, r)
	return nil
}

func (s *stubRatings) Average(context.Context, ulid.ULID) (float64, int, error) {
	var sum int
	for _, r := range s.upserted {
		sum += r.Score
	}
	if len(s.upserted) == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(len(s.upserted)), len(s.upserted), nil
}

type stubLikes struct {
	upserted []*Like
}

func (s *stubLikes) Upsert(_ context.Context, l *Like) error {
	s.upserted = append(s.upserted, l)
	return nil
}

func (s *stubLikes) Counts(context.Context, ulid.ULID) (int, int, error) {
	var likes, dislikes int
	for _, l := range s.upserted {
		if l.Liked {
			likes++
		} else {
			dislikes++
		}
	}
	return likes, dislikes, nil
}

type stubReports struct {
	created []*Report
}

func (s *stubReports) Create(_ context.Context, r *Report) error {
	s.created = append(s.created, r)
	return nil
}

func (s *stubReports) ListByArticle(context.Context, ulid.ULID) ([]Report, error) {
	return nil, nil
}

func newTestService(t *testing.T, articles *stubArticles) (*Service, *stubRatings, *stubLikes, *stubReports) {
	t.Helper()
	ratings := &stubRatings{}
	likes := &stubLikes{}
	reports := &stubReports{}
	svc, err := NewService(articles, stubCategories{}, ratings, likes, reports, nil)
	require.NoError(t, err)
	return svc, ratings, likes, reports
}

func TestCreateArticle(t *testing.T) {
	ctx := context.Background()
	authorID := ulid.Make()

	t.Run("creates and slugs the article", func(t *testing.T) {
		var stored *Article
		articles := &stubArticles{
			create: func(_ context.Context, a *Article) error {
				stored = a
				return nil
			},
		}
		svc, _, _, _ := newTestService(t, articles)

		view, err := svc.CreateArticle(ctx, authorID, Draft{
			Title: "Hello World",
			Body:  "a short body",
		})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Hello World", view.Title)
		assert.Contains(t, view.Slug, "hello-world-")
		assert.Equal(t, "1 minute read", view.ReadTime)
		assert.Equal(t, authorID, stored.AuthorID)
	})

	t.Run("rejects a duplicate title for the same author", func(t *testing.T) {
		existing := &Article{ID: ulid.Make(), AuthorID: authorID, Title: "Hello World"}
		articles := &stubArticles{
			byAuthorAndTitle: func(context.Context, ulid.ULID, string) (*Article, error) {
				return existing, nil
			},
		}
		svc, _, _, _ := newTestService(t, articles)

		_, err := svc.CreateArticle(ctx, authorID, Draft{Title: "Hello World", Body: "b"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate-check store failure is not a conflict", func(t *testing.T) {
		articles := &stubArticles{
			byAuthorAndTitle: func(context.Context, ulid.ULID, string) (*Article, error) {
				return nil, errors.New("connection reset")
			},
		}
		svc, _, _, _ := newTestService(t, articles)

		_, err := svc.CreateArticle(ctx, authorID, Draft{Title: "Hello World", Body: "b"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrConflict)

		oopsErr, ok := oops.AsOops(err)
		require.True(t, ok)
		assert.Equal(t, "ARTICLE_CREATE_FAILED", oopsErr.Code())
	})
}

func TestRateArticle(t *testing.T) {
	ctx := context.Background()
	article := &Article{ID: ulid.Make(), Slug: "hello-world-abc123", Title: "Hello World", Body: "b"}
	articles := &stubArticles{
		bySlug: func(_ context.Context, slug string) (*Article, error) {
			if slug == article.Slug {
				return article, nil
			}
			return nil, ErrNotFound
		},
	}

	t.Run("records the score and aggregates", func(t *testing.T) {
		svc, ratings, _, _ := newTestService(t, articles)

		view, err := svc.RateArticle(ctx, article.Slug, ulid.Make(), 4)
		require.NoError(t, err)
		require.Len(t, ratings.upserted, 1)
		assert.Equal(t, 4, ratings.upserted[0].Score)
		assert.Equal(t, 4.0, view.AverageRating)
		assert.Equal(t, 1, view.RatingCount)
	})

	t.Run("rejects out-of-range scores", func(t *testing.T) {
		svc, ratings, _, _ := newTestService(t, articles)

		for _, score := range []int{0, 6, -1} {
			_, err := svc.RateArticle(ctx, article.Slug, ulid.Make(), score)
			require.Error(t, err, "score %d", score)
		}
		assert.Empty(t, ratings.upserted)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService(t, articles)

		_, err := svc.RateArticle(ctx, "missing", ulid.Make(), 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLikeArticle(t *testing.T) {
	ctx := context.Background()
	article := &Article{ID: ulid.Make(), Slug: "hello-world-abc123", Body: "b"}
	articles := &stubArticles{
		bySlug: func(context.Context, string) (*Article, error) { return article, nil },
	}
	svc, _, likes, _ := newTestService(t, articles)

	view, err := svc.LikeArticle(ctx, article.Slug, ulid.Make(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Likes)
	assert.Equal(t, 0, view.Dislikes)

	view, err = svc.LikeArticle(ctx, article.Slug, ulid.Make(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Likes)
	assert.Equal(t, 1, view.Dislikes)
	assert.Len(t, likes.upserted, 2)
}

func TestReportArticle(t *testing.T) {
	ctx := context.Background()
	article := &Article{ID: ulid.Make(), Slug: "hello-world-abc123", Body: "b"}
	articles := &stubArticles{
		bySlug: func(context.Context, string) (*Article, error) { return article, nil },
	}

	t.Run("accepts a known report type", func(t *testing.T) {
		svc, _, _, reports := newTestService(t, articles)

		report, err := svc.ReportArticle(ctx, article.Slug, ulid.Make(), ReportSpam, "link farm")
		require.NoError(t, err)
		assert.Equal(t, ReportSpam, report.Type)
		assert.Len(t, reports.created, 1)
	})

	t.Run("rejects an unknown report type", func(t *testing.T) {
		svc, _, _, reports := newTestService(t, articles)

		_, err := svc.ReportArticle(ctx, article.Slug, ulid.Make(), ReportType("gossip"), "")
		require.Error(t, err)
		assert.Empty(t, reports.created)
	})
}

func TestListArticles(t *testing.T) {
	ctx := context.Background()
	stored := []Article{
		{ID: ulid.Make(), Title: "One", Body: "b"},
		{ID: ulid.Make(), Title: "Two", Body: "b"},
	}
	articles := &stubArticles{
		list: func(_ context.Context, _ SearchFilter, limit, offset int) ([]Article, int, error) {
			return stored, 12, nil
		},
	}
	svc, _, _, _ := newTestService(t, articles)

	list, err := svc.ListArticles(ctx, SearchFilter{}, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list.Articles, 2)
	assert.Equal(t, 12, list.Page.TotalCount)
	assert.Equal(t, 6, list.Page.Last)
	assert.Equal(t, "1-2 of 12", list.Page.Description)
}
