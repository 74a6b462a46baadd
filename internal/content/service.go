// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import (
	"context"
	"errors"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ArticleView is an article enriched with derived read-only data for
// responses.
type ArticleView struct {
	Article
	ReadTime      string  `json:"readTime"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
	Likes         int     `json:"likes"`
	Dislikes      int     `json:"dislikes"`
}

// ArticleList is one page of article views.
type ArticleList struct {
	Articles []ArticleView `json:"articles"`
	Page     Page          `json:"page"`
}

// Service orchestrates article operations over the content repositories.
type Service struct {
	articles   ArticleRepository
	categories CategoryRepository
	ratings    RatingRepository
	likes      LikeRepository
	reports    ReportRepository
	logger     *slog.Logger
}

// NewService creates the content service. All repositories are required.
func NewService(
	articles ArticleRepository,
	categories CategoryRepository,
	ratings RatingRepository,
	likes LikeRepository,
	reports ReportRepository,
	logger *slog.Logger,
) (*Service, error) {
	if articles == nil {
		return nil, oops.Errorf("article repository is required")
	}
	if categories == nil {
		return nil, oops.Errorf("category repository is required")
	}
	if ratings == nil {
		return nil, oops.Errorf("rating repository is required")
	}
	if likes == nil {
		return nil, oops.Errorf("like repository is required")
	}
	if reports == nil {
		return nil, oops.Errorf("report repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		articles:   articles,
		categories: categories,
		ratings:    ratings,
		likes:      likes,
		reports:    reports,
		logger:     logger,
	}, nil
}

// Draft is the author-supplied content for a new article.
type Draft struct {
	Title       string
	Description string
	Body        string
	Tags        []string
	CategoryID  *ulid.ULID
}

// CreateArticle publishes a new article. An author cannot hold two
// articles with the same title.
func (s *Service) CreateArticle(ctx context.Context, authorID ulid.ULID, draft Draft) (*ArticleView, error) {
	errCtx := oops.Code("ARTICLE_CREATE_FAILED").
		With("operation", "content.Service.CreateArticle")

	existing, err := s.articles.GetByAuthorAndTitle(ctx, authorID, draft.Title)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, errCtx.With("step", "duplicate check").Wrap(err)
	}
	if existing != nil {
		return nil, oops.Code("ARTICLE_TITLE_TAKEN").
			With("title", draft.Title).
			Wrap(ErrConflict)
	}

	if draft.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *draft.CategoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, oops.Code("ARTICLE_CATEGORY_UNKNOWN").Wrap(err)
			}
			return nil, errCtx.With("step", "category lookup").Wrap(err)
		}
	}

	article, err := NewArticle(authorID, draft.Title, draft.Description, draft.Body)
	if err != nil {
		return nil, errCtx.Wrap(err)
	}
	article.CategoryID = draft.CategoryID
	article.Tags = draft.Tags

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, errCtx.With("step", "insert").Wrap(err)
	}

	s.logger.InfoContext(ctx, "article created",
		"article_id", article.ID.String(),
		"author_id", authorID.String(),
		"slug", article.Slug,
	)
	return &ArticleView{Article: *article, ReadTime: ReadTime(article.Body)}, nil
}

// GetArticle fetches one article by slug, with its derived data.
func (s *Service) GetArticle(ctx context.Context, slug string) (*ArticleView, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("ARTICLE_GET_FAILED").With("slug", slug).Wrap(err)
	}
	return s.view(ctx, article)
}

// ListArticles returns one page of articles matching the filter.
func (s *Service) ListArticles(ctx context.Context, filter SearchFilter, limit, offset int) (*ArticleList, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	articles, total, err := s.articles.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, oops.Code("ARTICLE_LIST_FAILED").
			With("operation", "content.Service.ListArticles").
			Wrap(err)
	}

	views := make([]ArticleView, 0, len(articles))
	for i := range articles {
		views = append(views, ArticleView{
			Article:  articles[i],
			ReadTime: ReadTime(articles[i].Body),
		})
	}
	return &ArticleList{
		Articles: views,
		Page:     NewPage(limit, offset, len(views), total),
	}, nil
}

// RateArticle records or replaces the user's score for an article.
func (s *Service) RateArticle(ctx context.Context, slug string, userID ulid.ULID, score int) (*ArticleView, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("ARTICLE_RATE_FAILED").With("slug", slug).Wrap(err)
	}

	rating, err := NewRating(article.ID, userID, score)
	if err != nil {
		return nil, err
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, oops.Code("ARTICLE_RATE_FAILED").
			With("article_id", article.ID.String()).
			Wrap(err)
	}
	return s.view(ctx, article)
}

// LikeArticle records that the user liked the article; liked=false
// records a dislike. Repeated calls replace the previous reaction.
func (s *Service) LikeArticle(ctx context.Context, slug string, userID ulid.ULID, liked bool) (*ArticleView, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("ARTICLE_LIKE_FAILED").With("slug", slug).Wrap(err)
	}

	like := &Like{
		ID:        ulid.Make(),
		ArticleID: article.ID,
		UserID:    userID,
		Liked:     liked,
	}
	if err := s.likes.Upsert(ctx, like); err != nil {
		return nil, oops.Code("ARTICLE_LIKE_FAILED").
			With("article_id", article.ID.String()).
			Wrap(err)
	}
	return s.view(ctx, article)
}

// ReportArticle files a report against an article.
func (s *Service) ReportArticle(ctx context.Context, slug string, userID ulid.ULID, reportType ReportType, comment string) (*Report, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("ARTICLE_REPORT_FAILED").With("slug", slug).Wrap(err)
	}

	report, err := NewReport(article.ID, userID, reportType, comment)
	if err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, oops.Code("ARTICLE_REPORT_FAILED").
			With("article_id", article.ID.String()).
			Wrap(err)
	}
	s.logger.InfoContext(ctx, "article reported",
		"article_id", article.ID.String(),
		"type", string(reportType),
	)
	return report, nil
}

// view assembles the derived fields for one article. Rating and like
// lookups are best effort; a failure there degrades to zeros rather
// than failing the read.
func (s *Service) view(ctx context.Context, article *Article) (*ArticleView, error) {
	v := &ArticleView{Article: *article, ReadTime: ReadTime(article.Body)}

	if avg, count, err := s.ratings.Average(ctx, article.ID); err == nil {
		v.AverageRating = avg
		v.RatingCount = count
	} else {
		s.logger.WarnContext(ctx, "rating aggregate unavailable",
			"article_id", article.ID.String(),
			"error", err,
		)
	}
	if likes, dislikes, err := s.likes.Counts(ctx, article.ID); err == nil {
		v.Likes = likes
		v.Dislikes = dislikes
	} else {
		s.logger.WarnContext(ctx, "like counts unavailable",
			"article_id", article.ID.String(),
			"error", err,
		)
	}
	return v, nil
}
