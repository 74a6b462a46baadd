// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/inkwell/inkwell/internal/content"
)

// RatingRepository implements content.RatingRepository using PostgreSQL.
type RatingRepository struct {
	db DB
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert inserts or replaces the user's rating for an article.
func (r *RatingRepository) Upsert(ctx context.Context, rating *content.Rating) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ratings (id, article_id, user_id, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (article_id, user_id)
		DO UPDATE SET score = $4, updated_at = $6
	`,
		rating.ID.String(),
		rating.ArticleID.String(),
		rating.UserID.String(),
		rating.Score,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		return oops.Code("RATING_UPSERT_FAILED").
			With("operation", "upsert rating").
			With("article_id", rating.ArticleID.String()).
			Wrap(err)
	}
	return nil
}

// Average returns the mean score and rating count for an article.
// Unrated articles report a zero average.
func (r *RatingRepository) Average(ctx context.Context, articleID ulid.ULID) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM ratings
		WHERE article_id = $1
	`, articleID.String()).Scan(&avg, &count)
	if err != nil {
		return 0, 0, oops.Code("RATING_AVERAGE_FAILED").
			With("operation", "average rating").
			With("article_id", articleID.String()).
			Wrap(err)
	}
	return avg, count, nil
}

// Compile-time interface check.
var _ content.RatingRepository = (*RatingRepository)(nil)

// LikeRepository implements content.LikeRepository using PostgreSQL.
type LikeRepository struct {
	db DB
}

// NewLikeRepository creates a new LikeRepository.
func NewLikeRepository(db DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Upsert inserts or replaces the user's reaction to an article.
func (r *LikeRepository) Upsert(ctx context.Context, like *content.Like) error {
	now := time.Now()
	_, err := r.db.Exec(ctx, `
		INSERT INTO likes (id, article_id, user_id, liked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (article_id, user_id)
		DO UPDATE SET liked = $4, updated_at = $5
	`,
		like.ID.String(),
		like.ArticleID.String(),
		like.UserID.String(),
		like.Liked,
		now,
	)
	if err != nil {
		return oops.Code("LIKE_UPSERT_FAILED").
			With("operation", "upsert like").
			With("article_id", like.ArticleID.String()).
			Wrap(err)
	}
	return nil
}

// Counts returns how many users liked and disliked an article.
func (r *LikeRepository) Counts(ctx context.Context, articleID ulid.ULID) (int, int, error) {
	var likes, dislikes int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE liked),
		       COUNT(*) FILTER (WHERE NOT liked)
		FROM likes
		WHERE article_id = $1
	`, articleID.String()).Scan(&likes, &dislikes)
	if err != nil {
		return 0, 0, oops.Code("LIKE_COUNTS_FAILED").
			With("operation", "count likes").
			With("article_id", articleID.String()).
			Wrap(err)
	}
	return likes, dislikes, nil
}

// Compile-time interface check.
var _ content.LikeRepository = (*LikeRepository)(nil)

// ReportRepository implements content.ReportRepository using PostgreSQL.
type ReportRepository struct {
	db DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create stores a report.
func (r *ReportRepository) Create(ctx context.Context, report *content.Report) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reports (id, article_id, user_id, report_type, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		report.ID.String(),
		report.ArticleID.String(),
		report.UserID.String(),
		string(report.Type),
		report.Comment,
		report.CreatedAt,
	)
	if err != nil {
		return oops.Code("REPORT_CREATE_FAILED").
			With("operation", "insert report").
			With("article_id", report.ArticleID.String()).
			Wrap(err)
	}
	return nil
}

// ListByArticle returns all reports filed against an article, newest
// first.
func (r *ReportRepository) ListByArticle(ctx context.Context, articleID ulid.ULID) ([]content.Report, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, article_id, user_id, report_type, comment, created_at
		FROM reports
		WHERE article_id = $1
		ORDER BY created_at DESC
	`, articleID.String())
	if err != nil {
		return nil, oops.Code("REPORT_LIST_FAILED").
			With("operation", "list reports").
			With("article_id", articleID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var reports []content.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, oops.Code("REPORT_LIST_FAILED").
				With("operation", "scan report row").
				Wrap(err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("REPORT_LIST_FAILED").
			With("operation", "iterate reports").
			Wrap(err)
	}
	return reports, nil
}

func scanReport(row pgx.Row) (*content.Report, error) {
	var (
		idStr        string
		articleIDStr string
		userIDStr    string
		reportType   string
		rep          content.Report
	)
	err := row.Scan(&idStr, &articleIDStr, &userIDStr, &reportType, &rep.Comment, &rep.CreatedAt)
	if err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("REPORT_INVALID_ID").With("id", idStr).Wrap(err)
	}
	articleID, err := ulid.Parse(articleIDStr)
	if err != nil {
		return nil, oops.Code("REPORT_INVALID_ARTICLE_ID").With("article_id", articleIDStr).Wrap(err)
	}
	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("REPORT_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
	}

	rep.ID = id
	rep.ArticleID = articleID
	rep.UserID = userID
	rep.Type = content.ReportType(reportType)
	return &rep, nil
}

// Compile-time interface check.
var _ content.ReportRepository = (*ReportRepository)(nil)
