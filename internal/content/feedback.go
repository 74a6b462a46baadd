// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package content

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Rating score bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one user's score for an article. A user has at most one
// rating per article; re-rating replaces the previous score.
type Rating struct {
	ID        ulid.ULID
	ArticleID ulid.ULID
	UserID    ulid.ULID
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRating creates a rating after checking the score bounds.
func NewRating(articleID, userID ulid.ULID, score int) (*Rating, error) {
	if score < MinRating || score > MaxRating {
		return nil, oops.Code("RATING_OUT_OF_RANGE").
			With("score", score).
			Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	now := time.Now().UTC()
	return &Rating{
		ID:        ulid.Make(),
		ArticleID: articleID,
		UserID:    userID,
		Score:     score,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RatingRepository stores ratings.
type RatingRepository interface {
	// Upsert inserts or replaces the user's rating for the article.
	Upsert(ctx context.Context, rating *Rating) error
	Average(ctx context.Context, articleID ulid.ULID) (float64, int, error)
}

// Like records one user's like or dislike of an article. Liking again
// flips the stored value rather than adding a row.
type Like struct {
	ID        ulid.ULID
	ArticleID ulid.ULID
	UserID    ulid.ULID
	Liked     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikeRepository stores likes and dislikes.
type LikeRepository interface {
	Upsert(ctx context.Context, like *Like) error
	Counts(ctx context.Context, articleID ulid.ULID) (likes, dislikes int, err error)
}

// ReportType classifies an article report.
type ReportType string

// Accepted report types.
const (
	ReportSpam       ReportType = "spam"
	ReportPlagiarism ReportType = "plagiarism"
	ReportViolation  ReportType = "rules violation"
	ReportOther      ReportType = "others"
)

// ValidReportType reports whether t is one of the accepted types.
func ValidReportType(t ReportType) bool {
	switch t {
	case ReportSpam, ReportPlagiarism, ReportViolation, ReportOther:
		return true
	}
	return false
}

// Report flags an article for moderator attention.
type Report struct {
	ID        ulid.ULID
	ArticleID ulid.ULID
	UserID    ulid.ULID
	Type      ReportType
	Comment   string
	CreatedAt time.Time
}

// NewReport creates a report after checking the type.
func NewReport(articleID, userID ulid.ULID, reportType ReportType, comment string) (*Report, error) {
	if !ValidReportType(reportType) {
		return nil, oops.Code("REPORT_TYPE_INVALID").
			With("type", string(reportType)).
			Errorf("unknown report type")
	}
	return &Report{
		ID:        ulid.Make(),
		ArticleID: articleID,
		UserID:    userID,
		Type:      reportType,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ReportRepository stores reports.
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	ListByArticle(ctx context.Context, articleID ulid.ULID) ([]Report, error)
}
