package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/repository"
)

const dateLayout = "2006-01-02"

// DailyBreakdownRow is one calendar date's comment counts.
type DailyBreakdownRow struct {
	Date            string `json:"date"`
	CommentsCreated int    `json:"comments_created"`
	CommentsBlocked int    `json:"comments_blocked"`
}

// AnalyticsService aggregates comment activity by calendar date.
type AnalyticsService struct {
	commentRepo repository.CommentRepository
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(commentRepo repository.CommentRepository) *AnalyticsService {
	return &AnalyticsService{commentRepo: commentRepo}
}

// DailyBreakdown groups all comments created within the inclusive date range
// [from, to] by UTC calendar date, counting total and blocked comments per
// date. Dates without comments are omitted; rows are ordered ascending.
//
// The aggregation runs in Go over one range-filtered query because date
// bucketing SQL is not portable between PostgreSQL and SQLite. Results are
// cached briefly, best-effort.
func (s *AnalyticsService) DailyBreakdown(ctx context.Context, from, to time.Time) ([]DailyBreakdownRow, error) {
	if to.Before(from) {
		return nil, models.NewInvalidRangeError("date_to has to be more than date_from")
	}

	var rows []DailyBreakdownRow
	key := fmt.Sprintf("analytics:daily:%s:%s", from.Format(dateLayout), to.Format(dateLayout))
	err := cache.CacheAside(ctx, key, &rows, time.Minute, func() error {
		comments, err := s.commentRepo.ListCreatedBetween(ctx, from, to.AddDate(0, 0, 1))
		if err != nil {
			return err
		}

		byDate := make(map[string]*DailyBreakdownRow)
		for _, comment := range comments {
			date := comment.DtCreated.UTC().Format(dateLayout)
			row, ok := byDate[date]
			if !ok {
				row = &DailyBreakdownRow{Date: date}
				byDate[date] = row
			}
			row.CommentsCreated++
			if comment.IsBlocked {
				row.CommentsBlocked++
			}
		}

		rows = make([]DailyBreakdownRow, 0, len(byDate))
		for _, row := range byDate {
			rows = append(rows, *row)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
