package service

import (
	"context"
	"testing"
	"time"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedComment(t *testing.T, db *gorm.DB, postID, userID uint, created time.Time, blocked bool) {
	t.Helper()
	require.NoError(t, db.Create(&models.Comment{
		Text:      "c",
		PostID:    postID,
		AuthorID:  userID,
		IsBlocked: blocked,
		DtCreated: created,
	}).Error)
}

func TestDailyBreakdown(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(repository.NewCommentRepository(db))
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	post := &models.Post{Title: strPtr("a post")}
	require.NoError(t, db.Create(post).Error)

	day1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 8, 12, 23, 30, 0, 0, time.UTC)

	// two on day1 (one blocked), one late on day3, one outside the range
	seedComment(t, db, post.ID, user.ID, day1, false)
	seedComment(t, db, post.ID, user.ID, day1.Add(2*time.Hour), true)
	seedComment(t, db, post.ID, user.ID, day3, false)
	seedComment(t, db, post.ID, user.ID, day3.AddDate(0, 0, 2), false)

	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)

	rows, err := svc.DailyBreakdown(ctx, from, to)
	require.NoError(t, err)

	// day2 had no comments and is omitted; day3 is included because the
	// range is inclusive of date_to's whole day
	require.Len(t, rows, 2)
	assert.Equal(t, DailyBreakdownRow{Date: "2026-08-10", CommentsCreated: 2, CommentsBlocked: 1}, rows[0])
	assert.Equal(t, DailyBreakdownRow{Date: "2026-08-12", CommentsCreated: 1, CommentsBlocked: 0}, rows[1])
}

func TestDailyBreakdownSingleDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(repository.NewCommentRepository(db))
	ctx := context.Background()

	user := &models.User{Username: "bob", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	post := &models.Post{Title: strPtr("single")}
	require.NoError(t, db.Create(post).Error)

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	seedComment(t, db, post.ID, user.ID, day.Add(10*time.Hour), false)

	rows, err := svc.DailyBreakdown(ctx, day, day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-08-15", rows[0].Date)
}

func TestDailyBreakdownInvalidRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(repository.NewCommentRepository(db))

	from := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.DailyBreakdown(context.Background(), from, to)
	assert.Equal(t, models.CodeInvalidRange, models.CodeOf(err))
}

func TestDailyBreakdownEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAnalyticsService(repository.NewCommentRepository(db))

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows, err := svc.DailyBreakdown(context.Background(), from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
