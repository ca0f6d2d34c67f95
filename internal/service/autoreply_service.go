package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/profanity"
	"quill/internal/repository"
)

// ReplyScheduler defers an auto-reply run to a later time.
type ReplyScheduler interface {
	Schedule(ctx context.Context, postID, userID uint, runAt time.Time) error
}

// AutoReplyService turns auto-reply on for a post and, when the deferred job
// fires, answers every comment the requesting user had on the post at that
// moment.
type AutoReplyService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	detector    profanity.Detector
	scheduler   ReplyScheduler
}

// NewAutoReplyService creates an AutoReplyService.
func NewAutoReplyService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	detector profanity.Detector,
	scheduler ReplyScheduler,
) *AutoReplyService {
	return &AutoReplyService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		detector:    detector,
		scheduler:   scheduler,
	}
}

// Enable flags the post for auto-reply and schedules the reply job hours from
// now on behalf of the given user. Blocked posts cannot enable auto-reply.
func (s *AutoReplyService) Enable(ctx context.Context, postID, userID uint, hours int) error {
	if hours < 0 {
		return models.NewValidationError("Hours must not be negative")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.IsBlocked {
		return models.NewBlockedError("Post")
	}

	if err := s.postRepo.SetAutoReply(ctx, postID, true); err != nil {
		return err
	}

	runAt := time.Now().Add(time.Duration(hours) * time.Hour)
	if err := s.scheduler.Schedule(ctx, postID, userID, runAt); err != nil {
		return models.NewInternalError(err)
	}

	middleware.Logger.Info("auto-reply scheduled",
		slog.Uint64("post_id", uint64(postID)),
		slog.Uint64("user_id", uint64(userID)),
		slog.Time("run_at", runAt))
	return nil
}

// Execute runs the deferred job: it replies once to each comment the user had
// on the post when the job fires, then clears the auto-reply flag. The post
// and user must still exist; if either was deleted the job fails.
func (s *AutoReplyService) Execute(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("load post %d: %w", postID, err)
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("load user %d: %w", userID, err)
	}

	// Snapshot before inserting so the generated replies are never replied to.
	comments, err := s.commentRepo.ListByAuthorAndPost(ctx, userID, postID)
	if err != nil {
		return fmt.Errorf("list comments for post %d: %w", postID, err)
	}

	text := fmt.Sprintf("Thank you for your comment on '%s'. We appreciate your feedback!", post.TitleOrEmpty())
	for _, comment := range comments {
		parentID := comment.ID
		reply := &models.Comment{
			Text:     text,
			PostID:   postID,
			AuthorID: userID,
			ParentID: &parentID,
		}
		reply.IsBlocked = s.detector.IsProfane(reply.Text)
		if err := s.commentRepo.Create(ctx, reply); err != nil {
			return fmt.Errorf("create reply to comment %d: %w", comment.ID, err)
		}
		observability.AutoRepliesCreatedTotal.Inc()
	}

	if err := s.postRepo.SetAutoReply(ctx, postID, false); err != nil {
		return fmt.Errorf("clear auto-reply flag on post %d: %w", postID, err)
	}

	middleware.Logger.Info("auto-reply job completed",
		slog.Uint64("post_id", uint64(postID)),
		slog.Int("replies_created", len(comments)))
	return nil
}
