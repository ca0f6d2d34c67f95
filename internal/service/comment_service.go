package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/profanity"
	"quill/internal/repository"
)

const maxCommentLen = 10000

// CommentService implements the comment store: threaded CRUD with the
// blocked-flag recompute on every save.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	detector    profanity.Detector
}

// CreateCommentInput carries the fields of a comment creation.
type CreateCommentInput struct {
	Text     string
	PostID   uint
	AuthorID uint
	ParentID *uint
}

// UpdateCommentInput carries the fields of a comment update.
type UpdateCommentInput struct {
	CommentID uint
	Text      string
	PostID    uint
}

// NewCommentService creates a CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	detector profanity.Detector,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		detector:    detector,
	}
}

func (s *CommentService) refreshBlocked(comment *models.Comment) {
	was := comment.IsBlocked
	comment.IsBlocked = s.detector.IsProfane(comment.Text)
	if comment.IsBlocked && !was {
		observability.BlockedContentTotal.WithLabelValues("comment").Inc()
	}
}

// Create persists a new comment on an existing post.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     in.Text,
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		ParentID: in.ParentID,
	}
	s.refreshBlocked(comment)
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Get returns the comment, hiding blocked comments behind a BLOCKED error.
func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.IsBlocked {
		return nil, models.NewBlockedError("Comment")
	}
	return comment, nil
}

// ListActive returns all comments that are not blocked.
func (s *CommentService) ListActive(ctx context.Context) ([]*models.Comment, error) {
	return s.commentRepo.ListActive(ctx)
}

// Update mutates a comment's text and post reference. Both the comment and
// the referenced post must exist.
func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	comment.Text = in.Text
	comment.PostID = in.PostID
	s.refreshBlocked(comment)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment and all replies under it.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	return s.commentRepo.Delete(ctx, id)
}
