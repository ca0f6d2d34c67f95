package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/profanity"
	"quill/internal/repository"

	"github.com/google/uuid"
)

// PostService implements the post store: CRUD with title uniqueness, the
// blocked-flag recompute on every save, and image attachment.
type PostService struct {
	postRepo  repository.PostRepository
	detector  profanity.Detector
	mediaRoot string
}

// PostInput carries the mutable fields of a post. Both are optional.
type PostInput struct {
	Title   *string
	Content *string
}

// NewPostService creates a PostService.
func NewPostService(postRepo repository.PostRepository, detector profanity.Detector, mediaRoot string) *PostService {
	return &PostService{postRepo: postRepo, detector: detector, mediaRoot: mediaRoot}
}

// refreshBlocked recomputes the blocked flag from the post's current title
// and content. Invoked before every persist, per the store's invariant.
func (s *PostService) refreshBlocked(post *models.Post) {
	was := post.IsBlocked
	post.IsBlocked = s.detector.IsProfane(post.TitleOrEmpty()) || s.detector.IsProfane(post.ContentOrEmpty())
	if post.IsBlocked && !was {
		observability.BlockedContentTotal.WithLabelValues("post").Inc()
	}
}

// Create persists a new post. A non-empty title must not collide with any
// existing post's title.
func (s *PostService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	if in.Title != nil {
		taken, err := s.postRepo.TitleTaken(ctx, *in.Title, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("Post title already taken")
		}
	}

	post := &models.Post{Title: in.Title, Content: in.Content}
	s.refreshBlocked(post)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns the post, hiding blocked posts behind a BLOCKED error.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.IsBlocked {
		return nil, models.NewBlockedError("Post")
	}
	return post, nil
}

// ListActive returns all posts that are not blocked.
func (s *PostService) ListActive(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.ListActive(ctx)
}

// Update mutates title and content. The title may stay the same, but must not
// collide with a different post's title.
func (s *PostService) Update(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	if in.Title != nil {
		taken, err := s.postRepo.TitleTaken(ctx, *in.Title, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("Post title already taken")
		}
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Content = in.Content
	s.refreshBlocked(post)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post and all comments on it.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

// AttachImage stores the uploaded file under the media root and records the
// reference on the post. The filename embeds the post id, a timestamp, and a
// short random suffix so repeated uploads never collide.
func (s *PostService) AttachImage(ctx context.Context, id uint, filename string, file io.Reader) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.mediaRoot, "posts", "title_photo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, models.NewInternalError(err)
	}

	name := fmt.Sprintf("posts_%d_%s_%s%s",
		post.ID,
		time.Now().UTC().Format("20060102_150405"),
		strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		strings.ToLower(filepath.Ext(filename)),
	)

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return nil, models.NewInternalError(err)
	}

	post.Photo = filepath.ToSlash(filepath.Join("posts", "title_photo", name))
	s.refreshBlocked(post)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}
