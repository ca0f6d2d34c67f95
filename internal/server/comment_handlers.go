package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/comment/create
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Text     string `json:"text"`
		PostID   uint   `json:"post_id"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := c.Locals("userID").(uint)
	comment, err := s.commentService.Create(c.Context(), service.CreateCommentInput{
		Text:     req.Text,
		PostID:   req.PostID,
		AuthorID: userID,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment handles GET /api/posts/comment/detail/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	comment, err := s.commentService.Get(c.Context(), uint(id))
	if err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(comment)
}

// GetComments handles GET /api/posts/comment/list
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListActive(c.Context())
	if err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(comments)
}

// UpdateComment handles PUT /api/posts/comment/update/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	var req struct {
		Text   string `json:"text"`
		PostID uint   `json:"post_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Update(c.Context(), service.UpdateCommentInput{
		CommentID: uint(id),
		Text:      req.Text,
		PostID:    req.PostID,
	})
	if err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/posts/comment/delete/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	if err := s.commentService.Delete(c.Context(), uint(id)); err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(fiber.Map{"message": "Comment was successfully deleted"})
}
