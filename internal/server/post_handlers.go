package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postInputFromBody parses the {title, content} body shared by create and
// update. Absent fields stay nil, which the store treats as NULL columns.
func postInputFromBody(c *fiber.Ctx) (service.PostInput, error) {
	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return service.PostInput{}, models.NewValidationError("Invalid request body")
	}
	return service.PostInput{Title: req.Title, Content: req.Content}, nil
}

// CreatePost handles POST /api/posts/create
//
// A taken title is reported as 404, matching the endpoint's published
// contract (the code field still says CONFLICT).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in, err := postInputFromBody(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postService.Create(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err, map[string]int{
			models.CodeConflict: fiber.StatusNotFound,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/detail/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	post, err := s.postService.Get(c.Context(), uint(id))
	if err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(post)
}

// GetPosts handles GET /api/posts/list
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListActive(c.Context())
	if err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/update/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	in, err := postInputFromBody(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	post, err := s.postService.Update(c.Context(), uint(id), in)
	if err != nil {
		return respondServiceError(c, err, map[string]int{
			models.CodeConflict: fiber.StatusBadRequest,
		})
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/delete/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	if err := s.postService.Delete(c.Context(), uint(id)); err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(fiber.Map{"message": "Post was successfully deleted"})
}

// UploadPostImage handles POST /api/posts/upload-image/:id
func (s *Server) UploadPostImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	if _, err := s.postService.AttachImage(c.Context(), uint(id), fileHeader.Filename, file); err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(fiber.Map{"message": "Image was successfully uploaded"})
}

// EnableAutoReply handles POST /api/posts/enable-auto-reply/:id
func (s *Server) EnableAutoReply(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Hours int `json:"hours"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID := c.Locals("userID").(uint)
	if err := s.autoReplyService.Enable(c.Context(), uint(id), userID, req.Hours); err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(fiber.Map{"message": "Auto reply was successfully enabled"})
}
