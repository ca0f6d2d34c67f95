package server

import (
	"time"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CommentsDailyBreakdown handles GET /api/posts/comments-daily-breakdown
//
// Both date_from and date_to are required, formatted YYYY-MM-DD, and the
// range is inclusive on both ends.
func (s *Server) CommentsDailyBreakdown(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("date_from"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("date_from must be a valid YYYY-MM-DD date"))
	}
	to, err := time.Parse("2006-01-02", c.Query("date_to"))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("date_to must be a valid YYYY-MM-DD date"))
	}

	rows, err := s.analyticsService.DailyBreakdown(c.Context(), from, to)
	if err != nil {
		return respondServiceError(c, err, nil)
	}

	return c.JSON(rows)
}
