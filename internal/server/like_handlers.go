package server

import (
	"anonboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/posts/:id/likes. If the (post, user)
// like row exists it is removed, otherwise inserted; the response always
// carries the freshly recomputed count.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID := c.Params("id")

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	result, err := s.board.ToggleLike(ctx, postID, req.UserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(result)
}
