package server

import (
	"errors"

	"anonboard/internal/models"
	"anonboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetComments handles GET /api/posts/:id/comments, ascending by time.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID := c.Params("id")

	comments, err := s.board.ListComments(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID := c.Params("id")

	// Verify post exists
	if _, err := s.board.GetPost(ctx, postID, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("post", postID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	var req struct {
		Content       string `json:"content"`
		DisplayAuthor string `json:"display_author"`
		AuthorID      string `json:"author_id"`
		IsAdmin       bool   `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.board.CreateComment(ctx, service.CreateCommentInput{
		PostID:        postID,
		Content:       req.Content,
		DisplayAuthor: req.DisplayAuthor,
		AuthorID:      req.AuthorID,
		IsAdmin:       req.IsAdmin,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/posts/:id/comments?commentId=.
// As with posts, ownership is advisory only.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	postID := c.Params("id")
	commentID := c.Query("commentId")

	if commentID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("commentId is required"))
	}

	if err := s.board.DeleteComment(ctx, postID, commentID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"success": true})
}
