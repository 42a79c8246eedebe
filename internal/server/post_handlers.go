package server

import (
	"errors"
	"time"

	"anonboard/internal/models"
	"anonboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetPosts handles GET /api/posts?cursor&limit with cursor-based
// pagination. The cursor is the created_at timestamp of the last row of
// the previous page.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	limit := c.QueryInt("limit", service.DefaultPageLimit)

	var cursor *time.Time
	if raw := c.Query("cursor"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("invalid cursor"))
		}
		cursor = &t
	}

	page, err := s.board.ListPage(ctx, cursor, limit, s.userID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	post, err := s.board.GetPost(ctx, id, s.userID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("post", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req struct {
		Title         string   `json:"title"`
		Content       string   `json:"content"`
		DisplayAuthor string   `json:"display_author"`
		AuthorID      string   `json:"author_id"`
		Tags          []string `json:"tags"`
		IsAdmin       bool     `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.board.CreatePost(ctx, service.CreatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		DisplayAuthor: req.DisplayAuthor,
		AuthorID:      req.AuthorID,
		Tags:          req.Tags,
		IsAdmin:       req.IsAdmin,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PATCH /api/posts/:id. All fields are optional;
// only supplied fields change.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	var req struct {
		Title         *string   `json:"title"`
		Content       *string   `json:"content"`
		DisplayAuthor *string   `json:"display_author"`
		Tags          *[]string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.board.UpdatePost(ctx, id, service.UpdatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		DisplayAuthor: req.DisplayAuthor,
		Tags:          req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("post", id))
		default:
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
				return models.RespondWithError(c, fiber.StatusBadRequest, err)
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
	}

	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Ownership is a client-side
// advisory check only; the pseudo-identity header cannot be verified.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")

	if err := s.board.DeletePost(ctx, id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"success": true})
}
