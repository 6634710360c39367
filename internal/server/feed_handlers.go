package server

import (
	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
)

// GetFeed handles GET /api/feed
func (s *Server) GetFeed(c *fiber.Ctx) error {
	items, err := s.feedService.BuildFeed(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// GetTagFeed handles GET /api/tags/:tag
func (s *Server) GetTagFeed(c *fiber.Ctx) error {
	items, err := s.feedService.TagFeed(c.Context(), currentUserID(c), c.Params("tag"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"tag":   c.Params("tag"),
		"items": items,
	})
}

// GetSavedFeed handles GET /api/feed/saved
func (s *Server) GetSavedFeed(c *fiber.Ctx) error {
	items, err := s.feedService.SavedFeed(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// Search handles GET /api/search?q=
func (s *Server) Search(c *fiber.Ctx) error {
	result, err := s.feedService.Search(c.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}
