package server

import (
	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
	"azaunur/internal/service"
)

func (s *Server) respondToggle(c *fiber.Ctx, result *service.ToggleResult, err error) error {
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(result)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	result, err := s.engagementService.TogglePostLike(c.Context(), currentUserID(c), postID)
	return s.respondToggle(c, result, err)
}

// RepostPost handles POST /api/posts/:id/repost
func (s *Server) RepostPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	result, err := s.engagementService.ToggleRepost(c.Context(), currentUserID(c), postID)
	return s.respondToggle(c, result, err)
}

// SavePost handles POST /api/posts/:id/save
func (s *Server) SavePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	result, err := s.engagementService.ToggleSave(c.Context(), currentUserID(c), postID)
	return s.respondToggle(c, result, err)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	result, err := s.engagementService.ToggleCommentLike(c.Context(), currentUserID(c), commentID)
	return s.respondToggle(c, result, err)
}
