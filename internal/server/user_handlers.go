package server

import (
	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
	"azaunur/internal/service"
)

// GetProfile handles GET /api/users/:handle
func (s *Server) GetProfile(c *fiber.Ctx) error {
	view, err := s.userService.Profile(c.Context(), c.Params("handle"), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// GetMyAccount handles GET /api/users/me
func (s *Server) GetMyAccount(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateSettings handles PUT /api/users/me/settings. Accepts multipart form
// data so an avatar upload can ride along with the bio.
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	in := service.UpdateSettingsInput{UserID: currentUserID(c)}

	if header, err := c.FormFile("avatar"); err == nil && header != nil {
		content, readErr := readMultipartFile(header)
		if readErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded avatar"))
		}
		in.Avatar = content
	}

	in.Bio = c.FormValue("bio")
	if in.Bio == "" {
		var req struct {
			Bio string `json:"bio"`
		}
		if parseErr := c.BodyParser(&req); parseErr == nil {
			in.Bio = req.Bio
		}
	}

	user, err := s.userService.UpdateSettings(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// ToggleFollow handles POST /api/users/:id/follow
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	following, err := s.followService.ToggleFollow(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// GetFollowers handles GET /api/users/:handle/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	account, err := s.userRepo.GetByHandle(c.Context(), c.Params("handle"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	entries, err := s.followService.Followers(c.Context(), account.ID, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": entries})
}

// GetFollowing handles GET /api/users/:handle/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	account, err := s.userRepo.GetByHandle(c.Context(), c.Params("handle"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	entries, err := s.followService.Following(c.Context(), account.ID, currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": entries})
}

// ToggleBlock handles POST /api/users/:id/block
func (s *Server) ToggleBlock(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	blocking, err := s.userService.ToggleBlock(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"blocking": blocking})
}

// GetBlockedUsers handles GET /api/users/me/blocked
func (s *Server) GetBlockedUsers(c *fiber.Ctx) error {
	users, err := s.userService.BlockedUsers(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}
