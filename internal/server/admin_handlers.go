package server

import (
	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
)

// ReportUser handles POST /api/users/:id/report
func (s *Server) ReportUser(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req reasonBody
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.ReportUser(c.Context(), currentUserID(c), targetID, req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetPendingReports handles GET /api/admin/reports
func (s *Server) GetPendingReports(c *fiber.Ctx) error {
	reports, err := s.moderationService.PendingReports(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// ForgiveReport handles POST /api/admin/reports/:id/forgive
func (s *Server) ForgiveReport(c *fiber.Ctx) error {
	reportID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.moderationService.ForgiveReport(c.Context(), currentUserID(c), reportID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"status": models.ReportStatusForgiven})
}

// BanFromReport handles POST /api/admin/reports/:id/ban
func (s *Server) BanFromReport(c *fiber.Ctx) error {
	reportID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	user, err := s.moderationService.BanFromReport(c.Context(), currentUserID(c), reportID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":       models.ReportStatusBanned,
		"banned_until": user.BannedUntil,
	})
}

// RequestVerification handles POST /api/verification
func (s *Server) RequestVerification(c *fiber.Ctx) error {
	var req reasonBody
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, err := s.moderationService.RequestVerification(c.Context(), currentUserID(c), req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetMyVerification handles GET /api/verification/me
func (s *Server) GetMyVerification(c *fiber.Ctx) error {
	request, err := s.moderationService.PendingVerification(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"request": request})
}

// GetVerificationQueue handles GET /api/admin/verification
func (s *Server) GetVerificationQueue(c *fiber.Ctx) error {
	requests, err := s.moderationService.PendingVerificationRequests(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// ApproveVerification handles POST /api/admin/verification/:id/approve
func (s *Server) ApproveVerification(c *fiber.Ctx) error {
	requestID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Type string `json:"type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.moderationService.ApproveVerification(c.Context(), currentUserID(c), requestID, req.Type); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"status": models.VerificationStatusApproved})
}

// RejectVerification handles POST /api/admin/verification/:id/reject
func (s *Server) RejectVerification(c *fiber.Ctx) error {
	requestID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.moderationService.RejectVerification(c.Context(), currentUserID(c), requestID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"status": models.VerificationStatusRejected})
}

// SetVerification handles POST /api/admin/users/:id/verification. An empty
// or "none" type removes the badge.
func (s *Server) SetVerification(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Type string `json:"type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.moderationService.SetVerification(c.Context(), currentUserID(c), userID, req.Type)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// ToggleAdmin handles POST /api/admin/users/:id/admin
func (s *Server) ToggleAdmin(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	isAdmin, err := s.moderationService.ToggleAdmin(c.Context(), currentUserID(c), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"is_admin": isAdmin})
}

// SetCustomStatus handles POST /api/admin/users/:id/status. An empty status
// clears the current one.
func (s *Server) SetCustomStatus(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.moderationService.SetCustomStatus(c.Context(), currentUserID(c), userID, req.Status)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetAdminStats handles GET /api/admin/stats
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.Stats(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}
