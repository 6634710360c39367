package server

import (
	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
)

// GetNotifications handles GET /api/notifications. Listing marks every
// unread notification as read.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	notifications, err := s.notificationService.ListAndMarkRead(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": notifications})
}

// GetUnreadCounts handles GET /api/notifications/unread
func (s *Server) GetUnreadCounts(c *fiber.Ctx) error {
	userID := currentUserID(c)

	notifications, err := s.notificationService.UnreadCount(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	messages, err := s.chatService.UnreadMessages(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"messages":      messages,
	})
}
