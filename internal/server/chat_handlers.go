package server

import (
	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
)

// GetConversations handles GET /api/chats
func (s *Server) GetConversations(c *fiber.Ctx) error {
	conversations, err := s.chatService.Conversations(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

// GetThread handles GET /api/chats/:userId. Reading a thread marks the
// peer's messages as read.
func (s *Server) GetThread(c *fiber.Ctx) error {
	peerID, err := parseID(c, "userId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	messages, err := s.chatService.Thread(c.Context(), currentUserID(c), peerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// SendMessage handles POST /api/chats/:userId
func (s *Server) SendMessage(c *fiber.Ctx) error {
	peerID, err := parseID(c, "userId")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	var req struct {
		Body string `json:"body"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.chatService.SendMessage(c.Context(), currentUserID(c), peerID, req.Body)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
