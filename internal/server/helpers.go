package server

import (
	"github.com/gofiber/fiber/v2"

	"azaunur/internal/models"
)

// currentUserID returns the authenticated viewer's account id set by the
// auth middleware. Only call from handlers behind AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// parseID extracts a route parameter as a positive uint.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid " + param)
	}
	return uint(id), nil
}

type reasonBody struct {
	Reason string `json:"reason"`
}
