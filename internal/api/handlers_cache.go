package api

import "github.com/gofiber/fiber/v2"

// ClearCache drops both per-user caches so the next read goes to storage.
func (handler *Handler) ClearCache(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	handler.fields.ClearCache(user.ID)
	handler.entries.ClearCache(user.ID)
	return c.JSON(fiber.Map{"ok": true})
}
