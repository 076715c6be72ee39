package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps the record access failure taxonomy onto HTTP statuses.
// Remote failures stay a 500 with a stable message; the underlying cause is
// in the wrapped error, not the response.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidUserID):
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	case errors.Is(err, services.ErrInvalidRecordData):
		return apiError(c, fiber.StatusBadRequest, "invalid record data")
	case errors.Is(err, services.ErrUnknownFieldType):
		return apiError(c, fiber.StatusBadRequest, "unknown field type")
	case errors.Is(err, services.ErrFieldValidationFailed):
		return apiError(c, fiber.StatusBadRequest, "field validation failed")
	case errors.Is(err, services.ErrFutureEntryDate):
		return apiError(c, fiber.StatusBadRequest, "entry date is in the future")
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrPermissionDenied):
		return apiError(c, fiber.StatusForbidden, "permission denied")
	}
	return apiError(c, fiber.StatusInternalServerError, "operation failed")
}
