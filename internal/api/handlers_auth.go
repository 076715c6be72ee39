package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/services"
)

const (
	loginFailureLimit  = 10
	loginFailureWindow = 15 * time.Minute
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.auth.RegisterUser(credentials.Email, credentials.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		return apiError(c, fiber.StatusBadRequest, "invalid credentials")
	}
	if errors.Is(err, services.ErrWeakPassword) {
		return apiError(c, fiber.StatusBadRequest, "password too weak")
	}
	if errors.Is(err, services.ErrEmailAlreadyRegistered) {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	key := throttleKey(c)
	now := time.Now()
	if handler.loginThrottle.blocked(key, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
	}

	user, err := handler.auth.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		handler.loginThrottle.fail(key, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	handler.loginThrottle.clear(key)

	if err := handler.setAuthCookie(c, &user, credentials.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(user)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

// DeleteAccount removes the account and everything it owns after a final
// password confirmation, then ends the session.
func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := struct {
		Password string `json:"password" form:"password"`
	}{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.auth.DeleteAccount(user.ID, payload.Password); err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			return apiError(c, fiber.StatusForbidden, "invalid password")
		}
		return serviceError(c, err)
	}

	handler.fields.ClearCache(user.ID)
	handler.entries.ClearCache(user.ID)
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) CurrentUser(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(user)
}
