package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetFields(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fields, err := handler.fields.FetchFields(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fields)
}

func (handler *Handler) CreateField(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := fieldPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	input, ok := fieldInputFromPayload(payload)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "order must be a number")
	}

	field, err := handler.fields.CreateField(user.ID, input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(field)
}

func (handler *Handler) UpdateField(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := fieldPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	input, ok := fieldInputFromPayload(payload)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "order must be a number")
	}

	field, err := handler.fields.UpdateField(user.ID, c.Params("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(field)
}

func (handler *Handler) DeleteField(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.fields.DeleteField(user.ID, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
