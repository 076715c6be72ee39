package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/services"
)

func (handler *Handler) GetEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, err := parseOptionalDayParam(c.Query("from"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	}
	to, err := parseOptionalDayParam(c.Query("to"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	}
	if from != nil && to != nil && to.Before(*from) {
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	query := services.EntryQuery{
		From:       from,
		To:         to,
		Descending: strings.EqualFold(c.Query("sort"), "desc"),
		Limit:      c.QueryInt("limit"),
	}
	entries, err := handler.entries.FetchEntries(user.ID, query)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(entries)
}

func (handler *Handler) GetEntryForDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, found, err := handler.entries.FetchEntryForDay(user.ID, day)
	if err != nil {
		return serviceError(c, err)
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no entry for day")
	}
	return c.JSON(entry)
}

func (handler *Handler) UpsertEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := parseDayParam(c.Params("date"), handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := entryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	entry, err := handler.entries.UpsertEntry(user.ID, day, payload.Values)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.entries.DeleteEntry(user.ID, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
