package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/services"
)

// GetSeries returns the prepared chart bundles for the analysis view. The
// optional from/to range narrows the entries; toggles name the boolean
// fields drawn as annotations.
func (handler *Handler) GetSeries(c *fiber.Ctx) error {
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

	fields, err := handler.fields.FetchFields(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	entries, err := handler.entries.FetchEntries(user.ID, services.EntryQuery{From: from, To: to})
	if err != nil {
		return serviceError(c, err)
	}

	bundles := handler.analysis.PrepareSeries(entries, fields, parseToggles(c.Query("toggles")))
	return c.JSON(bundles)
}
