package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/services"
)

var errInvalidDayParam = errors.New("invalid day parameter")

// parseDayParam accepts a calendar day in YYYY-MM-DD form and anchors it at
// midnight in the server location.
func parseDayParam(raw string, location *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, errInvalidDayParam
	}
	parsed, err := time.ParseInLocation("2006-01-02", trimmed, location)
	if err != nil {
		return time.Time{}, errInvalidDayParam
	}
	return parsed, nil
}

func parseOptionalDayParam(raw string, location *time.Location) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := parseDayParam(raw, location)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return credentialsInput{}, err
	}
	return credentials, nil
}

// fieldInputFromPayload coerces the wire payload into the service input,
// rejecting orders that are neither numbers nor numeric strings.
func fieldInputFromPayload(payload fieldPayload) (services.FieldInput, bool) {
	input := services.FieldInput{
		Title:      strings.TrimSpace(payload.Title),
		Label:      strings.TrimSpace(payload.Label),
		Type:       strings.TrimSpace(payload.Type),
		Multiline:  payload.Multiline,
		PointColor: strings.TrimSpace(payload.PointColor),
		PointStyle: strings.TrimSpace(payload.PointStyle),
		Values:     payload.Values,
		Minimum:    payload.Minimum,
		Maximum:    payload.Maximum,
	}
	if payload.Order == nil {
		return input, true
	}
	order, ok := services.CoerceOrder(payload.Order)
	if !ok {
		return services.FieldInput{}, false
	}
	input.Order = order
	input.OrderSet = true
	return input, true
}

// parseToggles reads the comma separated list of boolean field titles that
// should be drawn as annotations.
func parseToggles(raw string) map[string]bool {
	toggles := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		title := strings.TrimSpace(part)
		if title != "" {
			toggles[title] = true
		}
	}
	return toggles
}
