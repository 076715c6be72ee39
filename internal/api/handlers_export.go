package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tobyshem/symtrack/internal/models"
	"github.com/tobyshem/symtrack/internal/services"
)

// ExportCSV streams the full history as an attachment: one row per entry,
// one column per field definition in display order.
func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fields, entries, err := handler.fetchExportData(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	now := time.Now().In(handler.location)

	headers := []string{"date"}
	for _, field := range fields {
		headers = append(headers, field.Title)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(headers); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	for _, entry := range entries {
		row := []string{entry.EntryDate.In(handler.location).Format("2006-01-02")}
		for _, field := range fields {
			row = append(row, entry.Values[field.Title].Display())
		}
		if err := writer.Write(row); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	fields, entries, err := handler.fetchExportData(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	now := time.Now().In(handler.location)

	payload := fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"fields":      fields,
		"entries":     entries,
	}
	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) fetchExportData(userID uint) ([]models.FieldDefinition, []models.SymptomEntry, error) {
	fields, err := handler.fields.FetchFields(userID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := handler.entries.FetchEntries(userID, services.EntryQuery{})
	if err != nil {
		return nil, nil, err
	}
	return fields, entries, nil
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("symtrack_export_%s.%s", now.Format("2006-01-02"), extension)
}
