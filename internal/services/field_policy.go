package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tobyshem/symtrack/internal/models"
)

// FieldInput carries a field definition as submitted by the caller, already
// coerced out of its transport encoding.
type FieldInput struct {
	Title      string
	Label      string
	Type       string
	Order      int
	OrderSet   bool
	Multiline  bool
	PointColor string
	PointStyle string
	Values     []string
	Minimum    *float64
	Maximum    *float64
}

// ValidateFieldInput enforces the per-type constraints before anything is
// persisted. Title, label, type and order are always required; the rest
// depends on the field type.
func ValidateFieldInput(input FieldInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrFieldValidationFailed)
	}
	if strings.TrimSpace(input.Label) == "" {
		return fmt.Errorf("%w: label is required", ErrFieldValidationFailed)
	}
	if strings.TrimSpace(input.Type) == "" {
		return fmt.Errorf("%w: type is required", ErrFieldValidationFailed)
	}
	if !input.OrderSet {
		return fmt.Errorf("%w: order is required", ErrFieldValidationFailed)
	}

	switch input.Type {
	case models.FieldTypeText:
		return nil
	case models.FieldTypeBoolean:
		if strings.TrimSpace(input.PointColor) == "" || strings.TrimSpace(input.PointStyle) == "" {
			return fmt.Errorf("%w: boolean fields need point_color and point_style", ErrFieldValidationFailed)
		}
		return nil
	case models.FieldTypeSelect:
		if len(nonEmptyStrings(input.Values)) == 0 {
			return fmt.Errorf("%w: select fields need a non-empty values list", ErrFieldValidationFailed)
		}
		return nil
	case models.FieldTypeSlider:
		if input.Minimum == nil || input.Maximum == nil {
			return fmt.Errorf("%w: slider fields need minimum and maximum", ErrFieldValidationFailed)
		}
		if *input.Minimum >= *input.Maximum {
			return fmt.Errorf("%w: slider minimum must be below maximum", ErrFieldValidationFailed)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFieldType, input.Type)
}

// CoerceOrder accepts the order attribute as a number or a numeric string.
// Historic records stored either shape; unparseable strings fall back to 0
// on read, but inputs that are neither number nor string are rejected.
func CoerceOrder(raw any) (int, bool) {
	switch value := raw.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func nonEmptyStrings(values []string) []string {
	filtered := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			filtered = append(filtered, value)
		}
	}
	return filtered
}
