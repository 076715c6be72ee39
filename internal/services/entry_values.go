package services

import (
	"fmt"
	"strings"

	"github.com/tobyshem/symtrack/internal/models"
)

// BuildEntryValues checks a raw attribute map against the user's current
// field definitions and converts it into the typed attribute map stored on
// an entry. Unknown titles and type mismatches are rejected up front so no
// partially valid entry ever reaches the repository.
func BuildEntryValues(fields []models.FieldDefinition, raw map[string]any) (map[string]models.Value, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: values must be a non-empty object", ErrInvalidRecordData)
	}

	byTitle := make(map[string]models.FieldDefinition, len(fields))
	for _, field := range fields {
		byTitle[field.Title] = field
	}

	values := make(map[string]models.Value, len(raw))
	for title, rawValue := range raw {
		field, known := byTitle[title]
		if !known {
			return nil, fmt.Errorf("%w: no field definition for %q", ErrFieldValidationFailed, title)
		}
		value, err := coerceFieldValue(field, rawValue)
		if err != nil {
			return nil, err
		}
		values[title] = value
	}
	return values, nil
}

func coerceFieldValue(field models.FieldDefinition, raw any) (models.Value, error) {
	switch field.Type {
	case models.FieldTypeText:
		text, ok := raw.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: %q expects text", ErrFieldValidationFailed, field.Title)
		}
		return models.TextValue(text), nil

	case models.FieldTypeBoolean:
		flag, ok := raw.(bool)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: %q expects a boolean", ErrFieldValidationFailed, field.Title)
		}
		return models.BooleanValue(flag), nil

	case models.FieldTypeSelect:
		option, ok := raw.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: %q expects one of its configured values", ErrFieldValidationFailed, field.Title)
		}
		option = strings.TrimSpace(option)
		for _, allowed := range field.Values {
			if option == allowed {
				return models.SelectionValue(option), nil
			}
		}
		return models.Value{}, fmt.Errorf("%w: %q is not a value of %q", ErrFieldValidationFailed, option, field.Title)

	case models.FieldTypeSlider:
		number, ok := numericInput(raw)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: %q expects a number", ErrFieldValidationFailed, field.Title)
		}
		if field.Minimum != nil && number < *field.Minimum {
			return models.Value{}, fmt.Errorf("%w: %q below minimum", ErrFieldValidationFailed, field.Title)
		}
		if field.Maximum != nil && number > *field.Maximum {
			return models.Value{}, fmt.Errorf("%w: %q above maximum", ErrFieldValidationFailed, field.Title)
		}
		return models.NumberValue(number), nil
	}
	return models.Value{}, fmt.Errorf("%w: %q", ErrUnknownFieldType, field.Type)
}

func numericInput(raw any) (float64, bool) {
	switch number := raw.(type) {
	case float64:
		return number, true
	case int:
		return float64(number), true
	case int64:
		return float64(number), true
	}
	return 0, false
}
