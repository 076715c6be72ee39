package models

import "time"

const (
	FieldTypeText    = "text"
	FieldTypeBoolean = "boolean"
	FieldTypeSelect  = "select"
	FieldTypeSlider  = "slider"
)

const (
	DefaultPointColor = "red"
	DefaultPointStyle = "star"
)

// KnownPointStyles lists the marker shapes the chart layer can draw for
// boolean annotations. Anything else falls back to DefaultPointStyle.
var KnownPointStyles = map[string]struct{}{
	"circle":   {},
	"cross":    {},
	"crossRot": {},
	"star":     {},
	"triangle": {},
	"rect":     {},
}

// FieldDefinition describes one user-configured tracked attribute. Title is
// the per-user key symptom entries store their values under; Label is the
// display text. The ID is assigned at creation and treated as opaque.
type FieldDefinition struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	Title      string    `gorm:"not null" json:"title"`
	Label      string    `gorm:"not null" json:"label"`
	Type       string    `gorm:"not null" json:"type"`
	FieldOrder int       `gorm:"not null;default:0" json:"order"`
	Multiline  bool      `gorm:"not null;default:false" json:"multiline,omitempty"`
	PointColor string    `json:"point_color,omitempty"`
	PointStyle string    `json:"point_style,omitempty"`
	Values     []string  `gorm:"serializer:json" json:"values,omitempty"`
	Minimum    *float64  `json:"minimum,omitempty"`
	Maximum    *float64  `json:"maximum,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ValidFieldType(fieldType string) bool {
	switch fieldType {
	case FieldTypeText, FieldTypeBoolean, FieldTypeSelect, FieldTypeSlider:
		return true
	}
	return false
}

// AnnotationColor returns the configured marker color with the documented
// fallback applied.
func (field FieldDefinition) AnnotationColor() string {
	if field.PointColor == "" {
		return DefaultPointColor
	}
	return field.PointColor
}

// AnnotationStyle returns the configured marker style, falling back when the
// style is unset or not a recognized shape name.
func (field FieldDefinition) AnnotationStyle() string {
	if _, known := KnownPointStyles[field.PointStyle]; !known {
		return DefaultPointStyle
	}
	return field.PointStyle
}
