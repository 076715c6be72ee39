package services

import (
	"sort"
	"time"

	"github.com/tobyshem/symtrack/internal/models"
)

const movingAverageWindow = 5

// SeriesPoint is one (date, value) pair. A nil value marks a day where the
// field was not recorded; it stays on the date axis but breaks the line.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value *float64  `json:"value"`
}

// Annotation is one boolean-field marker drawn on top of another field's
// series, positioned at that field's value on the same date.
type Annotation struct {
	FieldTitle string    `json:"field_title"`
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	Color      string    `json:"color"`
	Style      string    `json:"style"`
}

// WeekBucket counts categorical occurrences inside one week-long window.
type WeekBucket struct {
	WeekStart time.Time      `json:"week_start"`
	Counts    map[string]int `json:"counts"`
}

const (
	SeriesKindNumeric     = "numeric"
	SeriesKindCategorical = "categorical"
)

// SeriesBundle is the prepared chart data for one field.
type SeriesBundle struct {
	FieldTitle    string            `json:"field_title"`
	FieldLabel    string            `json:"field_label"`
	Kind          string            `json:"kind"`
	Points        []SeriesPoint     `json:"points,omitempty"`
	MovingAverage []SeriesPoint     `json:"moving_average,omitempty"`
	Mean          []SeriesPoint     `json:"mean,omitempty"`
	Annotations   []Annotation      `json:"annotations,omitempty"`
	ValueColors   map[string]string `json:"value_colors,omitempty"`
	Weeks         []WeekBucket      `json:"weeks,omitempty"`
}

// categoricalPalette is cycled when assigning one color per observed select
// value.
var categoricalPalette = [...]string{
	"#4BC0C0",
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#9966FF",
	"#FF9F40",
	"#C9CBCF",
	"#2ECC71",
	"#8E44AD",
	"#8E6E53",
}

// AnalysisService turns fetched entries into per-field chart series.
type AnalysisService struct {
	location *time.Location
}

func NewAnalysisService(location *time.Location) *AnalysisService {
	if location == nil {
		location = time.UTC
	}
	return &AnalysisService{location: location}
}

// PrepareSeries builds one bundle per numeric (slider) and categorical
// (select) field. Boolean fields contribute annotations to the numeric
// bundles when toggled on; text fields are not charted. Empty input yields
// an empty result.
func (service *AnalysisService) PrepareSeries(entries []models.SymptomEntry, fields []models.FieldDefinition, toggles map[string]bool) []SeriesBundle {
	if len(entries) == 0 {
		return []SeriesBundle{}
	}

	sorted := make([]models.SymptomEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryDate.Before(sorted[j].EntryDate)
	})

	toggledBooleans := make([]models.FieldDefinition, 0)
	for _, field := range fields {
		if field.Type == models.FieldTypeBoolean && toggles[field.Title] {
			toggledBooleans = append(toggledBooleans, field)
		}
	}

	bundles := make([]SeriesBundle, 0, len(fields))
	for _, field := range fields {
		switch field.Type {
		case models.FieldTypeSlider:
			bundles = append(bundles, service.numericBundle(sorted, field, toggledBooleans))
		case models.FieldTypeSelect:
			bundles = append(bundles, service.categoricalBundle(sorted, field))
		}
	}
	return bundles
}

func (service *AnalysisService) numericBundle(entries []models.SymptomEntry, field models.FieldDefinition, toggledBooleans []models.FieldDefinition) SeriesBundle {
	points := make([]SeriesPoint, 0, len(entries))
	for _, entry := range entries {
		point := SeriesPoint{Date: entry.EntryDate}
		if number, present := entry.Values[field.Title].NumericValue(); present {
			value := number
			point.Value = &value
		}
		points = append(points, point)
	}

	return SeriesBundle{
		FieldTitle:    field.Title,
		FieldLabel:    field.Label,
		Kind:          SeriesKindNumeric,
		Points:        points,
		MovingAverage: movingAverage(points, movingAverageWindow),
		Mean:          meanSeries(points),
		Annotations:   booleanAnnotations(entries, field, toggledBooleans),
	}
}

// movingAverage computes the trailing mean over the fixed window. The first
// window-1 positions are undefined; missing values count as zero in the sum.
func movingAverage(points []SeriesPoint, window int) []SeriesPoint {
	averaged := make([]SeriesPoint, len(points))
	for index, point := range points {
		averaged[index] = SeriesPoint{Date: point.Date}
		if index < window-1 {
			continue
		}
		sum := 0.0
		for back := index - window + 1; back <= index; back++ {
			if points[back].Value != nil {
				sum += *points[back].Value
			}
		}
		mean := sum / float64(window)
		averaged[index].Value = &mean
	}
	return averaged
}

// meanSeries is the flat all-time mean reference line spanning the same
// date axis, missing values counted as zero.
func meanSeries(points []SeriesPoint) []SeriesPoint {
	if len(points) == 0 {
		return []SeriesPoint{}
	}
	sum := 0.0
	for _, point := range points {
		if point.Value != nil {
			sum += *point.Value
		}
	}
	mean := sum / float64(len(points))

	flat := make([]SeriesPoint, len(points))
	for index, point := range points {
		value := mean
		flat[index] = SeriesPoint{Date: point.Date, Value: &value}
	}
	return flat
}

// booleanAnnotations places one marker per entry where a toggled boolean is
// true, at the host field's value on that date. Days where the host field
// was not recorded have no vertical position and are skipped.
func booleanAnnotations(entries []models.SymptomEntry, host models.FieldDefinition, toggledBooleans []models.FieldDefinition) []Annotation {
	annotations := make([]Annotation, 0)
	for _, flag := range toggledBooleans {
		for _, entry := range entries {
			if !entry.Values[flag.Title].IsTrue() {
				continue
			}
			hostValue, present := entry.Values[host.Title].NumericValue()
			if !present {
				continue
			}
			annotations = append(annotations, Annotation{
				FieldTitle: flag.Title,
				Date:       entry.EntryDate,
				Value:      hostValue,
				Color:      flag.AnnotationColor(),
				Style:      flag.AnnotationStyle(),
			})
		}
	}
	return annotations
}

func (service *AnalysisService) categoricalBundle(entries []models.SymptomEntry, field models.FieldDefinition) SeriesBundle {
	observed := make([]string, 0)
	seen := make(map[string]struct{})
	for _, entry := range entries {
		value := entry.Values[field.Title]
		if value.Kind != models.ValueKindSelection || value.Selection == "" {
			continue
		}
		if _, matched := seen[value.Selection]; !matched {
			seen[value.Selection] = struct{}{}
			observed = append(observed, value.Selection)
		}
	}

	colors := make(map[string]string, len(observed))
	for index, value := range observed {
		colors[value] = categoricalPalette[index%len(categoricalPalette)]
	}

	return SeriesBundle{
		FieldTitle:  field.Title,
		FieldLabel:  field.Label,
		Kind:        SeriesKindCategorical,
		ValueColors: colors,
		Weeks:       service.weeklyBuckets(entries, field),
	}
}

// weeklyBuckets groups categorical occurrences into week-long windows
// anchored at the ISO week start of the earliest entry. Weeks without any
// occurrence are dropped from the axis.
func (service *AnalysisService) weeklyBuckets(entries []models.SymptomEntry, field models.FieldDefinition) []WeekBucket {
	if len(entries) == 0 {
		return []WeekBucket{}
	}
	anchor := ISOWeekStart(entries[0].EntryDate, service.location)

	byIndex := make(map[int]map[string]int)
	for _, entry := range entries {
		value := entry.Values[field.Title]
		if value.Kind != models.ValueKindSelection || value.Selection == "" {
			continue
		}
		days := DaysBetween(anchor, DateAtLocation(entry.EntryDate, service.location))
		index := days / 7
		if byIndex[index] == nil {
			byIndex[index] = make(map[string]int)
		}
		byIndex[index][value.Selection]++
	}

	indexes := make([]int, 0, len(byIndex))
	for index := range byIndex {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	buckets := make([]WeekBucket, 0, len(indexes))
	for _, index := range indexes {
		buckets = append(buckets, WeekBucket{
			WeekStart: anchor.AddDate(0, 0, index*7),
			Counts:    byIndex[index],
		})
	}
	return buckets
}
