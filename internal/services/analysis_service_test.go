package services

import (
	"testing"
	"time"

	"github.com/tobyshem/symtrack/internal/models"
)

func sliderField(title string) models.FieldDefinition {
	return models.FieldDefinition{Title: title, Label: title, Type: models.FieldTypeSlider, Minimum: floatPtr(0), Maximum: floatPtr(100)}
}

func numericEntry(day time.Time, title string, number float64) models.SymptomEntry {
	return models.SymptomEntry{
		ID:        day.Format("2006-01-02"),
		UserID:    1,
		EntryDate: day,
		Values:    map[string]models.Value{title: models.NumberValue(number)},
	}
}

func TestPrepareSeriesEmptyInput(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	bundles := service.PrepareSeries(nil, []models.FieldDefinition{sliderField("pain")}, nil)
	if len(bundles) != 0 {
		t.Fatalf("expected no bundles without entries, got %d", len(bundles))
	}
}

func TestPrepareSeriesSkipsTextAndBooleanFields(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	fields := []models.FieldDefinition{
		{Title: "notes", Type: models.FieldTypeText},
		{Title: "headache", Type: models.FieldTypeBoolean},
		sliderField("pain"),
	}
	entries := []models.SymptomEntry{numericEntry(testDay(10), "pain", 4)}

	bundles := service.PrepareSeries(entries, fields, nil)
	if len(bundles) != 1 || bundles[0].FieldTitle != "pain" || bundles[0].Kind != SeriesKindNumeric {
		t.Fatalf("expected one numeric bundle for the slider field, got %+v", bundles)
	}
}

func TestMovingAverageTrailingWindow(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	values := []float64{10, 20, 30, 40, 50}
	entries := make([]models.SymptomEntry, 0, len(values))
	for index, value := range values {
		entries = append(entries, numericEntry(testDay(10+index), "pain", value))
	}

	bundles := service.PrepareSeries(entries, []models.FieldDefinition{sliderField("pain")}, nil)
	averaged := bundles[0].MovingAverage
	if len(averaged) != 5 {
		t.Fatalf("expected the averaged series to span the date axis, got %d points", len(averaged))
	}
	for index := 0; index < 4; index++ {
		if averaged[index].Value != nil {
			t.Fatalf("expected point %d to be undefined before the window fills, got %v", index, *averaged[index].Value)
		}
	}
	if averaged[4].Value == nil || *averaged[4].Value != 30 {
		t.Fatalf("expected trailing mean 30 at the fifth point, got %+v", averaged[4].Value)
	}
}

func TestMovingAverageCountsMissingDaysAsZero(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	entries := []models.SymptomEntry{
		numericEntry(testDay(10), "pain", 10),
		numericEntry(testDay(11), "pain", 20),
		{ID: "gap", UserID: 1, EntryDate: testDay(12), Values: map[string]models.Value{"notes": models.TextValue("skipped")}},
		numericEntry(testDay(13), "pain", 30),
		numericEntry(testDay(14), "pain", 40),
	}

	bundles := service.PrepareSeries(entries, []models.FieldDefinition{sliderField("pain")}, nil)
	averaged := bundles[0].MovingAverage
	if averaged[4].Value == nil || *averaged[4].Value != 20 {
		t.Fatalf("expected (10+20+0+30+40)/5 = 20, got %+v", averaged[4].Value)
	}
	if bundles[0].Points[2].Value != nil {
		t.Fatal("expected the unrecorded day to stay a gap in the raw series")
	}
}

func TestMeanSeriesIsFlat(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	entries := []models.SymptomEntry{
		numericEntry(testDay(10), "pain", 2),
		numericEntry(testDay(11), "pain", 4),
		numericEntry(testDay(12), "pain", 6),
	}

	bundles := service.PrepareSeries(entries, []models.FieldDefinition{sliderField("pain")}, nil)
	mean := bundles[0].Mean
	if len(mean) != 3 {
		t.Fatalf("expected mean line across every date, got %d points", len(mean))
	}
	for index, point := range mean {
		if point.Value == nil || *point.Value != 4 {
			t.Fatalf("expected flat mean 4 at point %d, got %+v", index, point.Value)
		}
	}
}

func TestBooleanAnnotationsFollowHostValue(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	fields := []models.FieldDefinition{
		sliderField("pain"),
		{Title: "headache", Label: "Headache", Type: models.FieldTypeBoolean, PointColor: "blue", PointStyle: "triangle"},
	}
	entries := []models.SymptomEntry{
		{ID: "e1", UserID: 1, EntryDate: testDay(10), Values: map[string]models.Value{
			"pain":     models.NumberValue(7),
			"headache": models.BooleanValue(true),
		}},
		{ID: "e2", UserID: 1, EntryDate: testDay(11), Values: map[string]models.Value{
			"pain":     models.NumberValue(3),
			"headache": models.BooleanValue(false),
		}},
		{ID: "e3", UserID: 1, EntryDate: testDay(12), Values: map[string]models.Value{
			"headache": models.BooleanValue(true),
		}},
	}

	bundles := service.PrepareSeries(entries, fields, map[string]bool{"headache": true})
	annotations := bundles[0].Annotations
	if len(annotations) != 1 {
		t.Fatalf("expected one annotation (false day and gap day skipped), got %+v", annotations)
	}
	marker := annotations[0]
	if marker.FieldTitle != "headache" || marker.Value != 7 || !marker.Date.Equal(testDay(10)) {
		t.Fatalf("unexpected annotation: %+v", marker)
	}
	if marker.Color != "blue" || marker.Style != "triangle" {
		t.Fatalf("expected the configured marker appearance, got %+v", marker)
	}
}

func TestBooleanAnnotationsRequireToggle(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	fields := []models.FieldDefinition{
		sliderField("pain"),
		{Title: "headache", Type: models.FieldTypeBoolean},
	}
	entries := []models.SymptomEntry{
		{ID: "e1", UserID: 1, EntryDate: testDay(10), Values: map[string]models.Value{
			"pain":     models.NumberValue(7),
			"headache": models.BooleanValue(true),
		}},
	}

	bundles := service.PrepareSeries(entries, fields, nil)
	if len(bundles[0].Annotations) != 0 {
		t.Fatalf("expected no annotations without a toggle, got %+v", bundles[0].Annotations)
	}
}

func TestAnnotationAppearanceFallsBack(t *testing.T) {
	field := models.FieldDefinition{Title: "headache", Type: models.FieldTypeBoolean, PointStyle: "sparkle"}
	if color := field.AnnotationColor(); color != models.DefaultPointColor {
		t.Fatalf("expected default color, got %q", color)
	}
	if style := field.AnnotationStyle(); style != models.DefaultPointStyle {
		t.Fatalf("expected default style for unknown shape, got %q", style)
	}
}

func TestCategoricalColorsFollowFirstObservation(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	field := models.FieldDefinition{Title: "mood", Label: "Mood", Type: models.FieldTypeSelect, Values: []string{"good", "bad", "flat"}}
	entries := []models.SymptomEntry{
		{ID: "e1", UserID: 1, EntryDate: testDay(10), Values: map[string]models.Value{"mood": models.SelectionValue("bad")}},
		{ID: "e2", UserID: 1, EntryDate: testDay(11), Values: map[string]models.Value{"mood": models.SelectionValue("good")}},
		{ID: "e3", UserID: 1, EntryDate: testDay(12), Values: map[string]models.Value{"mood": models.SelectionValue("bad")}},
	}

	bundles := service.PrepareSeries(entries, []models.FieldDefinition{field}, nil)
	if bundles[0].Kind != SeriesKindCategorical {
		t.Fatalf("expected categorical bundle, got %q", bundles[0].Kind)
	}
	colors := bundles[0].ValueColors
	if colors["bad"] != categoricalPalette[0] || colors["good"] != categoricalPalette[1] {
		t.Fatalf("expected palette assignment by first observation, got %+v", colors)
	}
	if _, present := colors["flat"]; present {
		t.Fatal("expected unobserved options to get no color")
	}
}

func TestWeeklyBucketsSpanDSTTransition(t *testing.T) {
	location, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	service := NewAnalysisService(location)
	field := models.FieldDefinition{Title: "mood", Type: models.FieldTypeSelect, Values: []string{"good", "bad"}}

	// Berlin springs forward on 2026-03-29, so the week anchored Monday
	// 2026-03-23 is only 167 hours long. The next Monday still starts a
	// new bucket.
	entries := []models.SymptomEntry{
		{ID: "e1", UserID: 1, EntryDate: time.Date(2026, time.March, 26, 0, 0, 0, 0, location), Values: map[string]models.Value{"mood": models.SelectionValue("good")}},
		{ID: "e2", UserID: 1, EntryDate: time.Date(2026, time.March, 30, 0, 0, 0, 0, location), Values: map[string]models.Value{"mood": models.SelectionValue("bad")}},
	}

	bundles := service.PrepareSeries(entries, []models.FieldDefinition{field}, nil)
	weeks := bundles[0].Weeks
	if len(weeks) != 2 {
		t.Fatalf("expected the post-transition Monday to open a new bucket, got %d buckets", len(weeks))
	}
	if !weeks[0].WeekStart.Equal(time.Date(2026, time.March, 23, 0, 0, 0, 0, location)) {
		t.Fatalf("expected the first bucket anchored at Monday 2026-03-23, got %v", weeks[0].WeekStart)
	}
	if !weeks[1].WeekStart.Equal(time.Date(2026, time.March, 30, 0, 0, 0, 0, location)) {
		t.Fatalf("expected the second bucket anchored at Monday 2026-03-30, got %v", weeks[1].WeekStart)
	}
	if weeks[0].Counts["good"] != 1 || weeks[1].Counts["bad"] != 1 {
		t.Fatalf("unexpected bucket counts: %+v / %+v", weeks[0].Counts, weeks[1].Counts)
	}
}

func TestWeeklyBucketsAnchorAtISOWeekStart(t *testing.T) {
	service := NewAnalysisService(time.UTC)
	field := models.FieldDefinition{Title: "mood", Type: models.FieldTypeSelect, Values: []string{"good", "bad"}}

	// 2026-03-11 is a Wednesday; its ISO week starts Monday 2026-03-09.
	entries := []models.SymptomEntry{
		{ID: "e1", UserID: 1, EntryDate: testDay(11), Values: map[string]models.Value{"mood": models.SelectionValue("good")}},
		{ID: "e2", UserID: 1, EntryDate: testDay(13), Values: map[string]models.Value{"mood": models.SelectionValue("good")}},
		{ID: "e3", UserID: 1, EntryDate: testDay(14), Values: map[string]models.Value{"mood": models.SelectionValue("bad")}},
		// Two weeks later, skipping the week in between.
		{ID: "e4", UserID: 1, EntryDate: testDay(25), Values: map[string]models.Value{"mood": models.SelectionValue("bad")}},
	}

	bundles := service.PrepareSeries(entries, []models.FieldDefinition{field}, nil)
	weeks := bundles[0].Weeks
	if len(weeks) != 2 {
		t.Fatalf("expected the empty middle week to be dropped, got %d buckets", len(weeks))
	}
	if !weeks[0].WeekStart.Equal(testDay(9)) {
		t.Fatalf("expected the first bucket anchored at Monday 2026-03-09, got %v", weeks[0].WeekStart)
	}
	if weeks[0].Counts["good"] != 2 || weeks[0].Counts["bad"] != 1 {
		t.Fatalf("unexpected first week counts: %+v", weeks[0].Counts)
	}
	if !weeks[1].WeekStart.Equal(testDay(23)) {
		t.Fatalf("expected the second bucket anchored at Monday 2026-03-23, got %v", weeks[1].WeekStart)
	}
	if weeks[1].Counts["bad"] != 1 {
		t.Fatalf("unexpected second week counts: %+v", weeks[1].Counts)
	}
}
