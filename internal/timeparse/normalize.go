// Package timeparse converts the timestamp shapes that appear across the
// fetch/cache/re-read cycle into a single canonical time.Time. Records that
// round-trip through the JSON cache file lose their rich types, so the same
// logical timestamp can arrive as a native value, an ISO string, a
// convertible wrapper, or a plain seconds/nanoseconds pair.
package timeparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidTimestampFormat = errors.New("invalid timestamp format")

// Convertible is satisfied by wrapper types that can produce their own
// time.Time, such as driver-specific timestamp values.
type Convertible interface {
	Time() time.Time
}

// SecondsPair is the serialized form of a rich timestamp once it has been
// written to the cache file as plain JSON.
type SecondsPair struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

func (pair SecondsPair) Time() time.Time {
	return time.Unix(pair.Seconds, pair.Nanoseconds)
}

var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize interprets raw as a timestamp, trying each known representation
// in order: native value, string, convertible wrapper, seconds/nanoseconds
// pair. Unrecognized shapes yield ErrInvalidTimestampFormat so callers can
// drop the offending record instead of aborting a batch.
func Normalize(raw any) (time.Time, error) {
	switch value := raw.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("%w: nil", ErrInvalidTimestampFormat)
	case time.Time:
		return value, nil
	case *time.Time:
		if value == nil {
			return time.Time{}, fmt.Errorf("%w: nil", ErrInvalidTimestampFormat)
		}
		return *value, nil
	case string:
		return normalizeString(value)
	case Convertible:
		return value.Time(), nil
	case json.RawMessage:
		return normalizeRawJSON(value)
	case []byte:
		return normalizeRawJSON(value)
	case map[string]any:
		return normalizeSecondsMap(value)
	}
	return time.Time{}, fmt.Errorf("%w: %T", ErrInvalidTimestampFormat, raw)
}

func normalizeString(value string) (time.Time, error) {
	for _, layout := range stringLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestampFormat, value)
}

func normalizeRawJSON(data []byte) (time.Time, error) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimestampFormat, err)
	}
	if _, isBytes := decoded.([]byte); isBytes {
		return time.Time{}, fmt.Errorf("%w: nested bytes", ErrInvalidTimestampFormat)
	}
	return Normalize(decoded)
}

// normalizeSecondsMap handles the {seconds, nanoseconds} object as decoded
// by encoding/json, where both fields arrive as float64.
func normalizeSecondsMap(value map[string]any) (time.Time, error) {
	seconds, secondsOK := numericField(value, "seconds")
	nanoseconds, nanosecondsOK := numericField(value, "nanoseconds")
	if !secondsOK || !nanosecondsOK {
		return time.Time{}, fmt.Errorf("%w: object missing seconds/nanoseconds", ErrInvalidTimestampFormat)
	}
	return time.Unix(seconds, nanoseconds), nil
}

func numericField(object map[string]any, key string) (int64, bool) {
	raw, present := object[key]
	if !present {
		return 0, false
	}
	switch number := raw.(type) {
	case float64:
		if math.IsNaN(number) || math.IsInf(number, 0) {
			return 0, false
		}
		return int64(number), true
	case int64:
		return number, true
	case int:
		return int64(number), true
	case json.Number:
		parsed, err := number.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
