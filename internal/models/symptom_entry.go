package models

import (
	"encoding/json"
	"time"

	"github.com/tobyshem/symtrack/internal/timeparse"
)

// SymptomEntry holds one day's recorded values. Values is keyed by
// FieldDefinition.Title; the unique index closes the duplicate-day race the
// original find-then-create pattern left open.
type SymptomEntry struct {
	ID        string           `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;uniqueIndex:uidx_entry_user_day" json:"-"`
	EntryDate time.Time        `gorm:"type:date;not null;uniqueIndex:uidx_entry_user_day" json:"entry_date"`
	Values    map[string]Value `gorm:"serializer:json" json:"values"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// UnmarshalJSON tolerates every date shape the cache file and older clients
// produce (RFC 3339, bare date, seconds/nanoseconds object) by routing the
// raw field through the timestamp normalizer.
func (entry *SymptomEntry) UnmarshalJSON(data []byte) error {
	type alias SymptomEntry
	decoded := struct {
		*alias
		EntryDate json.RawMessage `json:"entry_date"`
	}{alias: (*alias)(entry)}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if len(decoded.EntryDate) == 0 || string(decoded.EntryDate) == "null" {
		return nil
	}
	parsed, err := timeparse.Normalize(decoded.EntryDate)
	if err != nil {
		return err
	}
	entry.EntryDate = parsed
	return nil
}
