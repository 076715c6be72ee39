package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tobyshem/symtrack/internal/cache"
	"github.com/tobyshem/symtrack/internal/models"
	"gorm.io/gorm"
)

var ErrFutureEntryDate = errors.New("entry date is in the future")

type EntryRepository interface {
	ListByUser(userID uint) ([]models.SymptomEntry, error)
	FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.SymptomEntry, bool, error)
	FindByID(entryID string) (models.SymptomEntry, error)
	Create(entry *models.SymptomEntry) error
	Save(entry *models.SymptomEntry) error
	Delete(entry *models.SymptomEntry) error
}

// EntryFieldReader supplies the current field definitions an entry's values
// are validated against.
type EntryFieldReader interface {
	FetchFields(userID uint) ([]models.FieldDefinition, error)
}

// EntryQuery narrows and orders a FetchEntries result. Range bounds are
// inclusive of the whole calendar day they fall on.
type EntryQuery struct {
	From       *time.Time
	To         *time.Time
	Descending bool
	Limit      int
}

// EntryService is the record access layer for symptom entries. The cache
// always holds the user's full ascending history; range filters and ordering
// are applied in memory on both hits and misses so the two paths agree.
type EntryService struct {
	entries  EntryRepository
	fields   EntryFieldReader
	store    *cache.Store[models.SymptomEntry]
	location *time.Location
	now      func() time.Time
}

func NewEntryService(entries EntryRepository, fields EntryFieldReader, store *cache.Store[models.SymptomEntry], location *time.Location) *EntryService {
	if location == nil {
		location = time.UTC
	}
	return &EntryService{
		entries:  entries,
		fields:   fields,
		store:    store,
		location: location,
		now:      time.Now,
	}
}

func (service *EntryService) SetClock(now func() time.Time) {
	service.now = now
}

// FetchEntries returns the user's entries matching the query, ordered by
// date.
func (service *EntryService) FetchEntries(userID uint, query EntryQuery) ([]models.SymptomEntry, error) {
	entries, err := service.fetchAll(userID)
	if err != nil {
		return nil, err
	}
	return applyEntryQuery(entries, query, service.location), nil
}

// FetchEntryForDay finds the single entry recorded on the given calendar
// day, scanning the cached history the way the tracker view does.
func (service *EntryService) FetchEntryForDay(userID uint, day time.Time) (models.SymptomEntry, bool, error) {
	entries, err := service.fetchAll(userID)
	if err != nil {
		return models.SymptomEntry{}, false, err
	}
	for _, entry := range entries {
		if SameCalendarDay(entry.EntryDate, day, service.location) {
			return entry, true, nil
		}
	}
	return models.SymptomEntry{}, false, nil
}

// UpsertEntry records a day's values: if an entry already exists for the
// calendar day it is replaced, otherwise one is created. The unique index on
// (user, day) backs this up against concurrent sessions.
func (service *EntryService) UpsertEntry(userID uint, day time.Time, rawValues map[string]any) (models.SymptomEntry, error) {
	if userID == 0 {
		return models.SymptomEntry{}, ErrInvalidUserID
	}

	dayStart, dayEnd := DayRange(day, service.location)
	today := DateAtLocation(service.now(), service.location)
	if dayStart.After(today) {
		return models.SymptomEntry{}, ErrFutureEntryDate
	}

	fields, err := service.fields.FetchFields(userID)
	if err != nil {
		return models.SymptomEntry{}, err
	}
	values, err := BuildEntryValues(fields, rawValues)
	if err != nil {
		return models.SymptomEntry{}, err
	}

	existing, found, err := service.entries.FindByUserAndDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return models.SymptomEntry{}, fmt.Errorf("%w: load entry: %v", ErrRemoteOperationFailed, err)
	}

	now := service.now()
	if found {
		existing.Values = values
		existing.UpdatedAt = now
		if err := service.entries.Save(&existing); err != nil {
			return models.SymptomEntry{}, fmt.Errorf("%w: update entry: %v", ErrRemoteOperationFailed, err)
		}
		service.store.PatchUpdate(userID, existing)
		return existing, nil
	}

	entry := models.SymptomEntry{
		UserID:    userID,
		EntryDate: dayStart,
		Values:    values,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.entries.Create(&entry); err != nil {
		return models.SymptomEntry{}, fmt.Errorf("%w: create entry: %v", ErrRemoteOperationFailed, err)
	}
	service.store.PatchInsert(userID, entry)
	return entry, nil
}

// DeleteEntry removes an owned entry by id and drops it from the cache.
func (service *EntryService) DeleteEntry(userID uint, entryID string) error {
	if userID == 0 {
		return ErrInvalidUserID
	}
	if entryID == "" {
		return fmt.Errorf("%w: missing entry id", ErrInvalidRecordData)
	}

	existing, err := service.entries.FindByID(entryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: load entry: %v", ErrRemoteOperationFailed, err)
	}
	if existing.UserID != userID {
		return ErrPermissionDenied
	}

	if err := service.entries.Delete(&existing); err != nil {
		return fmt.Errorf("%w: delete entry: %v", ErrRemoteOperationFailed, err)
	}
	service.store.PatchRemove(userID, existing.ID)
	return nil
}

// ClearCache drops the user's cached snapshot.
func (service *EntryService) ClearCache(userID uint) {
	service.store.Clear(userID)
}

func (service *EntryService) fetchAll(userID uint) ([]models.SymptomEntry, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	if cached, hit := service.store.Get(userID); hit {
		sortEntriesAscending(cached)
		return cached, nil
	}

	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list entries: %v", ErrRemoteOperationFailed, err)
	}
	service.store.Put(userID, entries)
	return entries, nil
}

func applyEntryQuery(entries []models.SymptomEntry, query EntryQuery, location *time.Location) []models.SymptomEntry {
	filtered := make([]models.SymptomEntry, 0, len(entries))
	for _, entry := range entries {
		if query.From != nil {
			fromStart, _ := DayRange(*query.From, location)
			if entry.EntryDate.Before(fromStart) {
				continue
			}
		}
		if query.To != nil {
			_, toEnd := DayRange(*query.To, location)
			if !entry.EntryDate.Before(toEnd) {
				continue
			}
		}
		filtered = append(filtered, entry)
	}

	if query.Descending {
		for left, right := 0, len(filtered)-1; left < right; left, right = left+1, right-1 {
			filtered[left], filtered[right] = filtered[right], filtered[left]
		}
	}
	if query.Limit > 0 && len(filtered) > query.Limit {
		filtered = filtered[:query.Limit]
	}
	return filtered
}

func sortEntriesAscending(entries []models.SymptomEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EntryDate.Before(entries[j].EntryDate)
	})
}
