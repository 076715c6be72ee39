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

type FieldRepository interface {
	ListByUser(userID uint) ([]models.FieldDefinition, error)
	FindByID(fieldID string) (models.FieldDefinition, error)
	Create(field *models.FieldDefinition) error
	Save(field *models.FieldDefinition) error
	Delete(field *models.FieldDefinition) error
}

// FieldService is the record access layer for field definitions: reads come
// from the per-user cache when a valid snapshot exists, writes go to the
// repository first and then patch the snapshot in place.
type FieldService struct {
	fields FieldRepository
	store  *cache.Store[models.FieldDefinition]
	now    func() time.Time
}

func NewFieldService(fields FieldRepository, store *cache.Store[models.FieldDefinition]) *FieldService {
	return &FieldService{
		fields: fields,
		store:  store,
		now:    time.Now,
	}
}

// SetClock replaces the time source used for locally synthesized timestamps.
func (service *FieldService) SetClock(now func() time.Time) {
	service.now = now
}

// FetchFields returns the user's field definitions ordered by their order
// attribute ascending, ties broken by insertion order.
func (service *FieldService) FetchFields(userID uint) ([]models.FieldDefinition, error) {
	if userID == 0 {
		return nil, ErrInvalidUserID
	}

	if cached, hit := service.store.Get(userID); hit {
		sortFieldsByOrder(cached)
		return cached, nil
	}

	fields, err := service.fields.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list fields: %v", ErrRemoteOperationFailed, err)
	}
	service.store.Put(userID, fields)
	return fields, nil
}

// sortFieldsByOrder re-sorts a cached snapshot whose order may have drifted
// through in-place patches. SortStable keeps insertion order for ties.
func sortFieldsByOrder(fields []models.FieldDefinition) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].FieldOrder < fields[j].FieldOrder
	})
}

// CreateField validates and persists a new definition, then patches the
// cache with a locally stamped copy. The repository assigns the opaque id.
func (service *FieldService) CreateField(userID uint, input FieldInput) (models.FieldDefinition, error) {
	if userID == 0 {
		return models.FieldDefinition{}, ErrInvalidUserID
	}
	if err := ValidateFieldInput(input); err != nil {
		return models.FieldDefinition{}, err
	}
	if err := service.checkTitleFree(userID, input.Title, ""); err != nil {
		return models.FieldDefinition{}, err
	}

	field := fieldFromInput(userID, input)
	now := service.now()
	field.CreatedAt = now
	field.UpdatedAt = now
	if err := service.fields.Create(&field); err != nil {
		return models.FieldDefinition{}, fmt.Errorf("%w: create field: %v", ErrRemoteOperationFailed, err)
	}

	service.store.PatchInsert(userID, field)
	return field, nil
}

// UpdateField replaces the stored definition wholesale after verifying the
// record exists and belongs to the caller.
func (service *FieldService) UpdateField(userID uint, fieldID string, input FieldInput) (models.FieldDefinition, error) {
	if userID == 0 {
		return models.FieldDefinition{}, ErrInvalidUserID
	}
	if err := ValidateFieldInput(input); err != nil {
		return models.FieldDefinition{}, err
	}

	existing, err := service.findOwnedField(userID, fieldID)
	if err != nil {
		return models.FieldDefinition{}, err
	}
	if err := service.checkTitleFree(userID, input.Title, existing.ID); err != nil {
		return models.FieldDefinition{}, err
	}

	updated := fieldFromInput(userID, input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = service.now()
	if err := service.fields.Save(&updated); err != nil {
		return models.FieldDefinition{}, fmt.Errorf("%w: update field: %v", ErrRemoteOperationFailed, err)
	}

	service.store.PatchUpdate(userID, updated)
	return updated, nil
}

// DeleteField removes an owned definition and drops it from the cache.
func (service *FieldService) DeleteField(userID uint, fieldID string) error {
	if userID == 0 {
		return ErrInvalidUserID
	}

	existing, err := service.findOwnedField(userID, fieldID)
	if err != nil {
		return err
	}
	if err := service.fields.Delete(&existing); err != nil {
		return fmt.Errorf("%w: delete field: %v", ErrRemoteOperationFailed, err)
	}

	service.store.PatchRemove(userID, existing.ID)
	return nil
}

// ClearCache drops the user's cached snapshot.
func (service *FieldService) ClearCache(userID uint) {
	service.store.Clear(userID)
}

// checkTitleFree rejects a title another definition already claims. Entries
// store values keyed by title, so a duplicate would shadow the existing
// field's recorded data.
func (service *FieldService) checkTitleFree(userID uint, title string, excludeID string) error {
	fields, err := service.FetchFields(userID)
	if err != nil {
		return err
	}
	for _, field := range fields {
		if field.ID != excludeID && field.Title == title {
			return fmt.Errorf("%w: title %q already in use", ErrFieldValidationFailed, title)
		}
	}
	return nil
}

func (service *FieldService) findOwnedField(userID uint, fieldID string) (models.FieldDefinition, error) {
	if fieldID == "" {
		return models.FieldDefinition{}, fmt.Errorf("%w: missing field id", ErrInvalidRecordData)
	}
	existing, err := service.fields.FindByID(fieldID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.FieldDefinition{}, ErrNotFound
	}
	if err != nil {
		return models.FieldDefinition{}, fmt.Errorf("%w: load field: %v", ErrRemoteOperationFailed, err)
	}
	if existing.UserID != userID {
		return models.FieldDefinition{}, ErrPermissionDenied
	}
	return existing, nil
}

func fieldFromInput(userID uint, input FieldInput) models.FieldDefinition {
	return models.FieldDefinition{
		UserID:     userID,
		Title:      input.Title,
		Label:      input.Label,
		Type:       input.Type,
		FieldOrder: input.Order,
		Multiline:  input.Multiline,
		PointColor: input.PointColor,
		PointStyle: input.PointStyle,
		Values:     nonEmptyStrings(input.Values),
		Minimum:    input.Minimum,
		Maximum:    input.Maximum,
	}
}
