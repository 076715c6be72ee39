package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/tobyshem/symtrack/internal/models"
	"gorm.io/gorm"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) ListByUser(userID uint) ([]models.SymptomEntry, error) {
	entries := make([]models.SymptomEntry, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("entry_date ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) FindByUserAndDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (models.SymptomEntry, bool, error) {
	entry := models.SymptomEntry{}
	result := repo.database.
		Where("user_id = ? AND entry_date >= ? AND entry_date < ?", userID, dayStart, dayEnd).
		Order("entry_date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.SymptomEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SymptomEntry{}, false, nil
	}
	return entry, true, nil
}

func (repo *EntryRepository) FindByID(entryID string) (models.SymptomEntry, error) {
	var entry models.SymptomEntry
	if err := repo.database.Where("id = ?", entryID).First(&entry).Error; err != nil {
		return models.SymptomEntry{}, err
	}
	return entry, nil
}

// Create persists a new entry, assigning its opaque identifier.
func (repo *EntryRepository) Create(entry *models.SymptomEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return repo.database.Create(entry).Error
}

func (repo *EntryRepository) Save(entry *models.SymptomEntry) error {
	return repo.database.Save(entry).Error
}

func (repo *EntryRepository) Delete(entry *models.SymptomEntry) error {
	return repo.database.Delete(entry).Error
}
