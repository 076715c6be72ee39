package db

import (
	"github.com/google/uuid"
	"github.com/tobyshem/symtrack/internal/models"
	"gorm.io/gorm"
)

type FieldRepository struct {
	database *gorm.DB
}

func NewFieldRepository(database *gorm.DB) *FieldRepository {
	return &FieldRepository{database: database}
}

// ListByUser returns the user's definitions ordered by their display order,
// ties resolved by insertion order.
func (repo *FieldRepository) ListByUser(userID uint) ([]models.FieldDefinition, error) {
	fields := make([]models.FieldDefinition, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("field_order ASC, created_at ASC, id ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (repo *FieldRepository) FindByID(fieldID string) (models.FieldDefinition, error) {
	var field models.FieldDefinition
	if err := repo.database.Where("id = ?", fieldID).First(&field).Error; err != nil {
		return models.FieldDefinition{}, err
	}
	return field, nil
}

// Create persists a new definition, assigning its opaque identifier.
func (repo *FieldRepository) Create(field *models.FieldDefinition) error {
	if field.ID == "" {
		field.ID = uuid.NewString()
	}
	return repo.database.Create(field).Error
}

func (repo *FieldRepository) Save(field *models.FieldDefinition) error {
	return repo.database.Save(field).Error
}

func (repo *FieldRepository) Delete(field *models.FieldDefinition) error {
	return repo.database.Delete(field).Error
}
