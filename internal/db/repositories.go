package db

import "gorm.io/gorm"

type Repositories struct {
	Users   *UserRepository
	Fields  *FieldRepository
	Entries *EntryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		Fields:  NewFieldRepository(database),
		Entries: NewEntryRepository(database),
	}
}
