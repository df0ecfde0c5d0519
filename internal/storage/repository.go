package storage

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the raw document under key. found is false when the key was
// never written.
func (r *Repository) Get(key string) (value []byte, found bool, err error) {
	var c Collection
	err = r.db.Where("name = ?", key).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(c.Value), true, nil
}

func (r *Repository) Put(key string, value []byte) error {
	c := Collection{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&c).Error
}

func (r *Repository) Delete(key string) error {
	return r.db.Where("name = ?", key).Delete(&Collection{}).Error
}

func (r *Repository) Keys() ([]string, error) {
	var keys []string
	err := r.db.Model(&Collection{}).Order("name").Pluck("name", &keys).Error
	return keys, err
}

// Transaction runs fn against a repository bound to a single transaction.
// Returning an error from fn rolls every write back.
func (r *Repository) Transaction(fn func(tx *Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}
