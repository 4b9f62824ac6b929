// Package sessionstore implements fiber.Storage on the sessions table through gorm.
// It serves the sqlite engine, which has no gofiber storage driver of its own.
package sessionstore

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PropertyLens/PropertyLens/internal/db/models"
)

const keyQueryPattern = "k = ?"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

var _ fiber.Storage = (*Store)(nil)

// Store is a gorm backed fiber.Storage.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates the store. The sessions table must already be migrated.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db, now: time.Now}, nil
}

// Get returns the value of key, or nil if it is missing or expired.
func (s *Store) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var record models.SessionRecord

	result := s.db.Where(keyQueryPattern, key).Limit(1).Find(&record)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	if record.Expires != 0 && record.Expires <= s.now().Unix() {
		return nil, nil
	}

	return record.Value, nil
}

// Set stores val under key. A zero exp never expires.
func (s *Store) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	record := models.SessionRecord{Key: key, Value: val}
	if exp > 0 {
		record.Expires = s.now().Add(exp).Unix()
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v", "e"}),
	}).Create(&record).Error
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	if key == "" {
		return nil
	}

	return s.db.Where(keyQueryPattern, key).Delete(&models.SessionRecord{}).Error
}

// Reset removes every session.
func (s *Store) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SessionRecord{}).Error
}

// Close is a no-op, the connection is owned by the caller.
func (s *Store) Close() error {
	return nil
}

// GC removes expired rows and returns how many were deleted.
func (s *Store) GC() (int64, error) {
	result := s.db.Where("e <> 0 AND e <= ?", s.now().Unix()).Delete(&models.SessionRecord{})

	return result.RowsAffected, result.Error
}
