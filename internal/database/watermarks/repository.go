// Package watermarks provides database operations for the per-dataset sync
// cursor (sync_status table, one row per dataset).
package watermarks

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plantops/yield-rewind/internal/entities"
)

// Repository handles sync_status database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the watermark for a dataset, or nil when no sync has ever
// completed for it.
func (r *Repository) Get(dataset entities.Dataset) (*entities.Watermark, error) {
	var mark entities.Watermark
	err := r.db.Where("dataset = ?", dataset).First(&mark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &mark, nil
}

// All returns the watermark for every dataset that has one.
func (r *Repository) All() ([]entities.Watermark, error) {
	var marks []entities.Watermark
	err := r.db.Order("dataset").Find(&marks).Error
	return marks, err
}

// Upsert replaces the single row for the mark's dataset, inserting it if
// absent. Every field is overwritten, including a nil LastSyncedDate.
func (r *Repository) Upsert(mark *entities.Watermark) error {
	mark.LastSyncAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "dataset"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_synced_date",
			"last_sync_at",
			"records_synced",
			"sync_duration_ms",
			"status",
			"error_message",
		}),
	}).Create(mark).Error
}
