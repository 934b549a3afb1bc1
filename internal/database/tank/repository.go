// Package tank provides database operations for the tank_data table.
//
// Tank inventory is bulk replace-window data: the sync deletes the whole
// affected date range and reinserts the latest fetch in one transaction.
package tank

import (
	"gorm.io/gorm"

	"github.com/plantops/yield-rewind/internal/entities"
)

// Repository handles tank_data database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// DeleteRange removes every stored row whose date falls in [start, end].
func (r *Repository) DeleteRange(start, end string) error {
	return r.db.Where("date BETWEEN ? AND ?", start, end).Delete(&entities.TankRecord{}).Error
}

// Insert stores freshly fetched rows.
func (r *Repository) Insert(records []entities.TankRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

// ForRange returns the stored rows with dates in [start, end].
func (r *Repository) ForRange(start, end string) ([]entities.TankRecord, error) {
	var records []entities.TankRecord
	err := r.db.Where("date BETWEEN ? AND ?", start, end).
		Order("date, tank_name").Find(&records).Error
	return records, err
}
