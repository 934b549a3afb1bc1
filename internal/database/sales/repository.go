// Package sales provides database operations for the sales_data table.
//
// Sales is replace-window data: the sync deletes a day's rows and reinserts
// the latest fetch, so there is no per-record change tracking here.
package sales

import (
	"gorm.io/gorm"

	"github.com/plantops/yield-rewind/internal/entities"
)

// Repository handles sales_data database operations.
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

// DeleteDay removes every stored row for the date.
func (r *Repository) DeleteDay(date string) error {
	return r.db.Where("date = ?", date).Delete(&entities.SalesRecord{}).Error
}

// Insert stores freshly fetched rows.
func (r *Repository) Insert(records []entities.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Create(&records).Error
}

// ForDate returns the stored rows for a date.
func (r *Repository) ForDate(date string) ([]entities.SalesRecord, error) {
	var records []entities.SalesRecord
	err := r.db.Where("date = ?", date).Order("product_name").Find(&records).Error
	return records, err
}
