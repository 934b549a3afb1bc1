// Package yield provides database operations for yield records and their
// append-only history ledger.
package yield

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/plantops/yield-rewind/internal/entities"
)

// Repository handles yield_data and yield_data_history operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction, so
// a whole day's reconciliation shares one atomic unit.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Find looks up the current record for (date, product), or nil if none.
func (r *Repository) Find(date, productName string) (*entities.YieldRecord, error) {
	var rec entities.YieldRecord
	err := r.db.Where("date = ? AND product_name = ?", date, productName).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Insert creates a brand-new record: first sync of this (date, product) key.
func (r *Repository) Insert(rec *entities.YieldRecord) error {
	now := time.Now()
	rec.SyncCount = 1
	rec.FirstSyncedAt = now
	rec.LastModifiedAt = now
	return r.db.Create(rec).Error
}

// Update overwrites a changed record in place. FirstSyncedAt is preserved;
// SyncCount is bumped by the caller-visible state already loaded in rec.
func (r *Repository) Update(rec *entities.YieldRecord) error {
	rec.SyncCount++
	rec.LastModifiedAt = time.Now()
	return r.db.Save(rec).Error
}

// CaptureHistory appends a snapshot of the pre-change record to the ledger.
// Called exactly once per detected change, immediately before Update.
func (r *Repository) CaptureHistory(prior *entities.YieldRecord, syncID uint, changeType entities.ChangeType) error {
	snapshot := entities.YieldHistory{
		OriginalID:       prior.ID,
		Date:             prior.Date,
		ProductName:      prior.ProductName,
		ProductClass:     prior.ProductClass,
		OIQty:            prior.OIQty,
		RecQty:           prior.RecQty,
		ShipQty:          prior.ShipQty,
		BlendQty:         prior.BlendQty,
		CIQty:            prior.CIQty,
		YieldQty:         prior.YieldQty,
		PreviousYieldQty: prior.YieldQty,
		SyncID:           syncID,
		ChangeType:       changeType,
		CapturedAt:       time.Now(),
	}
	return r.db.Create(&snapshot).Error
}

// History returns ledger entries, newest first. Date and product filters are
// optional.
func (r *Repository) History(date, productName string, limit int) ([]entities.YieldHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	q := r.db.Order("id DESC").Limit(limit)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	if productName != "" {
		q = q.Where("product_name = ?", productName)
	}
	var entries []entities.YieldHistory
	err := q.Find(&entries).Error
	return entries, err
}

// HistoryCount reports the total number of ledger entries for a key.
func (r *Repository) HistoryCount(date, productName string) (int64, error) {
	var n int64
	err := r.db.Model(&entities.YieldHistory{}).
		Where("date = ? AND product_name = ?", date, productName).
		Count(&n).Error
	return n, err
}
