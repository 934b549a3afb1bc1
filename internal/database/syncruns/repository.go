// Package syncruns provides database operations for the sync_log table.
//
// Every sync attempt gets exactly one row: created with status running
// before any record writes happen, finalized exactly once with the terminal
// status and the aggregated counters.
package syncruns

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/plantops/yield-rewind/internal/entities"
)

// Counters aggregates per-record classification counts over a run.
type Counters struct {
	Fetched   int `json:"fetched"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}

// Add accumulates another batch of counts.
func (c *Counters) Add(other Counters) {
	c.Fetched += other.Fetched
	c.Inserted += other.Inserted
	c.Updated += other.Updated
	c.Unchanged += other.Unchanged
}

// Repository handles sync_log database operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Begin creates the run record with status running and returns its id.
func (r *Repository) Begin(dataset entities.Dataset, mode entities.SyncMode, reason, invocationID, start, end string) (*entities.SyncRun, error) {
	run := entities.SyncRun{
		Dataset:        dataset,
		Mode:           mode,
		Reason:         reason,
		InvocationID:   invocationID,
		DateRangeStart: start,
		DateRangeEnd:   end,
		StartedAt:      time.Now(),
		Status:         entities.RunStatusRunning,
	}
	if err := r.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to create sync log entry: %w", err)
	}
	return &run, nil
}

// Complete finalizes a running run. The update is guarded on the running
// status so a terminal run can never be re-opened or overwritten.
func (r *Repository) Complete(runID uint, status entities.RunStatus, counters Counters, errorMessage string) error {
	now := time.Now()
	result := r.db.Model(&entities.SyncRun{}).
		Where("id = ? AND status = ?", runID, entities.RunStatusRunning).
		Updates(map[string]any{
			"completed_at":      now,
			"status":            status,
			"records_fetched":   counters.Fetched,
			"records_inserted":  counters.Inserted,
			"records_updated":   counters.Updated,
			"records_unchanged": counters.Unchanged,
			"error_message":     errorMessage,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("sync run %d is not running (already finalized?)", runID)
	}
	return nil
}

// Get retrieves a single run by id.
func (r *Repository) Get(runID uint) (*entities.SyncRun, error) {
	var run entities.SyncRun
	if err := r.db.First(&run, runID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// Recent returns the latest runs, newest first, optionally filtered by
// dataset.
func (r *Repository) Recent(dataset string, limit int) ([]entities.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	q := r.db.Order("id DESC").Limit(limit)
	if dataset != "" {
		q = q.Where("dataset = ?", dataset)
	}
	var runs []entities.SyncRun
	err := q.Find(&runs).Error
	return runs, err
}
