package entities

import "time"

// Watermark is the single per-dataset resume cursor. The row is overwritten
// on every completed run; LastSyncedDate only moves forward when every day in
// the attempted window succeeded, so failed days are naturally re-attempted
// by the next incremental sync.
type Watermark struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Dataset        Dataset   `gorm:"size:20;uniqueIndex" json:"dataset"`
	LastSyncedDate *string   `gorm:"size:10" json:"last_synced_date,omitempty"`
	LastSyncAt     time.Time `json:"last_sync_at"`
	RecordsSynced  int       `json:"records_synced"`
	SyncDurationMS int64     `json:"sync_duration_ms"`
	Status         RunStatus `gorm:"size:20" json:"status"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
}

func (Watermark) TableName() string {
	return "sync_status"
}
