package entities

import "time"

type SyncMode string

const (
	SyncModeFull        SyncMode = "full"
	SyncModeIncremental SyncMode = "incremental"
	SyncModeWindowed    SyncMode = "windowed"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusPartial RunStatus = "partial"
	RunStatusFailed  RunStatus = "failed"
)

// SyncRun is one row per sync attempt per dataset. It is created with status
// running before any record is written, so every record and history row
// written during the run references a valid sync id, and finalized exactly
// once. InvocationID groups the dataset runs of a single process invocation.
type SyncRun struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Dataset        Dataset   `gorm:"size:20;index" json:"dataset"`
	Mode           SyncMode  `gorm:"size:20" json:"mode"`
	Reason         string    `gorm:"size:64" json:"reason"`
	InvocationID   string    `gorm:"size:36;index" json:"invocation_id"`
	DateRangeStart string    `gorm:"size:10" json:"date_range_start"`
	DateRangeEnd   string    `gorm:"size:10" json:"date_range_end"`
	StartedAt      time.Time `json:"started_at"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      RunStatus  `gorm:"size:20;index" json:"status"`

	RecordsFetched   int `json:"records_fetched"`
	RecordsInserted  int `json:"records_inserted"`
	RecordsUpdated   int `json:"records_updated"`
	RecordsUnchanged int `json:"records_unchanged"`

	ErrorMessage string `gorm:"type:text" json:"error_message,omitempty"`
}

func (SyncRun) TableName() string {
	return "sync_log"
}
