package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// YieldRecord is the current state of one product's yield figures for one
// day. At most one row exists per (date, product_name); SourceHash always
// matches the fingerprint of the stored measure fields.
type YieldRecord struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Date         string          `gorm:"size:10;uniqueIndex:idx_yield_date_product" json:"date"`
	ProductName  string          `gorm:"size:128;uniqueIndex:idx_yield_date_product" json:"product_name"`
	ProductClass string          `gorm:"size:8" json:"product_class"`
	OIQty        decimal.Decimal `gorm:"type:decimal(20,6)" json:"oi_qty"`
	RecQty       decimal.Decimal `gorm:"type:decimal(20,6)" json:"rec_qty"`
	ShipQty      decimal.Decimal `gorm:"type:decimal(20,6)" json:"ship_qty"`
	BlendQty     decimal.Decimal `gorm:"type:decimal(20,6)" json:"blend_qty"`
	CIQty        decimal.Decimal `gorm:"type:decimal(20,6)" json:"ci_qty"`
	YieldQty     decimal.Decimal `gorm:"type:decimal(20,6)" json:"yield_qty"`
	SourceHash   string          `gorm:"size:32" json:"source_hash"`

	SyncCount      int       `json:"sync_count"`
	FirstSyncedAt  time.Time `json:"first_synced_at"`
	LastModifiedAt time.Time `json:"last_modified_at"`
	LastSyncID     uint      `gorm:"index" json:"last_sync_id"`
}

func (YieldRecord) TableName() string {
	return "yield_data"
}

// ChangeType tags a history snapshot with the kind of sync that caused it.
type ChangeType string

const (
	ChangeTypeUpdate            ChangeType = "update"
	ChangeTypePriorMonthRefresh ChangeType = "prior_month_refresh"
)

// YieldHistory is an immutable snapshot of a YieldRecord taken immediately
// before the record was overwritten. Rows are only ever inserted.
type YieldHistory struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OriginalID   uint            `gorm:"index" json:"original_id"`
	Date         string          `gorm:"size:10;index" json:"date"`
	ProductName  string          `gorm:"size:128;index" json:"product_name"`
	ProductClass string          `gorm:"size:8" json:"product_class"`
	OIQty        decimal.Decimal `gorm:"type:decimal(20,6)" json:"oi_qty"`
	RecQty       decimal.Decimal `gorm:"type:decimal(20,6)" json:"rec_qty"`
	ShipQty      decimal.Decimal `gorm:"type:decimal(20,6)" json:"ship_qty"`
	BlendQty     decimal.Decimal `gorm:"type:decimal(20,6)" json:"blend_qty"`
	CIQty        decimal.Decimal `gorm:"type:decimal(20,6)" json:"ci_qty"`
	YieldQty     decimal.Decimal `gorm:"type:decimal(20,6)" json:"yield_qty"`

	PreviousYieldQty decimal.Decimal `gorm:"type:decimal(20,6)" json:"previous_yield_qty"`
	SyncID           uint            `gorm:"index" json:"sync_id"`
	ChangeType       ChangeType      `gorm:"size:32" json:"change_type"`
	CapturedAt       time.Time       `json:"captured_at"`
}

func (YieldHistory) TableName() string {
	return "yield_data_history"
}
