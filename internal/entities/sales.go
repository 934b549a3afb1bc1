package entities

import "github.com/shopspring/decimal"

// SalesRecord is one shipment line for a day. Sales carries no history: the
// affected window is deleted and reinserted on every sync, so the stored rows
// always mirror the latest fetch.
//
// Volumes arrive from the source in gallons and are stored in barrels;
// VolQtyTotal is the sum of the four components, computed at insert time.
type SalesRecord struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Date            string          `gorm:"size:10;index" json:"date"`
	ProductName     string          `gorm:"size:128" json:"product_name"`
	ProductDesc     string          `gorm:"size:256" json:"product_desc"`
	CustomerName    string          `gorm:"size:128" json:"customer_name"`
	TransactionType string          `gorm:"size:16" json:"transaction_type"`
	VolQtyTR        decimal.Decimal `gorm:"type:decimal(20,6)" json:"vol_qty_tr"`
	VolQtyH2O       decimal.Decimal `gorm:"type:decimal(20,6)" json:"vol_qty_h2o"`
	VolQtyPL        decimal.Decimal `gorm:"type:decimal(20,6)" json:"vol_qty_pl"`
	VolQtyOS        decimal.Decimal `gorm:"type:decimal(20,6)" json:"vol_qty_os"`
	VolQtyTotal     decimal.Decimal `gorm:"type:decimal(20,6)" json:"vol_qty_total"`
}

func (SalesRecord) TableName() string {
	return "sales_data"
}
