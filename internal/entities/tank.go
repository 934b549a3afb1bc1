package entities

import "github.com/shopspring/decimal"

// TankRecord is one tank's reconciled inventory for a day. Like sales it is
// replace-window data: TotalVolume = HCVolume + H2OVolume, derived at insert.
type TankRecord struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        string          `gorm:"size:10;index" json:"date"`
	TankName    string          `gorm:"size:64" json:"tank_name"`
	ProductName string          `gorm:"size:128" json:"product_name"`
	HCVolume    decimal.Decimal `gorm:"type:decimal(20,6)" json:"hc_volume"`
	H2OVolume   decimal.Decimal `gorm:"type:decimal(20,6)" json:"h2o_volume"`
	TotalVolume decimal.Decimal `gorm:"type:decimal(20,6)" json:"total_volume"`
}

func (TankRecord) TableName() string {
	return "tank_data"
}
