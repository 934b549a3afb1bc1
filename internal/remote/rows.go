package remote

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Row types mirror the column sets the remote procedures and views return.
// Each dataset declares its fields once here; the reconcilers downstream work
// with these typed records and never probe a row for column presence.
//
// Numeric measures scan through NullDecimal because the source routinely
// returns NULL for days a product had no movement; Value() coerces those to
// zero, which is also what the fingerprint expects.

// YieldRow is one product's daily figures from the yield reporting procedure.
type YieldRow struct {
	ProductClass string              `gorm:"column:prdt_clss_cde"`
	ProductName  string              `gorm:"column:smry_prdt_nme"`
	OIQty        decimal.NullDecimal `gorm:"column:oi_qty"`
	RecQty       decimal.NullDecimal `gorm:"column:rec_qty"`
	ShipQty      decimal.NullDecimal `gorm:"column:ship_qty"`
	BlendQty     decimal.NullDecimal `gorm:"column:blend_qty"`
	CIQty        decimal.NullDecimal `gorm:"column:ci_qty"`
}

// SalesRow is one shipment line from the sales summary procedure. Volumes
// are in gallons as fetched; conversion to barrels happens at insert time.
type SalesRow struct {
	ProductName     string              `gorm:"column:prdt_nme"`
	ProductDesc     string              `gorm:"column:prdt_desc_txt"`
	CustomerName    string              `gorm:"column:cust_nme"`
	TransactionType string              `gorm:"column:trns_type_cde"`
	VolQtyTR        decimal.NullDecimal `gorm:"column:vol_qty_tr"`
	VolQtyH2O       decimal.NullDecimal `gorm:"column:vol_qty_h2o"`
	VolQtyPL        decimal.NullDecimal `gorm:"column:vol_qty_pl"`
	VolQtyOS        decimal.NullDecimal `gorm:"column:vol_qty_os"`
}

// TankRow is one tank's reconciled volumes from the tank review view.
type TankRow struct {
	Date        string              `gorm:"column:date"`
	TankName    string              `gorm:"column:tank_name"`
	ProductName string              `gorm:"column:product_name"`
	HCVolume    decimal.NullDecimal `gorm:"column:hc_volume"`
	H2OVolume   decimal.NullDecimal `gorm:"column:h2o_volume"`
}

// Value coerces a NULL measure to zero.
func Value(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func (r *YieldRow) normalize() {
	r.ProductClass = strings.TrimSpace(r.ProductClass)
	r.ProductName = strings.TrimSpace(r.ProductName)
}

func (r *SalesRow) normalize() {
	r.ProductName = strings.TrimSpace(r.ProductName)
	r.ProductDesc = strings.TrimSpace(r.ProductDesc)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.TransactionType = strings.TrimSpace(r.TransactionType)
}

func (r *TankRow) normalize() {
	r.TankName = strings.TrimSpace(r.TankName)
	r.ProductName = strings.TrimSpace(r.ProductName)
	if len(r.Date) > 10 {
		r.Date = r.Date[:10]
	}
}
