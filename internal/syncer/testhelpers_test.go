package syncer

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plantops/yield-rewind/internal/entities"
	"github.com/plantops/yield-rewind/internal/remote"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_syncer_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.YieldRecord{},
		&entities.YieldHistory{},
		&entities.SalesRecord{},
		&entities.TankRecord{},
		&entities.SyncRun{},
		&entities.Watermark{},
	)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func dec(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

func yieldRow(product string, oi, rec, ship, blend, ci string) remote.YieldRow {
	return remote.YieldRow{
		ProductClass: "P",
		ProductName:  product,
		OIQty:        dec(oi),
		RecQty:       dec(rec),
		ShipQty:      dec(ship),
		BlendQty:     dec(blend),
		CIQty:        dec(ci),
	}
}

// yieldRowsFor builds one fetchable row per date.
func yieldRowsFor(dates ...string) map[string][]remote.YieldRow {
	m := make(map[string][]remote.YieldRow, len(dates))
	for _, d := range dates {
		m[d] = []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "20", "3", "2")}
	}
	return m
}

// fakeFetcher serves canned rows and errors keyed by date.
type fakeFetcher struct {
	pingErr   error
	yieldRows map[string][]remote.YieldRow
	yieldErrs map[string]error
	salesRows map[string][]remote.SalesRow
	salesErrs map[string]error
	tankRows  []remote.TankRow
	tankErr   error

	yieldDates []string
}

func (f *fakeFetcher) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeFetcher) FetchYieldDay(ctx context.Context, date string) ([]remote.YieldRow, error) {
	f.yieldDates = append(f.yieldDates, date)
	if err := f.yieldErrs[date]; err != nil {
		return nil, err
	}
	return f.yieldRows[date], nil
}

func (f *fakeFetcher) FetchSalesDay(ctx context.Context, date string) ([]remote.SalesRow, error) {
	if err := f.salesErrs[date]; err != nil {
		return nil, err
	}
	return f.salesRows[date], nil
}

func (f *fakeFetcher) FetchTankRange(ctx context.Context, start, end string) ([]remote.TankRow, error) {
	if f.tankErr != nil {
		return nil, f.tankErr
	}
	return f.tankRows, nil
}
