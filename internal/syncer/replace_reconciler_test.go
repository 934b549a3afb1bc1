package syncer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/yield-rewind/internal/database/sales"
	"github.com/plantops/yield-rewind/internal/database/tank"
	"github.com/plantops/yield-rewind/internal/remote"
)

func salesRow(product, customer string, tr, h2o, pl, os string) remote.SalesRow {
	return remote.SalesRow{
		ProductName:     product,
		ProductDesc:     product + " desc",
		CustomerName:    customer,
		TransactionType: "S",
		VolQtyTR:        dec(tr),
		VolQtyH2O:       dec(h2o),
		VolQtyPL:        dec(pl),
		VolQtyOS:        dec(os),
	}
}

func TestSalesReconciler_ConvertsGallonsToBarrels(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewSalesReconciler(db)

	counters, err := r.ReconcileDay("2025-03-11", []remote.SalesRow{
		salesRow("DIESEL", "ACME", "84", "42", "0", "0"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counters.Fetched)
	assert.Equal(t, 1, counters.Inserted)

	stored, err := sales.NewRepository(db).ForDate("2025-03-11")
	require.NoError(t, err)
	require.Len(t, stored, 1)

	assert.True(t, stored[0].VolQtyTR.Equal(decimal.NewFromInt(2)), "84 gal = 2 bbl, got %s", stored[0].VolQtyTR)
	assert.True(t, stored[0].VolQtyH2O.Equal(decimal.NewFromInt(1)))
	assert.True(t, stored[0].VolQtyTotal.Equal(decimal.NewFromInt(3)), "total is the component sum")
}

func TestSalesReconciler_ConvergesToLatestFetch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewSalesReconciler(db)

	_, err := r.ReconcileDay("2025-03-11", []remote.SalesRow{
		salesRow("DIESEL", "ACME", "42", "0", "0", "0"),
		salesRow("JET-A", "GLOBEX", "42", "0", "0", "0"),
	})
	require.NoError(t, err)

	// Second fetch for the same day returns different rows.
	_, err = r.ReconcileDay("2025-03-11", []remote.SalesRow{
		salesRow("DIESEL", "INITECH", "84", "0", "0", "0"),
	})
	require.NoError(t, err)

	stored, err := sales.NewRepository(db).ForDate("2025-03-11")
	require.NoError(t, err)
	require.Len(t, stored, 1, "no leftovers from the first fetch")
	assert.Equal(t, "INITECH", stored[0].CustomerName)
}

func TestSalesReconciler_OtherDaysUntouched(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewSalesReconciler(db)

	_, err := r.ReconcileDay("2025-03-10", []remote.SalesRow{salesRow("DIESEL", "ACME", "42", "0", "0", "0")})
	require.NoError(t, err)
	_, err = r.ReconcileDay("2025-03-11", nil)
	require.NoError(t, err)

	stored, err := sales.NewRepository(db).ForDate("2025-03-10")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func tankRow(date, name string, hc, h2o string) remote.TankRow {
	return remote.TankRow{
		Date:        date,
		TankName:    name,
		ProductName: "CRUDE",
		HCVolume:    dec(hc),
		H2OVolume:   dec(h2o),
	}
}

func TestTankReconciler_ReplacesWindow(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewTankReconciler(db)

	_, err := r.ReconcileRange("2025-03-10", "2025-03-11", []remote.TankRow{
		tankRow("2025-03-10", "TK-101", "500", "10"),
		tankRow("2025-03-11", "TK-101", "480", "12"),
	})
	require.NoError(t, err)

	counters, err := r.ReconcileRange("2025-03-10", "2025-03-11", []remote.TankRow{
		tankRow("2025-03-10", "TK-101", "505", "10"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, counters.Inserted)

	stored, err := tank.NewRepository(db).ForRange("2025-03-10", "2025-03-11")
	require.NoError(t, err)
	require.Len(t, stored, 1, "window converges to the latest fetch")
	assert.True(t, stored[0].HCVolume.Equal(decimal.RequireFromString("505")))
	assert.True(t, stored[0].TotalVolume.Equal(decimal.RequireFromString("515")), "total = hc + h2o")
}

func TestTankReconciler_OutsideWindowUntouched(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewTankReconciler(db)

	_, err := r.ReconcileRange("2025-03-01", "2025-03-01", []remote.TankRow{tankRow("2025-03-01", "TK-101", "500", "0")})
	require.NoError(t, err)
	_, err = r.ReconcileRange("2025-03-02", "2025-03-03", nil)
	require.NoError(t, err)

	stored, err := tank.NewRepository(db).ForRange("2025-03-01", "2025-03-01")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
