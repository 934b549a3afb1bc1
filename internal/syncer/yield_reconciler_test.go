package syncer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/yield-rewind/internal/database/yield"
	"github.com/plantops/yield-rewind/internal/entities"
	"github.com/plantops/yield-rewind/internal/remote"
)

func TestDeriveYield(t *testing.T) {
	// oi=10, rec=5, ship=20, blend=3, ci=2 -> 3+2-10-5+20 = 10
	got := DeriveYield(
		decimal.NewFromInt(10),
		decimal.NewFromInt(5),
		decimal.NewFromInt(20),
		decimal.NewFromInt(3),
		decimal.NewFromInt(2),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestYieldReconciler_InsertsNewRecords(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewYieldReconciler(db)
	rows := []remote.YieldRow{
		yieldRow("ALKYLATE", "10", "5", "20", "3", "2"),
		yieldRow("BUTANE", "1", "1", "1", "1", "1"),
	}

	counters, err := r.ReconcileDay("2025-03-11", rows, 7, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	assert.Equal(t, 2, counters.Fetched)
	assert.Equal(t, 2, counters.Inserted)
	assert.Equal(t, 0, counters.Updated)
	assert.Equal(t, 0, counters.Unchanged)

	repo := yield.NewRepository(db)
	rec, err := repo.Find("2025-03-11", "ALKYLATE")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.YieldQty.Equal(decimal.NewFromInt(10)), "yield_qty %s", rec.YieldQty)
	assert.Equal(t, 1, rec.SyncCount)
	assert.Equal(t, uint(7), rec.LastSyncID)
	assert.False(t, rec.FirstSyncedAt.IsZero())
	assert.Len(t, rec.SourceHash, 16)
}

func TestYieldReconciler_ReplayIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewYieldReconciler(db)
	rows := []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "20", "3", "2")}

	_, err := r.ReconcileDay("2025-03-11", rows, 1, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	counters, err := r.ReconcileDay("2025-03-11", rows, 2, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	assert.Equal(t, 0, counters.Inserted)
	assert.Equal(t, 0, counters.Updated)
	assert.Equal(t, 1, counters.Unchanged)

	repo := yield.NewRepository(db)
	n, err := repo.HistoryCount("2025-03-11", "ALKYLATE")
	require.NoError(t, err)
	assert.Zero(t, n, "replay must not write history")

	rec, err := repo.Find("2025-03-11", "ALKYLATE")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.SyncCount)
	assert.Equal(t, uint(1), rec.LastSyncID, "unchanged record keeps its last sync id")
}

func TestYieldReconciler_ChangeCapturesHistoryExactlyOnce(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewYieldReconciler(db)

	_, err := r.ReconcileDay("2025-03-11", []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "20", "3", "2")}, 1, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	repo := yield.NewRepository(db)
	before, err := repo.Find("2025-03-11", "ALKYLATE")
	require.NoError(t, err)

	// Ship volume revised upstream.
	counters, err := r.ReconcileDay("2025-03-11", []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "25", "3", "2")}, 2, entities.ChangeTypeUpdate)
	require.NoError(t, err)
	assert.Equal(t, 1, counters.Updated)

	entries, err := repo.History("2025-03-11", "ALKYLATE", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	snapshot := entries[0]
	assert.Equal(t, before.ID, snapshot.OriginalID)
	assert.True(t, snapshot.ShipQty.Equal(decimal.NewFromInt(20)), "snapshot keeps pre-change value")
	assert.True(t, snapshot.PreviousYieldQty.Equal(before.YieldQty))
	assert.Equal(t, uint(2), snapshot.SyncID)
	assert.Equal(t, entities.ChangeTypeUpdate, snapshot.ChangeType)

	after, err := repo.Find("2025-03-11", "ALKYLATE")
	require.NoError(t, err)
	assert.True(t, after.ShipQty.Equal(decimal.NewFromInt(25)))
	assert.True(t, after.YieldQty.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 2, after.SyncCount)
	assert.Equal(t, uint(2), after.LastSyncID)
	assert.Equal(t, before.FirstSyncedAt.Unix(), after.FirstSyncedAt.Unix(), "first_synced_at is preserved")
	assert.NotEqual(t, before.SourceHash, after.SourceHash)
}

func TestYieldReconciler_HistoryIsImmutableAcrossLaterRuns(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewYieldReconciler(db)
	repo := yield.NewRepository(db)

	_, err := r.ReconcileDay("2025-03-11", []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "20", "3", "2")}, 1, entities.ChangeTypeUpdate)
	require.NoError(t, err)
	_, err = r.ReconcileDay("2025-03-11", []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "25", "3", "2")}, 2, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	first, err := repo.History("2025-03-11", "ALKYLATE", 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A second change appends a new snapshot and leaves the first untouched.
	_, err = r.ReconcileDay("2025-03-11", []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "30", "3", "2")}, 3, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	entries, err := repo.History("2025-03-11", "ALKYLATE", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// History is newest first; the older snapshot is byte-for-byte the same.
	assert.Equal(t, first[0].ID, entries[1].ID)
	assert.True(t, first[0].ShipQty.Equal(entries[1].ShipQty))
	assert.Equal(t, first[0].SyncID, entries[1].SyncID)
}

func TestYieldReconciler_WindowedModeTagsHistory(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewYieldReconciler(db)

	_, err := r.ReconcileDay("2025-02-10", []remote.YieldRow{yieldRow("ALKYLATE", "10", "5", "20", "3", "2")}, 1, entities.ChangeTypeUpdate)
	require.NoError(t, err)
	_, err = r.ReconcileDay("2025-02-10", []remote.YieldRow{yieldRow("ALKYLATE", "11", "5", "20", "3", "2")}, 2, entities.ChangeTypePriorMonthRefresh)
	require.NoError(t, err)

	entries, err := yield.NewRepository(db).History("2025-02-10", "ALKYLATE", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entities.ChangeTypePriorMonthRefresh, entries[0].ChangeType)
}

func TestYieldReconciler_NullMeasuresHashAsZero(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	r := NewYieldReconciler(db)

	null := remote.YieldRow{ProductClass: "F", ProductName: "CRUDE"}
	_, err := r.ReconcileDay("2025-03-11", []remote.YieldRow{null}, 1, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	explicitZero := yieldRow("CRUDE", "0", "0", "0", "0", "0")
	explicitZero.ProductClass = "F"
	counters, err := r.ReconcileDay("2025-03-11", []remote.YieldRow{explicitZero}, 2, entities.ChangeTypeUpdate)
	require.NoError(t, err)

	assert.Equal(t, 1, counters.Unchanged, "NULL and explicit zero fingerprints must match")
}
