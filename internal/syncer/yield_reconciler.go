package syncer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/plantops/yield-rewind/internal/database/syncruns"
	"github.com/plantops/yield-rewind/internal/database/yield"
	"github.com/plantops/yield-rewind/internal/entities"
	"github.com/plantops/yield-rewind/internal/fingerprint"
	"github.com/plantops/yield-rewind/internal/remote"
)

// DeriveFunc computes a dataset's derived quantity from its input measures.
// The formula is dataset-defined, not baked into the reconciler.
type DeriveFunc func(oi, rec, ship, blend, ci decimal.Decimal) decimal.Decimal

// DeriveYield is the production yield formula: blend + ci − oi − rec + ship.
func DeriveYield(oi, rec, ship, blend, ci decimal.Decimal) decimal.Decimal {
	return blend.Add(ci).Sub(oi).Sub(rec).Add(ship)
}

// YieldReconciler reconciles one day's fetched yield rows against stored
// records with change detection and history capture.
type YieldReconciler struct {
	db     *gorm.DB
	repo   *yield.Repository
	derive DeriveFunc
}

func NewYieldReconciler(db *gorm.DB) *YieldReconciler {
	return &YieldReconciler{
		db:     db,
		repo:   yield.NewRepository(db),
		derive: DeriveYield,
	}
}

// ReconcileDay applies one day's rows as a single atomic unit: either every
// row for the day commits or none do. Replaying identical input classifies
// every row unchanged and writes nothing.
func (r *YieldReconciler) ReconcileDay(date string, rows []remote.YieldRow, syncID uint, changeType entities.ChangeType) (syncruns.Counters, error) {
	counters := syncruns.Counters{Fetched: len(rows)}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		repo := r.repo.WithTx(tx)

		for _, row := range rows {
			oi := remote.Value(row.OIQty)
			rec := remote.Value(row.RecQty)
			ship := remote.Value(row.ShipQty)
			blend := remote.Value(row.BlendQty)
			ci := remote.Value(row.CIQty)

			yieldQty := r.derive(oi, rec, ship, blend, ci)
			sourceHash := fingerprint.Compute(oi, rec, ship, blend, ci)

			existing, err := repo.Find(date, row.ProductName)
			if err != nil {
				return fmt.Errorf("lookup %s/%s: %w", date, row.ProductName, err)
			}

			switch {
			case existing == nil:
				record := &entities.YieldRecord{
					Date:         date,
					ProductName:  row.ProductName,
					ProductClass: row.ProductClass,
					OIQty:        oi,
					RecQty:       rec,
					ShipQty:      ship,
					BlendQty:     blend,
					CIQty:        ci,
					YieldQty:     yieldQty,
					SourceHash:   sourceHash,
					LastSyncID:   syncID,
				}
				if err := repo.Insert(record); err != nil {
					return fmt.Errorf("insert %s/%s: %w", date, row.ProductName, err)
				}
				counters.Inserted++

			case existing.SourceHash == sourceHash:
				counters.Unchanged++

			default:
				// Changed: snapshot the prior state first, then overwrite.
				if err := repo.CaptureHistory(existing, syncID, changeType); err != nil {
					return fmt.Errorf("capture history %s/%s: %w", date, row.ProductName, err)
				}
				existing.ProductClass = row.ProductClass
				existing.OIQty = oi
				existing.RecQty = rec
				existing.ShipQty = ship
				existing.BlendQty = blend
				existing.CIQty = ci
				existing.YieldQty = yieldQty
				existing.SourceHash = sourceHash
				existing.LastSyncID = syncID
				if err := repo.Update(existing); err != nil {
					return fmt.Errorf("update %s/%s: %w", date, row.ProductName, err)
				}
				counters.Updated++
			}
		}
		return nil
	})
	if err != nil {
		// Rolled back: the day contributed nothing.
		return syncruns.Counters{}, err
	}
	return counters, nil
}
