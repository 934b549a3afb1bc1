package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantops/yield-rewind/internal/database/syncruns"
	"github.com/plantops/yield-rewind/internal/database/watermarks"
	"github.com/plantops/yield-rewind/internal/entities"
	"github.com/plantops/yield-rewind/internal/planner"
)

// Result summarizes one dataset's sync.
type Result struct {
	Dataset    entities.Dataset   `json:"dataset"`
	Mode       entities.SyncMode  `json:"mode"`
	Skipped    bool               `json:"skipped"`
	RunID      uint               `json:"run_id,omitempty"`
	RangeStart string             `json:"range_start,omitempty"`
	RangeEnd   string             `json:"range_end,omitempty"`
	Status     entities.RunStatus `json:"status,omitempty"`
	Counters   syncruns.Counters  `json:"counters"`
	FailedDays []string           `json:"failed_days,omitempty"`
	Duration   time.Duration      `json:"duration"`
}

// Engine orchestrates end-to-end syncs: range planning, day-by-day fetch and
// reconcile, run logging and watermark bookkeeping.
type Engine struct {
	fetcher Fetcher
	runs    *syncruns.Repository
	marks   *watermarks.Repository
	yield   *YieldReconciler
	sales   *SalesReconciler
	tank    *TankReconciler
	epoch   time.Time

	now func() time.Time
}

func NewEngine(db *gorm.DB, fetcher Fetcher, epoch time.Time) *Engine {
	return &Engine{
		fetcher: fetcher,
		runs:    syncruns.NewRepository(db),
		marks:   watermarks.NewRepository(db),
		yield:   NewYieldReconciler(db),
		sales:   NewSalesReconciler(db),
		tank:    NewTankReconciler(db),
		epoch:   epoch,
		now:     time.Now,
	}
}

// SyncAll syncs the given datasets independently: one dataset's fatal
// failure is reported but does not stop the others. The returned error is
// non-nil if any dataset failed fatally, so callers can reflect it in their
// exit status.
func (e *Engine) SyncAll(ctx context.Context, datasets []entities.Dataset, mode entities.SyncMode, reason string, override *planner.Range) ([]Result, error) {
	invocationID := uuid.NewString()

	var results []Result
	var failures []error
	for _, dataset := range datasets {
		result, err := e.SyncDataset(ctx, dataset, mode, reason, invocationID, override)
		if result != nil {
			results = append(results, *result)
		}
		if err != nil {
			log.Printf("[ERROR] %s sync failed: %v", dataset, err)
			failures = append(failures, fmt.Errorf("%s: %w", dataset, err))
		}
	}
	return results, errors.Join(failures...)
}

// SyncDataset runs one end-to-end sync for a dataset.
//
// An empty plan is a no-op: no run row is created and no watermark is
// touched. Otherwise the run row is created first (status running), so every
// record written during the run references a valid sync id, and it is
// finalized exactly once - including on fatal errors, which are finalized as
// failed before being returned. Per-day errors only skip their day.
func (e *Engine) SyncDataset(ctx context.Context, dataset entities.Dataset, mode entities.SyncMode, reason, invocationID string, override *planner.Range) (*Result, error) {
	started := e.now()

	mark, err := e.marks.Get(dataset)
	if err != nil {
		return nil, fmt.Errorf("read watermark: %w", err)
	}
	var lastSynced *time.Time
	if mark != nil && mark.LastSyncedDate != nil {
		t, err := time.Parse(entities.DateLayout, *mark.LastSyncedDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt watermark date %q: %w", *mark.LastSyncedDate, err)
		}
		lastSynced = &t
	}

	rng := planner.Plan(mode, e.epoch, lastSynced, started, override)
	if rng.Empty() {
		log.Printf("No new dates to sync for %s", dataset)
		return &Result{Dataset: dataset, Mode: mode, Skipped: true}, nil
	}

	startDate := rng.Start.Format(entities.DateLayout)
	endDate := rng.End.Format(entities.DateLayout)
	log.Printf("Syncing %s data from %s to %s (mode=%s, reason=%s)", dataset, startDate, endDate, mode, reason)

	run, err := e.runs.Begin(dataset, mode, reason, invocationID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Dataset:    dataset,
		Mode:       mode,
		RunID:      run.ID,
		RangeStart: startDate,
		RangeEnd:   endDate,
	}

	// Connection-level failure is fatal; per-day failures below are not.
	if err := e.fetcher.Ping(ctx); err != nil {
		return result, e.fail(result, mark, started, err)
	}

	counters, failedDays, fatal := e.processRange(ctx, dataset, rng, run.ID, mode)
	result.Counters = counters
	result.FailedDays = failedDays
	if fatal != nil {
		return result, e.fail(result, mark, started, fatal)
	}

	status := entities.RunStatusSuccess
	if len(failedDays) > 0 {
		status = entities.RunStatusPartial
	}
	result.Status = status
	result.Duration = e.now().Sub(started)

	if err := e.runs.Complete(run.ID, status, counters, ""); err != nil {
		return result, e.fail(result, mark, started, err)
	}

	// The date cursor only advances when every day in the window succeeded;
	// advancing past a failed day would permanently skip it.
	cursor := previousCursor(mark)
	if status == entities.RunStatusSuccess {
		cursor = &endDate
	}
	if err := e.writeWatermark(dataset, cursor, counters.Fetched, result.Duration, status, ""); err != nil {
		return result, err
	}

	log.Printf("[OK] %s sync complete: %d fetched (%d inserted, %d updated, %d unchanged) in %v",
		dataset, counters.Fetched, counters.Inserted, counters.Updated, counters.Unchanged,
		result.Duration.Round(time.Millisecond))
	return result, nil
}

// fail finalizes a run as failed and records the failure on the watermark
// (status and bookkeeping only - never the date cursor) before handing the
// error back to the caller.
func (e *Engine) fail(result *Result, mark *entities.Watermark, started time.Time, cause error) error {
	result.Status = entities.RunStatusFailed
	result.Duration = e.now().Sub(started)

	if err := e.runs.Complete(result.RunID, entities.RunStatusFailed, result.Counters, cause.Error()); err != nil {
		log.Printf("[ERROR] could not finalize sync run %d: %v", result.RunID, err)
	}
	if err := e.writeWatermark(result.Dataset, previousCursor(mark), result.Counters.Fetched, result.Duration, entities.RunStatusFailed, cause.Error()); err != nil {
		log.Printf("[ERROR] could not update watermark for %s: %v", result.Dataset, err)
	}
	return cause
}

func (e *Engine) writeWatermark(dataset entities.Dataset, cursor *string, records int, duration time.Duration, status entities.RunStatus, errorMessage string) error {
	err := e.marks.Upsert(&entities.Watermark{
		Dataset:        dataset,
		LastSyncedDate: cursor,
		RecordsSynced:  records,
		SyncDurationMS: duration.Milliseconds(),
		Status:         status,
		ErrorMessage:   errorMessage,
	})
	if err != nil {
		return fmt.Errorf("update watermark: %w", err)
	}
	return nil
}

func previousCursor(mark *entities.Watermark) *string {
	if mark == nil {
		return nil
	}
	return mark.LastSyncedDate
}

// processRange dispatches to the dataset's reconciliation strategy. The
// returned fatal error is only non-nil for context cancellation; fetch and
// reconcile errors are collected per day.
func (e *Engine) processRange(ctx context.Context, dataset entities.Dataset, rng planner.Range, runID uint, mode entities.SyncMode) (syncruns.Counters, []string, error) {
	switch dataset {
	case entities.DatasetYield:
		return e.processYield(ctx, rng, runID, changeTypeFor(mode))
	case entities.DatasetSales:
		return e.processSales(ctx, rng)
	case entities.DatasetTank:
		return e.processTank(ctx, rng)
	default:
		return syncruns.Counters{}, nil, fmt.Errorf("unknown dataset %q", dataset)
	}
}

func changeTypeFor(mode entities.SyncMode) entities.ChangeType {
	if mode == entities.SyncModeWindowed {
		return entities.ChangeTypePriorMonthRefresh
	}
	return entities.ChangeTypeUpdate
}

func (e *Engine) processYield(ctx context.Context, rng planner.Range, runID uint, changeType entities.ChangeType) (syncruns.Counters, []string, error) {
	var counters syncruns.Counters
	var failedDays []string

	for _, day := range rng.Days() {
		if err := ctx.Err(); err != nil {
			return counters, failedDays, err
		}
		date := day.Format(entities.DateLayout)

		rows, err := e.fetcher.FetchYieldDay(ctx, date)
		if err != nil {
			log.Printf("  %s: error - %v", date, err)
			failedDays = append(failedDays, date)
			continue
		}
		dayCounters, err := e.yield.ReconcileDay(date, rows, runID, changeType)
		if err != nil {
			log.Printf("  %s: error - %v", date, err)
			failedDays = append(failedDays, date)
			continue
		}
		counters.Add(dayCounters)
		log.Printf("  %s: %d fetched, %d changed", date, dayCounters.Fetched, dayCounters.Inserted+dayCounters.Updated)
	}
	return counters, failedDays, nil
}

func (e *Engine) processSales(ctx context.Context, rng planner.Range) (syncruns.Counters, []string, error) {
	var counters syncruns.Counters
	var failedDays []string

	for _, day := range rng.Days() {
		if err := ctx.Err(); err != nil {
			return counters, failedDays, err
		}
		date := day.Format(entities.DateLayout)

		rows, err := e.fetcher.FetchSalesDay(ctx, date)
		if err != nil {
			log.Printf("  %s: error - %v", date, err)
			failedDays = append(failedDays, date)
			continue
		}
		dayCounters, err := e.sales.ReconcileDay(date, rows)
		if err != nil {
			log.Printf("  %s: error - %v", date, err)
			failedDays = append(failedDays, date)
			continue
		}
		counters.Add(dayCounters)
		log.Printf("  %s: %d records", date, dayCounters.Inserted)
	}
	return counters, failedDays, nil
}

// processTank fetches and replaces the whole window at once: tank data is a
// bulk range query, so the window (not the day) is the unit of failure.
func (e *Engine) processTank(ctx context.Context, rng planner.Range) (syncruns.Counters, []string, error) {
	if err := ctx.Err(); err != nil {
		return syncruns.Counters{}, nil, err
	}
	start := rng.Start.Format(entities.DateLayout)
	end := rng.End.Format(entities.DateLayout)

	rows, err := e.fetcher.FetchTankRange(ctx, start, end)
	if err != nil {
		log.Printf("  %s..%s: error - %v", start, end, err)
		return syncruns.Counters{}, []string{start + ".." + end}, nil
	}
	counters, err := e.tank.ReconcileRange(start, end, rows)
	if err != nil {
		log.Printf("  %s..%s: error - %v", start, end, err)
		return syncruns.Counters{}, []string{start + ".." + end}, nil
	}
	log.Printf("  Synced %d tank records", counters.Inserted)
	return counters, nil, nil
}
