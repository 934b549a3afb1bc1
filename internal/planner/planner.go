// Package planner derives the calendar date span a sync should cover.
package planner

import (
	"fmt"
	"time"

	"github.com/plantops/yield-rewind/internal/entities"
)

// Range is an inclusive [Start, End] span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether there is nothing to sync. An empty range is a valid
// outcome (e.g. incremental sync already caught up to yesterday), not an
// error: callers skip the dataset entirely.
func (r Range) Empty() bool {
	return r.Start.After(r.End)
}

// Days returns every day in the range in ascending order.
func (r Range) Days() []time.Time {
	if r.Empty() {
		return nil
	}
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r Range) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(entities.DateLayout), r.End.Format(entities.DateLayout))
}

// ParseRange builds a Range from YYYY-MM-DD strings, for explicit overrides.
func ParseRange(start, end string) (Range, error) {
	s, err := time.Parse(entities.DateLayout, start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(entities.DateLayout, end)
	if err != nil {
		return Range{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return Range{Start: s, End: e}, nil
}

// Plan resolves the range to sync.
//
// The end date defaults to yesterday: the current day is still accumulating
// data at the source and is never synced. Full mode starts from the dataset
// epoch; incremental starts the day after the watermark cursor (or at the
// epoch when no watermark exists, so a first run behaves like full); windowed
// covers the prior calendar month and ignores the watermark. An explicit
// override wins over everything.
func Plan(mode entities.SyncMode, epoch time.Time, lastSynced *time.Time, today time.Time, override *Range) Range {
	if override != nil {
		return *override
	}

	today = truncateDay(today)
	end := today.AddDate(0, 0, -1)

	switch mode {
	case entities.SyncModeWindowed:
		firstOfCurrent := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		lastOfPrior := firstOfCurrent.AddDate(0, 0, -1)
		firstOfPrior := time.Date(lastOfPrior.Year(), lastOfPrior.Month(), 1, 0, 0, 0, 0, today.Location())
		return Range{Start: firstOfPrior, End: lastOfPrior}

	case entities.SyncModeIncremental:
		if lastSynced != nil {
			return Range{Start: truncateDay(*lastSynced).AddDate(0, 0, 1), End: end}
		}
		return Range{Start: truncateDay(epoch), End: end}

	default: // full
		return Range{Start: truncateDay(epoch), End: end}
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
