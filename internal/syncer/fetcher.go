package syncer

import (
	"context"

	"github.com/plantops/yield-rewind/internal/remote"
)

// Fetcher is the remote source capability the engine consumes. Each fetch
// call is independently retryable: a failure affects only that day (or that
// window for tank data), not the run. Ping separates connection-level
// failures, which are fatal to a run, from per-day errors, which are not.
//
// Implemented by *remote.Client.
type Fetcher interface {
	Ping(ctx context.Context) error
	FetchYieldDay(ctx context.Context, date string) ([]remote.YieldRow, error)
	FetchSalesDay(ctx context.Context, date string) ([]remote.SalesRow, error)
	FetchTankRange(ctx context.Context, start, end string) ([]remote.TankRow, error)
}
