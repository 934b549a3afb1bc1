// Package syncer is the incremental synchronization engine: it plans the
// date range to pull, fetches day-granularity batches from the remote
// source, reconciles them against the local store, and records run outcomes
// so future runs resume correctly.
//
// Two reconciliation strategies exist. Yield data is change-detecting: every
// fetched row is fingerprinted and compared against the stored record, and a
// detected change appends exactly one snapshot of the prior state to the
// history ledger before the record is overwritten. Sales and tank data are
// replace-window: the affected window is deleted and reinserted wholesale.
//
// Days are processed sequentially in ascending order, each inside its own
// local transaction. A failed day is logged and skipped; the run continues
// and the watermark cursor is only advanced when every day succeeded, so the
// next incremental sync re-attempts what failed. Nothing here is safe for
// two concurrent runs over the same dataset; callers serialize invocations.
package syncer
