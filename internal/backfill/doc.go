// Package backfill drives a fetcher over an inclusive range of dates, merging
// each date's batch into a store and retrying failed dates on later passes.
//
// A run:
//   - walks the pending dates in order, once per pass
//   - carries a date whose fetch or merge failed to the next pass
//   - stops when nothing is pending or the pass budget is spent
//
// Failures are logged and recorded in the Report; only configuration errors
// and cancellation are returned as errors. A date that never succeeds is a
// gap in the store, never a zero row.
package backfill
