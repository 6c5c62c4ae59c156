package backfill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/findat/internal/model"
)

// Configuration errors returned by Run.
var (
	ErrInvalidRange  = errors.New("start date is after end date")
	ErrInvalidPasses = errors.New("max passes must be at least 1")
	ErrEmptyQuery    = errors.New("query is required")
)

// BatchFetcher fetches every record of one query inside a window.
type BatchFetcher interface {
	FetchAll(ctx context.Context, query string, w Window) (model.Batch, error)
}

// BatchFetcherFunc is a function adapter for BatchFetcher.
type BatchFetcherFunc func(ctx context.Context, query string, w Window) (model.Batch, error)

func (f BatchFetcherFunc) FetchAll(ctx context.Context, query string, w Window) (model.Batch, error) {
	return f(ctx, query, w)
}

// Merger persists a batch.
type Merger interface {
	Merge(batch model.Batch) error
}

// BatchSink receives each batch after it was merged.
type BatchSink interface {
	Write(ctx context.Context, batch model.Batch) error
}

// DateResult is the outcome of the last attempt at one date.
type DateResult struct {
	Date     time.Time
	Attempts int
	Rows     int
	Err      error
}

// Report summarizes a run.
type Report struct {
	RunID     uuid.UUID
	Query     string
	Passes    int
	Rows      int
	Succeeded []time.Time
	Failed    []DateResult
	Started   time.Time
	Finished  time.Time
}

// Complete reports whether every date succeeded.
func (r *Report) Complete() bool {
	return len(r.Failed) == 0
}

// Option configures a Driver.
type Option func(*Driver)

// WithSink adds a sink that receives every merged batch.
func WithSink(s BatchSink) Option {
	return func(d *Driver) {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
}

// WithWindow overrides how a date becomes a fetch window.
func WithWindow(fn func(time.Time) Window) Option {
	return func(d *Driver) {
		if fn != nil {
			d.window = fn
		}
	}
}

// Driver runs a BatchFetcher over a date range.
type Driver struct {
	fetcher BatchFetcher
	merger  Merger
	sinks   []BatchSink
	window  func(time.Time) Window
	logger  *slog.Logger
}

// New creates a Driver.
func New(fetcher BatchFetcher, merger Merger, logger *slog.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Driver{
		fetcher: fetcher,
		merger:  merger,
		window:  DayWindow,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run fetches and merges every date from start to end inclusive, making at
// most maxPasses passes over the dates that are still pending.
func (d *Driver) Run(ctx context.Context, start, end time.Time, query string, maxPasses int) (*Report, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if maxPasses < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPasses, maxPasses)
	}
	if midnight(start).After(midnight(end.In(start.Location()))) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, model.FormatTime(start), model.FormatTime(end))
	}

	report := &Report{
		RunID:   uuid.New(),
		Query:   query,
		Started: time.Now(),
	}
	logger := d.logger.With("run_id", report.RunID.String(), "query", query)

	pending := Dates(start, end)
	results := make(map[time.Time]*DateResult, len(pending))
	for _, date := range pending {
		results[date] = &DateResult{Date: date}
	}

	logger.Info("backfill started",
		"start", model.FormatTime(pending[0]),
		"end", model.FormatTime(pending[len(pending)-1]),
		"dates", len(pending),
		"max_passes", maxPasses,
	)

	var runErr error
	for pass := 1; pass <= maxPasses && len(pending) > 0; pass++ {
		report.Passes = pass
		var retry []time.Time

		for i, date := range pending {
			if err := ctx.Err(); err != nil {
				retry = append(retry, pending[i:]...)
				runErr = err
				break
			}

			res := results[date]
			res.Attempts++
			rows, err := d.runDate(ctx, query, date)
			if err != nil {
				res.Err = err
				retry = append(retry, date)
				logger.Warn("date failed",
					"date", model.FormatTime(date),
					"pass", pass,
					"error", err,
				)
				continue
			}

			res.Err = nil
			res.Rows = rows
			report.Rows += rows
			report.Succeeded = append(report.Succeeded, date)
			logger.Debug("date merged", "date", model.FormatTime(date), "rows", rows, "pass", pass)
		}

		logger.Info("pass complete",
			"pass", pass,
			"attempted", len(pending),
			"failed", len(retry),
		)
		pending = retry
		if runErr != nil {
			break
		}
	}

	for _, date := range pending {
		res := *results[date]
		if res.Err == nil {
			res.Err = runErr
		}
		report.Failed = append(report.Failed, res)
	}
	report.Finished = time.Now()

	logger.Info("backfill finished",
		"passes", report.Passes,
		"succeeded", len(report.Succeeded),
		"failed", len(report.Failed),
		"rows", report.Rows,
		"duration", report.Finished.Sub(report.Started),
	)

	return report, runErr
}

// runDate fetches and merges one date.
func (d *Driver) runDate(ctx context.Context, query string, date time.Time) (int, error) {
	batch, err := d.fetcher.FetchAll(ctx, query, d.window(date))
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if err := d.merger.Merge(batch); err != nil {
		return 0, fmt.Errorf("merge: %w", err)
	}

	for _, sink := range d.sinks {
		if err := sink.Write(ctx, batch); err != nil {
			d.logger.Warn("sink write failed",
				"date", model.FormatTime(date),
				"rows", batch.Len(),
				"error", err,
			)
		}
	}
	return batch.Len(), nil
}
