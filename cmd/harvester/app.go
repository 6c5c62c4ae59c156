package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/findat/internal/api"
	"github.com/rickgao/findat/internal/backfill"
	"github.com/rickgao/findat/internal/config"
	"github.com/rickgao/findat/internal/database"
	"github.com/rickgao/findat/internal/market"
	"github.com/rickgao/findat/internal/model"
	"github.com/rickgao/findat/internal/ratelimit"
	"github.com/rickgao/findat/internal/reddit"
	"github.com/rickgao/findat/internal/sentiment"
	"github.com/rickgao/findat/internal/store"
	"github.com/rickgao/findat/internal/version"
	"github.com/rickgao/findat/internal/writer"
)

const dateLayout = "2006-01-02"

// errIncomplete is returned when a run ends with dates still failing.
var errIncomplete = errors.New("run incomplete")

// app holds the components shared by every subcommand.
type app struct {
	cfg    *config.HarvesterConfig
	logger *slog.Logger
	loc    *time.Location
	http   *api.Client
	reddit *reddit.Client
	pool   *pgxpool.Pool
}

func newApp(ctx context.Context, logger *slog.Logger) (*app, error) {
	var (
		cfg *config.HarvesterConfig
		err error
	)
	if configPath == "" {
		cfg = config.Default()
		err = cfg.Validate()
	} else {
		cfg, err = config.LoadAndValidate(configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger = logger.With("instance_id", cfg.Instance.ID)
	logger.Info("starting harvester",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
	)

	httpClient := api.NewClient(
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.BackoffFactor),
		api.WithRetryStatuses(cfg.API.RetryStatuses...),
		api.WithUserAgent(cfg.API.UserAgent),
	)

	a := &app{
		cfg:    cfg,
		logger: logger,
		loc:    cfg.Location(),
		http:   httpClient,
		reddit: reddit.NewClient(cfg.Reddit.BaseURL, httpClient,
			reddit.WithLimiter(ratelimit.New(cfg.API.RateLimit)),
			reddit.WithLogger(logger),
		),
	}

	if cfg.Mirror.Enabled {
		logger.Info("connecting to mirror database",
			"host", cfg.Mirror.Database.Host,
			"port", cfg.Mirror.Database.Port,
			"database", cfg.Mirror.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Mirror.Database)
		if err != nil {
			return nil, fmt.Errorf("connect mirror: %w", err)
		}
		a.pool = pool
	}

	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *app) openStore(path string, schema model.Schema) (*store.CSVStore, error) {
	return store.Open(path, schema,
		store.WithLogger(a.logger),
		store.WithLockTTL(a.cfg.Storage.LockTTL),
		store.WithLocation(a.loc),
	)
}

// driver wires fetcher and st into a backfill driver, mirroring into table
// when the mirror is enabled.
func (a *app) driver(fetcher backfill.BatchFetcher, st *store.CSVStore, table string) *backfill.Driver {
	var opts []backfill.Option
	if a.pool != nil {
		opts = append(opts, backfill.WithSink(writer.NewMirror(a.pool, a.cfg.Mirror.Schema, table, a.logger)))
	}
	return backfill.New(fetcher, st, a.logger, opts...)
}

func (a *app) submissionFetcher() *reddit.Fetcher {
	return reddit.NewFetcher(reddit.FetcherConfig{
		PageSize:  a.cfg.Reddit.PageSize,
		PageSlack: a.cfg.Reddit.PageSlack,
		MaxPages:  a.cfg.Reddit.MaxPages,
	}, a.reddit, a.logger)
}

func (a *app) marketCollector() *market.Collector {
	tickers := make([]market.Ticker, len(a.cfg.Market.Tickers))
	for i, t := range a.cfg.Market.Tickers {
		tickers[i] = market.Ticker{Column: t.Column, Symbol: t.Symbol}
	}
	return market.NewCollector(market.Config{
		QuoteURL:     a.cfg.Market.QuoteURL,
		CBOEURL:      a.cfg.Market.CBOEURL,
		FearGreedURL: a.cfg.Market.FearGreedURL,
		Tickers:      tickers,
	}, a.http, a.logger)
}

func (a *app) sentimentFetcher() *sentiment.Fetcher {
	sc := a.cfg.Sentiment
	positive, negative := sc.PositiveWords, sc.NegativeWords
	if positive == "" {
		positive = sentiment.DefaultPositiveWords
	}
	if negative == "" {
		negative = sentiment.DefaultNegativeWords
	}
	overrides := sentiment.WordValences(positive, negative, sc.WordValence)
	for token, valence := range sc.Lexicon {
		overrides[token] = valence
	}

	return sentiment.NewFetcher(sentiment.Config{
		TitleLayout:  sc.TitleLayout,
		ThreadLimit:  sc.ThreadLimit,
		CommentLimit: sc.CommentLimit,
		Blacklist:    sc.Blacklist,
	}, a.reddit, sentiment.NewAnalyzer(overrides), sentiment.NewTickerRecognizer(sc.Organizations...), a.logger)
}

// dateRange resolves the --start/--end flags. end defaults to yesterday and
// start to configured, falling back to end.
func (a *app) dateRange(start, end, configured string) (time.Time, time.Time, error) {
	today := time.Now().In(a.loc)
	endDate := time.Date(today.Year(), today.Month(), today.Day()-1, 0, 0, 0, 0, a.loc)
	if end != "" {
		t, err := time.ParseInLocation(dateLayout, end, a.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--end: %w", err)
		}
		endDate = t
	}

	if start == "" {
		start = configured
	}
	startDate := endDate
	if start != "" {
		t, err := time.ParseInLocation(dateLayout, start, a.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--start: %w", err)
		}
		startDate = t
	}
	return startDate, endDate, nil
}

func logReport(logger *slog.Logger, r *backfill.Report) error {
	failed := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		failed[i] = model.FormatTime(f.Date)
	}

	logger.Info("run summary",
		"run_id", r.RunID.String(),
		"query", r.Query,
		"passes", r.Passes,
		"rows", r.Rows,
		"succeeded", len(r.Succeeded),
		"failed", len(r.Failed),
		"failed_dates", failed,
		"duration", r.Finished.Sub(r.Started),
	)
	for _, f := range r.Failed {
		logger.Warn("date not harvested",
			"date", model.FormatTime(f.Date),
			"attempts", f.Attempts,
			"error", f.Err,
		)
	}

	if !r.Complete() {
		return fmt.Errorf("%w: %d of %d dates failed", errIncomplete, len(r.Failed), len(r.Failed)+len(r.Succeeded))
	}
	return nil
}
