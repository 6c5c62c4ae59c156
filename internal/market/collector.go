package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/findat/internal/api"
	"github.com/rickgao/findat/internal/backfill"
	"github.com/rickgao/findat/internal/model"
)

// Config holds snapshot sources.
type Config struct {
	QuoteURL     string
	CBOEURL      string
	FearGreedURL string
	Tickers      []Ticker
}

// DefaultConfig returns the public endpoints and default tickers.
func DefaultConfig() Config {
	return Config{
		QuoteURL:     DefaultQuoteURL,
		CBOEURL:      DefaultCBOEURL,
		FearGreedURL: DefaultFearGreedURL,
		Tickers:      DefaultTickers,
	}
}

// Collector builds one market record per day.
type Collector struct {
	cfg    Config
	client *api.Client
	logger *slog.Logger
	schema model.Schema
}

// NewCollector creates a Collector.
func NewCollector(cfg Config, client *api.Client, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.QuoteURL == "" {
		cfg.QuoteURL = def.QuoteURL
	}
	if cfg.CBOEURL == "" {
		cfg.CBOEURL = def.CBOEURL
	}
	if cfg.FearGreedURL == "" {
		cfg.FearGreedURL = def.FearGreedURL
	}
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = def.Tickers
	}
	if client == nil {
		client = api.NewClient(api.WithLogger(logger))
	}
	return &Collector{
		cfg:    cfg,
		client: client,
		logger: logger,
		schema: Schema(cfg.Tickers),
	}
}

// Schema returns the layout of the records this collector produces.
func (c *Collector) Schema() model.Schema {
	return c.schema
}

// Snapshot fetches the current readings for date. The three sources are
// independent hosts and are queried concurrently.
func (c *Collector) Snapshot(ctx context.Context, date time.Time) (model.Record, error) {
	symbols := make([]string, len(c.cfg.Tickers))
	for i, t := range c.cfg.Tickers {
		symbols[i] = t.Symbol
	}

	var (
		closes map[string]decimal.Decimal
		ratios map[string]decimal.Decimal
		greed  = model.Null()
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		closes, err = PreviousCloses(gctx, c.client, c.cfg.QuoteURL, symbols)
		return err
	})
	g.Go(func() error {
		var err error
		ratios, err = PutCallRatios(gctx, c.client, c.cfg.CBOEURL)
		return err
	})
	g.Go(func() error {
		v, err := FearGreed(gctx, c.client, c.cfg.FearGreedURL)
		if err != nil {
			c.logger.Warn("fear & greed unavailable", "error", err)
			return nil
		}
		greed = model.IntValue(v)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rec := model.Record{
		"Date":          model.TimeValue(date),
		FearGreedColumn: greed,
	}
	for _, t := range c.cfg.Tickers {
		rec[t.Column] = model.FloatValue(closes[t.Symbol])
	}
	for _, r := range Ratios {
		v, ok := ratios[r.Name]
		if !ok {
			return nil, &SourceError{Source: "cboe", URL: c.cfg.CBOEURL, Err: fmt.Errorf("row %q not in table", r.Name)}
		}
		rec[r.Column] = model.FloatValue(v)
	}
	return rec, nil
}

// FetchAll returns the snapshot for the window's day as a one-record batch.
// The query is ignored.
func (c *Collector) FetchAll(ctx context.Context, _ string, w backfill.Window) (model.Batch, error) {
	rec, err := c.Snapshot(ctx, w.Date())
	if err != nil {
		return model.Batch{}, err
	}

	c.logger.Info("market snapshot", "date", model.FormatTime(w.Date()), "fear_greed", rec.Get(FearGreedColumn).String())
	batch := model.NewBatch(c.schema)
	batch.Add(rec)
	return batch, nil
}
