package reddit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rickgao/findat/internal/backfill"
	"github.com/rickgao/findat/internal/model"
)

// SubmissionSchema is the layout of a submissions store, keyed by id.
var SubmissionSchema = model.NewSchema("id",
	model.Column{Name: "Date", Type: model.TypeTime},
	model.Column{Name: "Title", Type: model.TypeString},
	model.Column{Name: "Text", Type: model.TypeString},
	model.Column{Name: "Comments", Type: model.TypeInt},
	model.Column{Name: "Score", Type: model.TypeInt},
	model.Column{Name: "id", Type: model.TypeString},
)

// FetcherConfig holds pagination settings.
type FetcherConfig struct {
	PageSize  int // Items per page (default: 100)
	PageSlack int // Pages allowed beyond expected/PageSize (default: 5)
	MaxPages  int // Bound when the expected total is unknown (default: 1000)
}

// DefaultFetcherConfig returns sensible defaults.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		PageSize:  100,
		PageSlack: 5,
		MaxPages:  1000,
	}
}

// Fetcher pages through every submission of a subreddit inside a window.
type Fetcher struct {
	cfg    FetcherConfig
	client *Client
	logger *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig, client *Client, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultFetcherConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.PageSlack <= 0 {
		cfg.PageSlack = def.PageSlack
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	return &Fetcher{cfg: cfg, client: client, logger: logger}
}

// FetchPage requests one page after the cursor. next is the newest
// created_utc seen, never less than after. An empty page is exhausted.
func (f *Fetcher) FetchPage(ctx context.Context, subreddit string, after, before Cursor, pageSize int) (items []Submission, next Cursor, exhausted bool, err error) {
	items, err = f.client.SearchSubmissions(ctx, SearchQuery{
		Subreddit: subreddit,
		After:     after,
		Before:    before,
		Size:      pageSize,
	})
	if err != nil {
		return nil, after, false, err
	}

	next = after
	for _, it := range items {
		if it.CreatedUTC > next {
			next = it.CreatedUTC
		}
	}
	return items, next, len(items) == 0, nil
}

// FetchAll returns every submission of subreddit in w as one batch. Any page
// failure aborts the window with a *FetchError.
func (f *Fetcher) FetchAll(ctx context.Context, subreddit string, w backfill.Window) (model.Batch, error) {
	after, before := CursorFromTime(w.Start), CursorFromTime(w.End)
	date := model.FormatTime(w.Date())
	logger := f.logger.With("subreddit", subreddit, "date", date)

	expected, maxPages := -1, f.cfg.MaxPages
	if n, err := f.client.CountSubmissions(ctx, subreddit, after, before); err != nil {
		if ctx.Err() != nil {
			return model.Batch{}, &FetchError{Query: subreddit, Window: w, Cause: ctx.Err()}
		}
		logger.Warn("expected total unavailable, using page cap", "max_pages", maxPages, "error", err)
	} else {
		expected = n
		maxPages = n/f.cfg.PageSize + f.cfg.PageSlack
	}
	logger.Info("retrieving submissions", "expected", expected)

	batch := model.NewBatch(SubmissionSchema)
	dateValue := model.TimeValue(w.Date())

	for pages := 0; ; {
		if pages >= maxPages {
			return model.Batch{}, &FetchError{
				Query:  subreddit,
				Window: w,
				Pages:  pages,
				Cause:  fmt.Errorf("%w: %d pages for %d expected items", ErrPageLimitExceeded, maxPages, expected),
			}
		}

		items, next, exhausted, err := f.FetchPage(ctx, subreddit, after, before, f.cfg.PageSize)
		pages++
		if err != nil {
			return model.Batch{}, &FetchError{Query: subreddit, Window: w, Pages: pages, Cause: err}
		}
		if exhausted {
			break
		}

		for _, it := range items {
			batch.Add(model.Record{
				"Date":     dateValue,
				"Title":    model.StringValue(it.Title),
				"Text":     model.StringValue(it.Text()),
				"Comments": model.IntValue(it.NumComments),
				"Score":    model.IntValue(it.Score),
				"id":       model.StringValue(it.ID),
			})
		}
		logger.Debug("retrieved page", "retrieved", batch.Len(), "expected", expected, "cursor", next)
		after = next
	}

	logger.Info("retrieved submissions", "found", batch.Len(), "expected", expected)
	return batch, nil
}
