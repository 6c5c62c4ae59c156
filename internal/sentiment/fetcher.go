package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/findat/internal/backfill"
	"github.com/rickgao/findat/internal/model"
	"github.com/rickgao/findat/internal/reddit"
)

// Schema is the layout of the sentiment store, keyed by Date.
var Schema = model.NewSchema("Date",
	model.Column{Name: "Date", Type: model.TypeTime},
	model.Column{Name: "POSITIVE", Type: model.TypeFloat},
	model.Column{Name: "NEUTRAL", Type: model.TypeFloat},
	model.Column{Name: "NEGATIVE", Type: model.TypeFloat},
	model.Column{Name: "COMPOUND", Type: model.TypeFloat},
)

// ErrNoComments is returned for a date without a single scorable comment.
var ErrNoComments = errors.New("no comments mention an organization")

// FetchError aborts one date.
type FetchError struct {
	Subreddit string
	Date      time.Time
	Cause     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("sentiment %s %s: %v", e.Subreddit, model.FormatTime(e.Date), e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Config holds discussion thread lookup settings.
type Config struct {
	TitleLayout  string   // Date layout searched in thread titles
	ThreadLimit  int      // Threads per date (default: 10)
	CommentLimit int      // Comments per thread (default: 2000)
	Blacklist    []string // Organizations to ignore
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TitleLayout:  "January 02, 2006",
		ThreadLimit:  10,
		CommentLimit: 2000,
		Blacklist:    DefaultBlacklist,
	}
}

// Fetcher turns a day of discussion into one sentiment record.
type Fetcher struct {
	cfg       Config
	client    *reddit.Client
	scorer    Scorer
	entities  EntityRecognizer
	blacklist blacklist
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher. A nil scorer or recognizer uses the bundled
// implementations.
func NewFetcher(cfg Config, client *reddit.Client, scorer Scorer, entities EntityRecognizer, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.TitleLayout == "" {
		cfg.TitleLayout = def.TitleLayout
	}
	if cfg.ThreadLimit <= 0 {
		cfg.ThreadLimit = def.ThreadLimit
	}
	if cfg.CommentLimit <= 0 {
		cfg.CommentLimit = def.CommentLimit
	}
	if cfg.Blacklist == nil {
		cfg.Blacklist = def.Blacklist
	}
	if scorer == nil {
		scorer = NewAnalyzer(DefaultOverrides())
	}
	if entities == nil {
		entities = NewTickerRecognizer()
	}
	return &Fetcher{
		cfg:       cfg,
		client:    client,
		scorer:    scorer,
		entities:  entities,
		blacklist: newBlacklist(cfg.Blacklist),
		logger:    logger,
	}
}

// FetchAll scores the discussion of the window's day in subreddit.
func (f *Fetcher) FetchAll(ctx context.Context, subreddit string, w backfill.Window) (model.Batch, error) {
	date := w.Date()
	fail := func(err error) (model.Batch, error) {
		return model.Batch{}, &FetchError{Subreddit: subreddit, Date: date, Cause: err}
	}

	threads, err := f.client.SearchByTitle(ctx, subreddit, date.Format(f.cfg.TitleLayout), f.cfg.ThreadLimit)
	if err != nil {
		return fail(err)
	}

	var comments []string
	for _, th := range threads {
		cs, err := f.client.Comments(ctx, th.ID, f.cfg.CommentLimit)
		if err != nil {
			return fail(err)
		}
		for _, c := range cs {
			comments = append(comments, c.Body)
		}
	}

	relevant := f.Filter(comments)
	if len(relevant) == 0 {
		return fail(ErrNoComments)
	}

	mean := f.Average(relevant)
	f.logger.Info("overall sentiment",
		"subreddit", subreddit,
		"date", model.FormatTime(date),
		"threads", len(threads),
		"comments", len(comments),
		"scored", len(relevant),
		"compound", mean.Compound,
	)

	batch := model.NewBatch(Schema)
	batch.Add(model.Record{
		"Date":     model.TimeValue(date),
		"POSITIVE": model.FloatFromFloat64(mean.Positive),
		"NEUTRAL":  model.FloatFromFloat64(mean.Neutral),
		"NEGATIVE": model.FloatFromFloat64(mean.Negative),
		"COMPOUND": model.FloatFromFloat64(mean.Compound),
	})
	return batch, nil
}

// Filter keeps the comments that mention at least one organization outside
// the blacklist. Emoji are stripped first.
func (f *Fetcher) Filter(comments []string) []string {
	var out []string
	for _, c := range comments {
		text := StripEmoji(c)
		for _, org := range f.entities.Organizations(text) {
			if f.blacklist.allows(org) {
				out = append(out, text)
				break
			}
		}
	}
	return out
}

// Average scores every comment and returns the mean of each score.
func (f *Fetcher) Average(comments []string) Scores {
	if len(comments) == 0 {
		return Scores{}
	}
	var pos, neu, neg, cmp decimal.Decimal
	for _, c := range comments {
		s := f.scorer.Score(c)
		pos = pos.Add(decimal.NewFromFloat(s.Positive))
		neu = neu.Add(decimal.NewFromFloat(s.Neutral))
		neg = neg.Add(decimal.NewFromFloat(s.Negative))
		cmp = cmp.Add(decimal.NewFromFloat(s.Compound))
	}
	n := decimal.NewFromInt(int64(len(comments)))
	mean := func(sum decimal.Decimal) float64 {
		v, _ := sum.Div(n).Round(6).Float64()
		return v
	}
	return Scores{
		Positive: mean(pos),
		Neutral:  mean(neu),
		Negative: mean(neg),
		Compound: mean(cmp),
	}
}
