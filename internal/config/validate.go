package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that all required fields are set and values are valid.
func (c *HarvesterConfig) Validate() error {
	if _, err := time.LoadLocation(c.Instance.Timezone); err != nil {
		return fmt.Errorf("instance.timezone: %w", err)
	}

	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}
	if c.API.BackoffFactor < 0 {
		return errors.New("api.backoff_factor must be >= 0")
	}
	if c.API.RateLimit < 0 {
		return errors.New("api.rate_limit must be >= 0")
	}
	for _, code := range c.API.RetryStatuses {
		if code < 100 || code > 599 {
			return fmt.Errorf("api.retry_statuses: invalid status %d", code)
		}
	}

	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if strings.Count(c.Storage.SubmissionsFile, "%s") != 1 {
		return errors.New("storage.submissions_file must contain exactly one %s")
	}

	if c.Reddit.Subreddit == "" {
		return errors.New("reddit.subreddit is required")
	}
	if c.Reddit.PageSize < 1 || c.Reddit.PageSize > 1000 {
		return fmt.Errorf("reddit.page_size must be between 1 and 1000, got %d", c.Reddit.PageSize)
	}
	if c.Reddit.PageSlack < 1 {
		return errors.New("reddit.page_slack must be >= 1")
	}
	if c.Reddit.MaxPages < 1 {
		return errors.New("reddit.max_pages must be >= 1")
	}
	if c.Reddit.MaxPasses < 1 {
		return errors.New("reddit.max_passes must be >= 1")
	}
	if err := validDate("reddit.start_date", c.Reddit.StartDate); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Market.Tickers))
	for i, t := range c.Market.Tickers {
		if t.Column == "" || t.Symbol == "" {
			return fmt.Errorf("market.tickers[%d]: column and symbol are required", i)
		}
		if seen[t.Column] {
			return fmt.Errorf("market.tickers[%d]: duplicate column %q", i, t.Column)
		}
		seen[t.Column] = true
	}

	if c.Sentiment.ThreadLimit < 1 {
		return errors.New("sentiment.thread_limit must be >= 1")
	}
	if c.Sentiment.CommentLimit < 1 {
		return errors.New("sentiment.comment_limit must be >= 1")
	}
	if c.Sentiment.MaxPasses < 1 {
		return errors.New("sentiment.max_passes must be >= 1")
	}
	if err := validDate("sentiment.start_date", c.Sentiment.StartDate); err != nil {
		return err
	}

	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	if c.Schedule.Retries < 0 {
		return errors.New("schedule.retries must be >= 0")
	}

	if c.Mirror.Enabled {
		if err := c.Mirror.Database.validate("mirror.database"); err != nil {
			return err
		}
	}

	return nil
}

func validDate(field, s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("%s must be YYYY-MM-DD, got %q", field, s)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
