package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// HarvesterConfig is the root configuration of the harvester.
type HarvesterConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Reddit    RedditConfig    `yaml:"reddit"`
	Market    MarketConfig    `yaml:"market"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Mirror    MirrorConfig    `yaml:"mirror"`
}

// InstanceConfig identifies the running harvester.
type InstanceConfig struct {
	ID       string `yaml:"id"`
	Timezone string `yaml:"timezone"` // Zone that calendar days are cut in
}

// APIConfig holds HTTP client settings shared by every upstream.
type APIConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	BackoffFactor time.Duration `yaml:"backoff_factor"`
	RetryStatuses []int         `yaml:"retry_statuses"`
	UserAgent     string        `yaml:"user_agent"`
	RateLimit     float64       `yaml:"rate_limit"` // Max Pushshift requests per second
}

// StorageConfig holds store file locations.
type StorageConfig struct {
	DataDir         string        `yaml:"data_dir"`
	MarketFile      string        `yaml:"market_file"`
	SentimentFile   string        `yaml:"sentiment_file"`
	SubmissionsFile string        `yaml:"submissions_file"` // %s is replaced by the subreddit
	LockTTL         time.Duration `yaml:"lock_ttl"`
}

// RedditConfig holds submission backfill settings.
type RedditConfig struct {
	BaseURL   string `yaml:"base_url"`
	Subreddit string `yaml:"subreddit"`
	StartDate string `yaml:"start_date"`
	PageSize  int    `yaml:"page_size"`
	PageSlack int    `yaml:"page_slack"`
	MaxPages  int    `yaml:"max_pages"`
	MaxPasses int    `yaml:"max_passes"`
}

// TickerConfig maps a store column to a quote symbol.
type TickerConfig struct {
	Column string `yaml:"column"`
	Symbol string `yaml:"symbol"`
}

// MarketConfig holds market snapshot sources.
type MarketConfig struct {
	QuoteURL     string         `yaml:"quote_url"`
	CBOEURL      string         `yaml:"cboe_url"`
	FearGreedURL string         `yaml:"fear_greed_url"`
	Tickers      []TickerConfig `yaml:"tickers"`
}

// SentimentConfig holds discussion sentiment settings.
type SentimentConfig struct {
	Subreddit     string             `yaml:"subreddit"`
	StartDate     string             `yaml:"start_date"`
	TitleLayout   string             `yaml:"title_layout"`
	ThreadLimit   int                `yaml:"thread_limit"`
	CommentLimit  int                `yaml:"comment_limit"`
	MaxPasses     int                `yaml:"max_passes"`
	Blacklist     []string           `yaml:"blacklist"`
	Organizations []string           `yaml:"organizations"` // Names recognized besides tickers
	PositiveWords string             `yaml:"positive_words"`
	NegativeWords string             `yaml:"negative_words"`
	WordValence   float64            `yaml:"word_valence"`
	Lexicon       map[string]float64 `yaml:"lexicon"` // Extra token valences, applied last
}

// ScheduleConfig holds the daemon settings.
type ScheduleConfig struct {
	Cron       string        `yaml:"cron"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	HealthAddr string        `yaml:"health_addr"`
}

// MirrorConfig enables the Postgres copy of every merged batch.
type MirrorConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Schema   string   `yaml:"schema"`
	Database DBConfig `yaml:"database"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Location returns the configured zone, or UTC if it cannot be loaded.
func (c *HarvesterConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Instance.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MarketPath returns the market store path.
func (c *HarvesterConfig) MarketPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.MarketFile)
}

// SentimentPath returns the sentiment store path.
func (c *HarvesterConfig) SentimentPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.SentimentFile)
}

// SubmissionsPath returns the submissions store path for subreddit.
func (c *HarvesterConfig) SubmissionsPath(subreddit string) string {
	return filepath.Join(c.Storage.DataDir, fmt.Sprintf(c.Storage.SubmissionsFile, subreddit))
}
