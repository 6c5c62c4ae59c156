package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID      = "findat"
	DefaultTimezone        = "UTC"
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 5
	DefaultBackoffFactor   = 1 * time.Second
	DefaultUserAgent       = "findat-harvester/1.0"
	DefaultRateLimit       = 1.0
	DefaultDataDir         = "data"
	DefaultMarketFile      = "database.csv"
	DefaultSentimentFile   = "database_reddit_sentiment.csv"
	DefaultSubmissionsFile = "reddit_%s_submissions.csv"
	DefaultLockTTL         = 10 * time.Minute
	DefaultRedditURL       = "https://api.pushshift.io"
	DefaultSubreddit       = "wallstreetbets"
	DefaultPageSize        = 100
	DefaultPageSlack       = 5
	DefaultMaxPages        = 1000
	DefaultMaxPasses       = 5
	DefaultQuoteURL        = "https://query1.finance.yahoo.com/v7/finance/quote"
	DefaultCBOEURL         = "https://markets.cboe.com/us/options/market_statistics/daily/"
	DefaultFearGreedURL    = "https://money.cnn.com/data/fear-and-greed/"
	DefaultTitleLayout     = "January 02, 2006"
	DefaultThreadLimit     = 10
	DefaultCommentLimit    = 2000
	DefaultWordValence     = 5.0
	DefaultCron            = "30 7 * * *"
	DefaultScheduleRetries = 5
	DefaultRetryDelay      = 1 * time.Minute
	DefaultHealthAddr      = ":8080"
	DefaultMirrorSchema    = "public"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
)

// DefaultRetryStatuses are retried by the HTTP client.
var DefaultRetryStatuses = []int{429, 502, 503, 504}

// DefaultTickers are the quoted market columns.
var DefaultTickers = []TickerConfig{
	{Column: "SP500", Symbol: "^GSPC"},
	{Column: "ACWI", Symbol: "ACWI"},
	{Column: "VIX", Symbol: "^VIX"},
	{Column: "VIX3M", Symbol: "^VIX3M"},
}

// DefaultBlacklist lists organizations ignored by the sentiment filter.
var DefaultBlacklist = []string{"WSB", "Robinhood", "SEC", "Fed", "CNBC", "Citadel", "RH", "FDA", "Fidelity", "Reddit"}

func (c *HarvesterConfig) applyDefaults() {
	// Instance defaults
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}
	if c.Instance.Timezone == "" {
		c.Instance.Timezone = DefaultTimezone
	}

	// API defaults
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.BackoffFactor == 0 {
		c.API.BackoffFactor = DefaultBackoffFactor
	}
	if len(c.API.RetryStatuses) == 0 {
		c.API.RetryStatuses = append([]int(nil), DefaultRetryStatuses...)
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = DefaultUserAgent
	}
	if c.API.RateLimit == 0 {
		c.API.RateLimit = DefaultRateLimit
	}

	// Storage defaults
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = DefaultDataDir
	}
	if c.Storage.MarketFile == "" {
		c.Storage.MarketFile = DefaultMarketFile
	}
	if c.Storage.SentimentFile == "" {
		c.Storage.SentimentFile = DefaultSentimentFile
	}
	if c.Storage.SubmissionsFile == "" {
		c.Storage.SubmissionsFile = DefaultSubmissionsFile
	}
	if c.Storage.LockTTL == 0 {
		c.Storage.LockTTL = DefaultLockTTL
	}

	// Reddit defaults
	if c.Reddit.BaseURL == "" {
		c.Reddit.BaseURL = DefaultRedditURL
	}
	if c.Reddit.Subreddit == "" {
		c.Reddit.Subreddit = DefaultSubreddit
	}
	if c.Reddit.PageSize == 0 {
		c.Reddit.PageSize = DefaultPageSize
	}
	if c.Reddit.PageSlack == 0 {
		c.Reddit.PageSlack = DefaultPageSlack
	}
	if c.Reddit.MaxPages == 0 {
		c.Reddit.MaxPages = DefaultMaxPages
	}
	if c.Reddit.MaxPasses == 0 {
		c.Reddit.MaxPasses = DefaultMaxPasses
	}

	// Market defaults
	if c.Market.QuoteURL == "" {
		c.Market.QuoteURL = DefaultQuoteURL
	}
	if c.Market.CBOEURL == "" {
		c.Market.CBOEURL = DefaultCBOEURL
	}
	if c.Market.FearGreedURL == "" {
		c.Market.FearGreedURL = DefaultFearGreedURL
	}
	if len(c.Market.Tickers) == 0 {
		c.Market.Tickers = append([]TickerConfig(nil), DefaultTickers...)
	}

	// Sentiment defaults
	if c.Sentiment.Subreddit == "" {
		c.Sentiment.Subreddit = c.Reddit.Subreddit
	}
	if c.Sentiment.TitleLayout == "" {
		c.Sentiment.TitleLayout = DefaultTitleLayout
	}
	if c.Sentiment.ThreadLimit == 0 {
		c.Sentiment.ThreadLimit = DefaultThreadLimit
	}
	if c.Sentiment.CommentLimit == 0 {
		c.Sentiment.CommentLimit = DefaultCommentLimit
	}
	if c.Sentiment.MaxPasses == 0 {
		c.Sentiment.MaxPasses = 1
	}
	if c.Sentiment.Blacklist == nil {
		c.Sentiment.Blacklist = append([]string(nil), DefaultBlacklist...)
	}
	if c.Sentiment.WordValence == 0 {
		c.Sentiment.WordValence = DefaultWordValence
	}

	// Schedule defaults
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = DefaultCron
	}
	if c.Schedule.Retries == 0 {
		c.Schedule.Retries = DefaultScheduleRetries
	}
	if c.Schedule.RetryDelay == 0 {
		c.Schedule.RetryDelay = DefaultRetryDelay
	}
	if c.Schedule.HealthAddr == "" {
		c.Schedule.HealthAddr = DefaultHealthAddr
	}

	// Mirror defaults
	if c.Mirror.Schema == "" {
		c.Mirror.Schema = DefaultMirrorSchema
	}
	applyDBDefaults(&c.Mirror.Database)
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
