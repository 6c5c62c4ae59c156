package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Defaults for NewClient.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 5
	DefaultBackoffFactor = time.Second
	DefaultUserAgent     = "findat-harvester/1.0"

	// maxRetryWait caps a single backoff, including server-sent Retry-After.
	maxRetryWait = 5 * time.Minute
)

// DefaultRetryStatuses are the statuses retried when no others are configured.
var DefaultRetryStatuses = []int{
	http.StatusTooManyRequests,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// Client is an HTTP client with bounded exponential-backoff retries.
type Client struct {
	rc         *resty.Client
	httpClient *http.Client
	logger     *slog.Logger

	timeout       time.Duration
	userAgent     string
	maxRetries    int
	backoffFactor time.Duration
	retryStatuses map[int]struct{}
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:        slog.Default(),
		timeout:       DefaultTimeout,
		userAgent:     DefaultUserAgent,
		maxRetries:    DefaultMaxRetries,
		backoffFactor: DefaultBackoffFactor,
		retryStatuses: statusSet(DefaultRetryStatuses),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.rc = resty.NewWithClient(c.httpClient)
	} else {
		c.rc = resty.New()
	}
	c.rc.SetTimeout(c.timeout).
		SetHeader("User-Agent", c.userAgent).
		SetLogger(restyLogger{c.logger}).
		SetRetryCount(c.maxRetries).
		SetRetryWaitTime(c.backoffFactor).
		SetRetryMaxWaitTime(maxRetryWait).
		SetRetryAfter(c.retryAfter).
		AddRetryCondition(c.shouldRetry).
		AddRetryHook(c.logRetry)

	return c
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetries sets the retry count and the backoff factor.
func WithRetries(max int, backoffFactor time.Duration) ClientOption {
	return func(c *Client) {
		if max < 0 {
			max = 0
		}
		c.maxRetries = max
		c.backoffFactor = backoffFactor
	}
}

// WithRetryStatuses replaces the set of retried status codes.
func WithRetryStatuses(codes ...int) ClientOption {
	return func(c *Client) {
		c.retryStatuses = statusSet(codes)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// MaxRetries returns the configured retry count.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

func statusSet(codes []int) map[int]struct{} {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

func (c *Client) retryableStatus(code int) bool {
	_, ok := c.retryStatuses[code]
	return ok
}

// restyLogger routes resty's internal messages to slog.
type restyLogger struct {
	l *slog.Logger
}

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Debug(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
