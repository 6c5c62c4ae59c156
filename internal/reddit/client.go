package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/rickgao/findat/internal/api"
	"github.com/rickgao/findat/internal/ratelimit"
)

// DefaultBaseURL is the public Pushshift API.
const DefaultBaseURL = "https://api.pushshift.io"

const (
	submissionPath = "/reddit/search/submission/"
	commentPath    = "/reddit/comment/search/"
)

// SearchQuery selects one page of submissions.
type SearchQuery struct {
	Subreddit string
	After     Cursor
	Before    Cursor
	Size      int
}

// Client calls the Pushshift endpoints. Every call waits on the limiter.
type Client struct {
	baseURL string
	http    *api.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLimiter sets the limiter shared by every call.
func WithLimiter(l *ratelimit.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
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

// NewClient creates a Pushshift client on top of an api.Client.
func NewClient(baseURL string, httpClient *api.Client, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = api.NewClient()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchSubmissions returns one page of submissions in ascending created_utc.
func (c *Client) SearchSubmissions(ctx context.Context, q SearchQuery) ([]Submission, error) {
	query := url.Values{}
	query.Set("subreddit", q.Subreddit)
	query.Set("size", strconv.Itoa(q.Size))
	query.Set("after", q.After.String())
	query.Set("before", q.Before.String())
	query.Set("sort", "asc")
	query.Set("sort_type", "created_utc")

	var resp submissionsResponse
	if err := c.get(ctx, submissionPath, query, &resp); err != nil {
		return nil, fmt.Errorf("search submissions: %w", err)
	}
	return resp.Data, nil
}

// CountSubmissions returns the number of submissions the API expects in
// (after, before).
func (c *Client) CountSubmissions(ctx context.Context, subreddit string, after, before Cursor) (int, error) {
	query := url.Values{}
	query.Set("subreddit", subreddit)
	query.Set("after", after.String())
	query.Set("before", before.String())
	query.Set("metadata", "true")
	query.Set("size", "0")

	var resp countResponse
	if err := c.get(ctx, submissionPath, query, &resp); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	n, err := resp.Metadata.TotalResults.Int64()
	if err != nil {
		return 0, fmt.Errorf("count submissions: total_results %q: %w", resp.Metadata.TotalResults, err)
	}
	return int(n), nil
}

// SearchByTitle returns up to size submissions whose title matches title.
func (c *Client) SearchByTitle(ctx context.Context, subreddit, title string, size int) ([]Submission, error) {
	query := url.Values{}
	query.Set("subreddit", subreddit)
	query.Set("size", strconv.Itoa(size))
	query.Set("title", title)

	var resp submissionsResponse
	if err := c.get(ctx, submissionPath, query, &resp); err != nil {
		return nil, fmt.Errorf("search by title %q: %w", title, err)
	}
	return resp.Data, nil
}

// Comments returns up to limit comments of a submission, highest score first.
func (c *Client) Comments(ctx context.Context, linkID string, limit int) ([]Comment, error) {
	query := url.Values{}
	query.Set("link_id", linkID)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("sort_type", "score")
	query.Set("sort", "desc")

	var resp commentsResponse
	if err := c.get(ctx, commentPath, query, &resp); err != nil {
		return nil, fmt.Errorf("comments of %s: %w", linkID, err)
	}
	return resp.Data, nil
}

// get waits on the limiter and decodes a 200 answer. Other statuses that
// survived the retry policy are permanent.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	fullURL := c.baseURL + path
	resp, err := c.http.Get(ctx, fullURL, query)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &PermanentQueryError{Status: resp.StatusCode, URL: fullURL + "?" + query.Encode()}
	}

	if err := json.Unmarshal(resp.Body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
