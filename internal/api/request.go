package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPError is the last failure of a request once retries are exhausted,
// or a non-success status surfaced by GetJSON.
type HTTPError struct {
	StatusCode int // 0 for connection-level failures
	Attempts   int
	URL        string
	Err        error
	Retryable  bool
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
	}
	return fmt.Sprintf("request %s failed after %d attempts: %d %s",
		e.URL, e.Attempts, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the failure was of a retryable class.
func (e *HTTPError) Temporary() bool {
	return e.Retryable
}

// Response is a completed HTTP exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Attempts   int
}

// OK reports whether the status is 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Get performs a GET with retries. Statuses outside the retry set are
// returned as a Response without error.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	req := c.rc.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(rawURL)
	attempts := attemptsOf(resp)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("get %s: %w", rawURL, ctxErr)
		}
		return nil, &HTTPError{
			Attempts:  attempts,
			URL:       rawURL,
			Err:       err,
			Retryable: true,
		}
	}

	if c.retryableStatus(resp.StatusCode()) {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode(),
			Attempts:   attempts,
			URL:        rawURL,
			Retryable:  true,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Attempts:   attempts,
	}, nil
}

// GetJSON performs a GET and decodes a 200 response into result.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, result any) error {
	resp, err := c.Get(ctx, rawURL, query)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Attempts:   resp.Attempts,
			URL:        rawURL,
		}
	}

	if err := json.Unmarshal(resp.Body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

// shouldRetry must return true for transport errors, since resty lets the
// last condition decide.
func (c *Client) shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false
		}
		return resp == nil || resp.Request == nil || resp.Request.Context().Err() == nil
	}
	return resp != nil && c.retryableStatus(resp.StatusCode())
}

// retryAfter returns the wait before the next attempt: Retry-After seconds when
// the server sent them, else backoffFactor * 2^(n-1) for retry n.
func (c *Client) retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	if resp != nil && resp.RawResponse != nil {
		if secs, err := strconv.Atoi(resp.Header().Get("Retry-After")); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second, nil
		}
	}
	return Backoff(c.backoffFactor, attemptsOf(resp)), nil
}

func (c *Client) logRetry(resp *resty.Response, err error) {
	attrs := []any{"attempt", attemptsOf(resp)}
	if resp != nil && resp.Request != nil {
		attrs = append(attrs, "url", resp.Request.URL)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	} else if resp != nil {
		attrs = append(attrs, "status", resp.StatusCode())
	}
	c.logger.Debug("retrying request", attrs...)
}

// Backoff returns factor * 2^(n-1) for retry n (1-based).
func Backoff(factor time.Duration, n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if n > 30 {
		n = 30
	}
	return factor * time.Duration(1<<(n-1))
}

func attemptsOf(resp *resty.Response) int {
	if resp == nil || resp.Request == nil || resp.Request.Attempt < 1 {
		return 1
	}
	return resp.Request.Attempt
}
