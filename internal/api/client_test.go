package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient()

		if c.timeout != DefaultTimeout {
			t.Errorf("timeout = %v, want %v", c.timeout, DefaultTimeout)
		}
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.backoffFactor != time.Second {
			t.Errorf("backoffFactor = %v, want %v", c.backoffFactor, time.Second)
		}
		for _, code := range []int{429, 502, 503, 504} {
			if !c.retryableStatus(code) {
				t.Errorf("status %d should be retryable by default", code)
			}
		}
		if c.retryableStatus(500) {
			t.Error("status 500 should not be retryable by default")
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient(WithTimeout(5 * time.Second))
		if c.timeout != 5*time.Second {
			t.Errorf("timeout = %v, want %v", c.timeout, 5*time.Second)
		}
	})

	t.Run("with retries option", func(t *testing.T) {
		c := NewClient(WithRetries(3, 2*time.Second))
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.backoffFactor != 2*time.Second {
			t.Errorf("backoffFactor = %v, want %v", c.backoffFactor, 2*time.Second)
		}
	})

	t.Run("negative retries clamp to zero", func(t *testing.T) {
		c := NewClient(WithRetries(-1, time.Second))
		if c.MaxRetries() != 0 {
			t.Errorf("MaxRetries() = %d, want 0", c.MaxRetries())
		}
	})

	t.Run("with retry statuses", func(t *testing.T) {
		c := NewClient(WithRetryStatuses(500))
		if !c.retryableStatus(500) || c.retryableStatus(503) {
			t.Error("retry statuses not replaced")
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient(WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient(WithHTTPClient(customClient))
		if c.rc.GetClient() != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

// TestHTTPError tests the HTTPError type.
func TestHTTPError(t *testing.T) {
	t.Run("status error message", func(t *testing.T) {
		err := &HTTPError{StatusCode: 503, Attempts: 6, URL: "https://example.com/x"}
		expected := "request https://example.com/x failed after 6 attempts: 503 Service Unavailable"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("connection error unwraps", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &HTTPError{Attempts: 2, URL: "https://example.com/x", Err: cause, Retryable: true}
		if !errors.Is(err, cause) {
			t.Error("errors.Is should find the cause")
		}
		if !err.Temporary() {
			t.Error("Temporary() = false, want true")
		}
	})
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		n    int
		want time.Duration
	}{
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
	}

	for _, tt := range tests {
		if got := Backoff(time.Second, tt.n); got != tt.want {
			t.Errorf("Backoff(1s, %d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

// TestGet tests single-request behavior.
func TestGet(t *testing.T) {
	t.Run("successful request with query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("subreddit") != "wallstreetbets" {
				t.Errorf("subreddit = %q, want %q", r.URL.Query().Get("subreddit"), "wallstreetbets")
			}
			if r.Header.Get("User-Agent") != DefaultUserAgent {
				t.Errorf("User-Agent = %q, want %q", r.Header.Get("User-Agent"), DefaultUserAgent)
			}
			w.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		c := NewClient()
		resp, err := c.Get(context.Background(), server.URL+"/search", url.Values{"subreddit": {"wallstreetbets"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.OK() {
			t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
		}
		if string(resp.Body) != `{"data":[]}` {
			t.Errorf("Body = %q", resp.Body)
		}
		if resp.Attempts != 1 {
			t.Errorf("Attempts = %d, want 1", resp.Attempts)
		}
	})

	t.Run("non-retryable status returns after one attempt", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewClient(WithRetries(5, time.Millisecond))
		resp, err := c.Get(context.Background(), server.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
		}
		if hits.Load() != 1 {
			t.Errorf("hits = %d, want 1", hits.Load())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(WithRetries(3, time.Millisecond))
		_, err := c.Get(ctx, server.URL, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

// TestGetRetry tests the retry bound and recovery.
func TestGetRetry(t *testing.T) {
	t.Run("always retryable status attempts maxRetries+1 times", func(t *testing.T) {
		for _, maxRetries := range []int{0, 1, 3} {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(http.StatusServiceUnavailable)
			}))

			c := NewClient(WithRetries(maxRetries, time.Millisecond))
			_, err := c.Get(context.Background(), server.URL, nil)
			server.Close()

			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error = %v, want *HTTPError", err)
			}
			if httpErr.StatusCode != http.StatusServiceUnavailable {
				t.Errorf("StatusCode = %d, want 503", httpErr.StatusCode)
			}
			if !httpErr.Temporary() {
				t.Error("Temporary() = false, want true")
			}
			if got := int(hits.Load()); got != maxRetries+1 {
				t.Errorf("maxRetries=%d: hits = %d, want %d", maxRetries, got, maxRetries+1)
			}
			if httpErr.Attempts != maxRetries+1 {
				t.Errorf("maxRetries=%d: Attempts = %d, want %d", maxRetries, httpErr.Attempts, maxRetries+1)
			}
		}
	})

	t.Run("recovers after transient failures", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`ok`))
		}))
		defer server.Close()

		c := NewClient(WithRetries(5, time.Millisecond))
		resp, err := c.Get(context.Background(), server.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", resp.Attempts)
		}
	})

	t.Run("connection failure is retried and surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := server.URL
		server.Close()

		c := NewClient(WithRetries(2, time.Millisecond))
		_, err := c.Get(context.Background(), addr, nil)

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("error = %v, want *HTTPError", err)
		}
		if httpErr.StatusCode != 0 {
			t.Errorf("StatusCode = %d, want 0", httpErr.StatusCode)
		}
		if httpErr.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", httpErr.Attempts)
		}
		if httpErr.Err == nil {
			t.Error("Err should carry the transport error")
		}
	})
}

func TestGetJSON(t *testing.T) {
	t.Run("decodes body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"metadata":{"total_results":42}}`))
		}))
		defer server.Close()

		var out struct {
			Metadata struct {
				TotalResults int `json:"total_results"`
			} `json:"metadata"`
		}
		if err := NewClient().GetJSON(context.Background(), server.URL, nil, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Metadata.TotalResults != 42 {
			t.Errorf("TotalResults = %d, want 42", out.Metadata.TotalResults)
		}
	})

	t.Run("non-200 is a permanent error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		var out map[string]any
		err := NewClient().GetJSON(context.Background(), server.URL, nil, &out)
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("error = %v, want *HTTPError", err)
		}
		if httpErr.StatusCode != http.StatusBadRequest || httpErr.Temporary() {
			t.Errorf("got %+v, want permanent 400", httpErr)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		var out map[string]any
		if err := NewClient().GetJSON(context.Background(), server.URL, nil, &out); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}
