package reddit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/findat/internal/api"
	"github.com/rickgao/findat/internal/ratelimit"
)

func TestCursorUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Cursor
	}{
		{`1704153600`, 1704153600},
		{`1704153600.0`, 1704153600},
		{`"1704153600"`, 1704153600},
		{`null`, 0},
	}
	for _, tt := range tests {
		var c Cursor
		require.NoError(t, json.Unmarshal([]byte(tt.in), &c), tt.in)
		assert.Equal(t, tt.want, c, tt.in)
	}

	var c Cursor
	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &c))
}

func TestClientComments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, commentPath, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "abc123", q.Get("link_id"))
		assert.Equal(t, "2000", q.Get("limit"))
		assert.Equal(t, "score", q.Get("sort_type"))
		assert.Equal(t, "desc", q.Get("sort"))
		w.Write([]byte(`{"data":[{"id":"c1","body":"TSLA to the moon","score":42},{"id":"c2","body":"meh","score":1}]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, api.NewClient())
	comments, err := c.Comments(context.Background(), "abc123", 2000)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "TSLA to the moon", comments[0].Body)
}

func TestClientSearchByTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, submissionPath, r.URL.Path)
		assert.Equal(t, "January 02, 2024", r.URL.Query().Get("title"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		w.Write([]byte(`{"data":[{"id":"dd1","title":"Daily Discussion Thread for January 02, 2024"}]}`))
	}))
	defer server.Close()

	subs, err := NewClient(server.URL, nil).SearchByTitle(context.Background(), "wallstreetbets", "January 02, 2024", 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "dd1", subs[0].ID)
}

func TestClientCountSubmissions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("metadata"))
		assert.Equal(t, "0", q.Get("size"))
		assert.Equal(t, "100", q.Get("after"))
		assert.Equal(t, "200", q.Get("before"))
		w.Write([]byte(`{"data":[],"metadata":{"total_results":1234}}`))
	}))
	defer server.Close()

	n, err := NewClient(server.URL, nil).CountSubmissions(context.Background(), "wallstreetbets", 100, 200)
	require.NoError(t, err)
	assert.Equal(t, 1234, n)
}

func TestClientPermanentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Comments(context.Background(), "x", 10)
	var permanent *PermanentQueryError
	require.ErrorAs(t, err, &permanent)
	assert.Equal(t, http.StatusForbidden, permanent.Status)
}

func TestClientSharesLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, nil, WithLimiter(ratelimit.New(10)))
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Comments(context.Background(), "x", 1)
		require.NoError(t, err)
	}
	// first call is free, then two waits of ~100ms
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
}
