package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flaky(failures int) (Job, *atomic.Int32) {
	var calls atomic.Int32
	return JobFunc(func(ctx context.Context) error {
		if int(calls.Add(1)) <= failures {
			return errors.New("upstream unavailable")
		}
		return nil
	}), &calls
}

func TestNew_InvalidSpec(t *testing.T) {
	job, _ := flaky(0)
	_, err := New(Config{Spec: "every day"}, job, nil)
	require.Error(t, err)

	_, err = New(Config{Spec: "30 7 * * *", Retries: -1}, job, nil)
	require.Error(t, err)

	_, err = New(Config{Spec: "30 7 * * *"}, nil, nil)
	require.Error(t, err)
}

func TestRunOnce_RetriesUntilSuccess(t *testing.T) {
	job, calls := flaky(2)
	s, err := New(Config{Spec: "30 7 * * *", Retries: 5, RetryDelay: time.Millisecond}, job, nil)
	require.NoError(t, err)

	res := s.RunOnce(context.Background())

	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Attempts)
	assert.EqualValues(t, 3, calls.Load())
	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.False(t, res.Finished.Before(res.Started))

	st := s.Status()
	assert.True(t, st.Healthy())
	assert.EqualValues(t, 1, st.Runs)
	assert.EqualValues(t, 0, st.Failed)
	require.NotNil(t, st.Last)
	assert.Equal(t, res.RunID, st.Last.RunID)
}

func TestRunOnce_RetriesAreBounded(t *testing.T) {
	job, calls := flaky(100)
	s, err := New(Config{Spec: "30 7 * * *", Retries: 2, RetryDelay: time.Millisecond}, job, nil)
	require.NoError(t, err)

	res := s.RunOnce(context.Background())

	require.Error(t, res.Err)
	assert.Equal(t, 3, res.Attempts)
	assert.EqualValues(t, 3, calls.Load())

	st := s.Status()
	assert.False(t, st.Healthy())
	assert.EqualValues(t, 1, st.Failed)
}

func TestRunOnce_CancelledDuringDelay(t *testing.T) {
	job, calls := flaky(100)
	s, err := New(Config{Spec: "30 7 * * *", Retries: 5, RetryDelay: time.Hour}, job, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := s.RunOnce(ctx)

	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Equal(t, 1, res.Attempts)
	assert.EqualValues(t, 1, calls.Load())
}

func TestHandler(t *testing.T) {
	job, _ := flaky(1)
	s, err := New(Config{Spec: "30 7 * * *", Retries: 0}, job, nil)
	require.NoError(t, err)

	get := func() (int, healthResponse) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		var body healthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := get()
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Nil(t, body.LastRun)

	s.RunOnce(context.Background())
	code, body = get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	require.NotNil(t, body.LastRun)
	assert.Equal(t, "upstream unavailable", body.LastRun.Error)

	s.RunOnce(context.Background())
	code, body = get()
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body.Runs)
	assert.EqualValues(t, 1, body.Failed)
	assert.Empty(t, body.LastRun.Error)
}

func TestScheduler_StartStop(t *testing.T) {
	job, calls := flaky(0)
	s, err := New(Config{Spec: "@every 1s"}, job, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.Status().Next.IsZero())

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
