package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot/internal/store"
)

func fastRetry(n int) *RetryConfig {
	return &RetryConfig{MaxAttempts: n, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond}
}

func TestGETRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetry(fastRetry(3)))
	resp, err := c.GET(context.Background(), "/x")
	require.NoError(t, err)

	var body struct{ OK bool }
	require.NoError(t, resp.ParseJSON(&body))
	assert.True(t, body.OK)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestGETDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetry(fastRetry(3)))
	_, err := c.GET(context.Background(), "/missing")
	require.Error(t, err)

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGETGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetry(fastRetry(2)))
	_, err := c.GET(context.Background(), "/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 retry attempts failed")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestPOSTSendsJSONAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "default", r.Header.Get("X-Default"))
		assert.Equal(t, "override", r.Header.Get("X-Req"))
		_, _ = w.Write([]byte("done"))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithHeader("X-Default", "default"), WithRetry(fastRetry(1)))
	resp, err := c.POST(context.Background(), "/p", map[string]int{"a": 1}, map[string]string{"X-Req": "override"})
	require.NoError(t, err)
	assert.Equal(t, "done", resp.String())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithRetry(fastRetry(1)),
		WithBreaker(BreakerConfig{Name: "test", ConsecutiveFailures: 2, OpenTimeout: time.Minute}),
	)
	for i := 0; i < 2; i++ {
		_, err := c.GET(context.Background(), "/")
		require.Error(t, err)
	}
	_, err := c.GET(context.Background(), "/")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.False(t, IsRetryable(err))
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithRetry(fastRetry(1)),
		WithBreaker(BreakerConfig{Name: "test-4xx", ConsecutiveFailures: 1, OpenTimeout: time.Minute}),
	)
	for i := 0; i < 3; i++ {
		_, err := c.GET(context.Background(), "/")
		var he *HTTPError
		require.ErrorAs(t, err, &he)
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithBaseURL(srv.URL), WithRetry(&RetryConfig{MaxAttempts: 5, InitialWait: time.Hour, MaxWait: time.Hour}))
	start := time.Now()
	_, err := c.GET(ctx, "/")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRateLimitWaitHonoursContext(t *testing.T) {
	c := NewClient(WithRateLimit(0.001, 1))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := c.Do(NewRequest(http.MethodGet, srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Do(NewRequest(http.MethodGet, srv.URL).WithContext(ctx))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(&HTTPError{StatusCode: 400}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: 429}))
	assert.True(t, IsRetryable(&HTTPError{StatusCode: 503}))
	assert.True(t, IsRetryable(errors.New("connection reset")))
}

func TestNewFromConfig(t *testing.T) {
	cfg := store.Default()
	c := NewFromConfig(cfg, "yahoo")
	assert.Equal(t, cfg.HTTP.Timeout, c.httpClient.Timeout)
	require.NotNil(t, c.retry)
	assert.Equal(t, cfg.HTTP.Retry.MaxAttempts, c.retry.MaxAttempts)
	assert.NotNil(t, c.breaker)

	cfg.HTTP.Breaker.Disabled = true
	assert.Nil(t, NewFromConfig(cfg, "yahoo").breaker)
}
