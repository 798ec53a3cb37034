package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newLimitedEcho(rl *RateLimiter) *echo.Echo {
	e := echo.New()
	e.Use(rl.Middleware())
	e.GET("/titanic", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return e
}

func doRequest(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/titanic", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	e := newLimitedEcho(NewRateLimiter(10, 3))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(e, "10.0.0.1").Code)
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	e := newLimitedEcho(NewRateLimiter(0.5, 1))

	assert.Equal(t, http.StatusOK, doRequest(e, "10.0.0.1").Code)

	rec := doRequest(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	e := newLimitedEcho(NewRateLimiter(1, 1))

	assert.Equal(t, http.StatusOK, doRequest(e, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, doRequest(e, "10.0.0.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(e, "10.0.0.1").Code)
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Second)
	rl.getLimiter("10.0.0.2")

	rl.sweep()

	assert.NotContains(t, rl.limiters, "10.0.0.1")
	assert.Contains(t, rl.limiters, "10.0.0.2")
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- rl.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
