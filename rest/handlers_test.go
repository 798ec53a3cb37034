package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"visitboard/domain"
	"visitboard/driver"
	"visitboard/gateway"
	"visitboard/middleware"
	"visitboard/retry"
	"visitboard/usecase"
	"visitboard/web"
)

// MockVisitRecorder is a mock implementation of VisitRecorder.
type MockVisitRecorder struct {
	mock.Mock
}

func (m *MockVisitRecorder) RecordVisit(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockReadinessChecker is a mock implementation of ReadinessChecker.
type MockReadinessChecker struct {
	mock.Mock
}

func (m *MockReadinessChecker) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReadinessChecker) Backend() domain.CounterBackend {
	return domain.CounterBackendRedis
}

type staticSummary domain.RenderedSummary

func (s staticSummary) BuildSummary(context.Context) domain.RenderedSummary {
	return domain.RenderedSummary(s)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler(quietLogger())
	return e
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderAccept, "text/html")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLandingHandler(t *testing.T) {
	t.Run("renders the count", func(t *testing.T) {
		visits := new(MockVisitRecorder)
		visits.On("RecordVisit", mock.Anything).Return(int64(3), nil)

		e := newTestEcho(t)
		e.GET("/", NewLandingHandler(visits).HandleHello)

		rec := serve(e, "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<span id="hit-count">3</span>`)
	})

	t.Run("exhausted counter is a 503 without a count", func(t *testing.T) {
		visits := new(MockVisitRecorder)
		visits.On("RecordVisit", mock.Anything).
			Return(int64(0), fmt.Errorf("%w: connection refused", domain.ErrConnectionExhausted))

		e := newTestEcho(t)
		e.GET("/", NewLandingHandler(visits).HandleHello)

		rec := serve(e, "/")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hit-count")
	})

	t.Run("other counter failures are a 500", func(t *testing.T) {
		visits := new(MockVisitRecorder)
		visits.On("RecordVisit", mock.Anything).Return(int64(0), errors.New("WRONGTYPE"))

		e := newTestEcho(t)
		e.GET("/", NewLandingHandler(visits).HandleHello)

		assert.Equal(t, http.StatusInternalServerError, serve(e, "/").Code)
	})
}

func TestLandingHandler_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	redisDriver, err := driver.NewRedisDriverWithURL("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisDriver.Close() })

	counter := gateway.NewCounterGateway(redisDriver, domain.DefaultCounterKey, domain.CounterBackendRedis,
		retry.RetryConfig{MaxAttempts: 6, Delay: time.Millisecond}, quietLogger())
	handler := NewLandingHandler(usecase.NewHitCounterUsecase(counter, quietLogger()))

	e := newTestEcho(t)
	e.GET("/", handler.HandleHello)

	for want := 1; want <= 3; want++ {
		rec := serve(e, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), fmt.Sprintf(`<span id="hit-count">%d</span>`, want))
	}

	mr.Close()

	assert.Equal(t, http.StatusServiceUnavailable, serve(e, "/").Code)
}

func TestTitanicHandler(t *testing.T) {
	t.Run("renders statistics preview and chart", func(t *testing.T) {
		summary := staticSummary{
			Preview: domain.PreviewTable{
				Columns: []string{"Name", "Sex"},
				Rows:    [][]string{{"Braund, Mr. Owen Harris", "male"}, {"<b>Bold</b><script>alert(1)</script>", "female"}},
			},
			Stats: domain.Statistics{Total: 891, Survived: 342, Rate: 38.4},
			Chart: &domain.ChartImage{PNG: []byte("png")},
		}

		e := newTestEcho(t)
		e.GET("/titanic", NewTitanicHandler(summary).HandleTitanic)

		rec := serve(e, "/titanic")
		body := rec.Body.String()

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, `<span class="stat-value" id="total-passengers">891</span>`)
		assert.Contains(t, body, `<span class="stat-value" id="survived">342</span>`)
		assert.Contains(t, body, `38.4%`)
		assert.Contains(t, body, "<td>Braund, Mr. Owen Harris</td>")
		assert.Contains(t, body, "<b>Bold</b>")
		assert.NotContains(t, body, "<script>")
		assert.Contains(t, body, `src="data:image/png;base64,cG5n"`)
	})

	t.Run("whole percentages keep one decimal", func(t *testing.T) {
		summary := staticSummary{Stats: domain.Statistics{Total: 2, Survived: 2, Rate: 100}}

		e := newTestEcho(t)
		e.GET("/titanic", NewTitanicHandler(summary).HandleTitanic)

		assert.Contains(t, serve(e, "/titanic").Body.String(), "100.0%")
	})

	t.Run("missing chart is omitted", func(t *testing.T) {
		summary := staticSummary{Stats: domain.Statistics{Total: 1, Survived: 0}}

		e := newTestEcho(t)
		e.GET("/titanic", NewTitanicHandler(summary).HandleTitanic)

		rec := serve(e, "/titanic")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "survival-chart")
	})
}

func TestTitanicHandler_DatasetFiles(t *testing.T) {
	build := func(path string) *TitanicHandler {
		uc := usecase.NewSummaryUsecase(driver.NewCSVDatasetDriver(path), gateway.NewChartGateway(), 5, quietLogger())
		return NewTitanicHandler(uc)
	}

	t.Run("missing file renders the error message with 200", func(t *testing.T) {
		e := newTestEcho(t)
		e.GET("/titanic", build(filepath.Join(t.TempDir(), "titanic.csv")).HandleTitanic)

		rec := serve(e, "/titanic")
		body := rec.Body.String()

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, "Error loading Titanic data: ")
		assert.NotContains(t, body, "titanic-table")
		assert.NotContains(t, body, "survival-chart")
	})

	t.Run("valid file renders everything", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "titanic.csv")
		require.NoError(t, os.WriteFile(path, []byte(
			"PassengerId,Survived,Pclass,Name,Sex\n"+
				"1,0,3,\"Braund, Mr. Owen Harris\",male\n"+
				"2,1,1,\"Cumings, Mrs. John Bradley\",female\n"+
				"3,1,3,\"Heikkinen, Miss. Laina\",female\n"), 0o600))

		e := newTestEcho(t)
		e.GET("/titanic", build(path).HandleTitanic)

		rec := serve(e, "/titanic")
		body := rec.Body.String()

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, body, `id="total-passengers">3<`)
		assert.Contains(t, body, `id="survived">2<`)
		assert.Contains(t, body, "66.7%")
		assert.Contains(t, body, "<td>Heikkinen, Miss. Laina</td>")
		assert.Contains(t, body, `id="survival-chart" src="data:image/png;base64,`)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("health", func(t *testing.T) {
		e := echo.New()
		e.GET("/health", NewHealthHandler(new(MockReadinessChecker)).HandleHealth)

		rec := serve(e, "/health")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{"ready", nil, http.StatusOK, "ready"},
		{"store down", domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(MockReadinessChecker)
			checker.On("Ready", mock.Anything).Return(tt.pingErr)

			e := echo.New()
			e.GET("/ready", NewHealthHandler(checker).HandleReady)

			rec := serve(e, "/ready")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body["status"])
			assert.Equal(t, "redis", body["counter"])
		})
	}
}
