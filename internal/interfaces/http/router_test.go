package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/middleware"
	"github.com/turtacn/KeyMark-Search/internal/testutil"
)

func newSearchHandler() *handlers.SearchHandler {
	reg := testutil.NewMemoryRegistry().Add(testutil.Fixture{
		Application:     trademark.Application{Number: "2020000001", FilingDate: "20200115"},
		Variants:        map[trademark.VariantKind]string{trademark.VariantStandardCharacter: "ブルドッグ"},
		Classifications: []trademark.Classification{{ClassNumber: "09"}},
	})
	return handlers.NewSearchHandler(search.NewService(search.Deps{Registry: reg, Images: reg}), nil)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_Routes(t *testing.T) {
	router := NewRouter(RouterConfig{
		SearchHandler: newSearchHandler(),
		HealthHandler: handlers.NewHealthHandler("test"),
	})

	cases := []struct {
		method, target, body string
		want                 int
	}{
		{http.MethodPost, "/api/v1/search", `{"criteria":{"mark_text":"ブル"}}`, http.StatusOK},
		{http.MethodGet, "/api/v1/trademarks/2020000001", "", http.StatusOK},
		{http.MethodGet, "/api/v1/trademarks/latest?class=09", "", http.StatusOK},
		{http.MethodGet, "/api/v1/normalize?text=abc", "", http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/healthz/detail", "", http.StatusOK},
		{http.MethodGet, "/api/v1/search", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/patents", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := do(router, tc.method, tc.target, tc.body)
		assert.Equal(t, tc.want, rec.Code, "%s %s: %s", tc.method, tc.target, rec.Body.String())
	}
}

func TestNewRouter_LatestIsNotAnApplicationNumber(t *testing.T) {
	router := NewRouter(RouterConfig{SearchHandler: newSearchHandler()})

	rec := do(router, http.MethodGet, "/api/v1/trademarks/latest?class=09", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data search.SearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, int64(1), env.Data.Total)
}

func TestNewRouter_RequestIDPropagated(t *testing.T) {
	router := NewRouter(RouterConfig{SearchHandler: newSearchHandler()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/normalize?text=x", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env struct {
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "req-123", env.RequestID)
}

func TestNewRouter_ReadinessReflectsCheckers(t *testing.T) {
	failing := handlers.NewHealthChecker("redis", func(ctx context.Context) error { return context.DeadlineExceeded })
	router := NewRouter(RouterConfig{HealthHandler: handlers.NewHealthHandler("test", failing)})

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(router, http.MethodGet, "/readyz", "").Code)
}

func TestNewRouter_Metrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "router"}, logging.NewNopLogger())
	require.NoError(t, err)
	router := NewRouter(RouterConfig{
		SearchHandler:    newSearchHandler(),
		Metrics:          prometheus.NewSearchMetrics(collector),
		MetricsCollector: collector,
	})

	do(router, http.MethodGet, "/api/v1/trademarks/2020000001", "")
	rec := do(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`router_http_requests_total{method="GET",path="/api/v1/trademarks/{appNumber}",status_code="200"} 1`)
}

func TestNewRouter_RateLimitOnlyOnAPI(t *testing.T) {
	limiter := middleware.NewTokenBucketLimiter(0.001, 1, 0)
	router := NewRouter(RouterConfig{
		SearchHandler: newSearchHandler(),
		HealthHandler: handlers.NewHealthHandler("test"),
		RateLimiter:   limiter,
	})

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/normalize?text=x", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodGet, "/api/v1/normalize?text=x", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/healthz", "").Code)
}

func TestNewRouter_BodyLimit(t *testing.T) {
	router := NewRouter(RouterConfig{SearchHandler: newSearchHandler(), MaxBodySize: 16})

	rec := do(router, http.MethodPost, "/api/v1/search", `{"criteria":{"mark_text":"a long enough body"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewRouter_NilHandlers(t *testing.T) {
	router := NewRouter(RouterConfig{})
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/api/v1/search", "{}").Code)
}

//Personal.AI order the ending
