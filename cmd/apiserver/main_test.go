package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/bootstrap"
	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/middleware"
)

func TestHealthCheckers(t *testing.T) {
	down := stderrors.New("down")
	checkers := healthCheckers([]bootstrap.Check{
		{Name: "registry", Fn: func(context.Context) error { return nil }},
		{Name: "cache", Fn: func(context.Context) error { return down }},
	})
	require.Len(t, checkers, 2)
	assert.Equal(t, "registry", checkers[0].Name())
	assert.NoError(t, checkers[0].Check(context.Background()))
	assert.Equal(t, "cache", checkers[1].Name())
	assert.ErrorIs(t, checkers[1].Check(context.Background()), down)

	assert.Empty(t, healthCheckers(nil))
}

func newTestRouter(t *testing.T, limiter *middleware.TokenBucketLimiter) http.Handler {
	t.Helper()
	cfg := config.Default()
	cfg.Registry.Driver = config.DriverSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "registry.db")
	cfg.SQLite.MaxOpenConns = 1
	cfg.Cache.Enabled = false
	cfg.Metrics.Namespace = "apitest"

	logger := logging.NewNopLogger()
	collector, metrics, err := bootstrap.NewMetrics(cfg.Metrics, logger)
	require.NoError(t, err)

	infra, err := bootstrap.Open(context.Background(), cfg, logger, metrics)
	require.NoError(t, err)
	t.Cleanup(infra.Close)

	return newRouter(cfg, infra, limiter, collector, metrics, logger)
}

func TestNewRouter_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ready handlers.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready.Status)
	assert.Contains(t, ready.Components, "registry")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Contains(t, rec.Body.String(), `"version":"`+version+`"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "apitest_")
}

func TestNewRouter_Normalize(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/normalize?text=%EF%BC%A1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/normalize", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewRouter_RateLimited(t *testing.T) {
	limiter := middleware.NewTokenBucketLimiter(0.001, 1, 0)
	t.Cleanup(limiter.Stop)
	router := newTestRouter(t, limiter)

	req := func() int {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/v1/normalize?text=a", nil)
		r.RemoteAddr = "203.0.113.7:5555"
		router.ServeHTTP(rec, r)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, req())
	assert.Equal(t, http.StatusTooManyRequests, req())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

//Personal.AI order the ending
