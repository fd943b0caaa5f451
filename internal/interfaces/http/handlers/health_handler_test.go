package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(ctx context.Context) error { return nil }

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.2.3", NewHealthChecker("registry", func(ctx context.Context) error {
		t.Fatal("liveness must not run checkers")
		return nil
	}))
	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestHealthHandler_Readiness(t *testing.T) {
	t.Run("no checkers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHealthHandler("v").Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("all healthy", func(t *testing.T) {
		h := NewHealthHandler("v", NewHealthChecker("registry", ok), NewHealthChecker("redis", ok))
		rec := httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Len(t, resp.Components, 2)
	})

	t.Run("one failing", func(t *testing.T) {
		h := NewHealthHandler("v",
			NewHealthChecker("registry", ok),
			NewHealthChecker("redis", func(ctx context.Context) error { return stderrors.New("connection refused") }))
		rec := httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "healthy", resp.Components["registry"].Status)
		assert.Equal(t, "unhealthy", resp.Components["redis"].Status)
		assert.Equal(t, "connection refused", resp.Components["redis"].Error)
	})
}

func TestHealthHandler_Detailed(t *testing.T) {
	h := NewHealthHandler("v", NewHealthChecker("registry", func(ctx context.Context) error {
		return stderrors.New("timeout")
	}))
	rec := httptest.NewRecorder()
	h.Detailed(rec, httptest.NewRequest(http.MethodGet, "/healthz/detail", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp DetailedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "v", resp.Version)
}

//Personal.AI order the ending
