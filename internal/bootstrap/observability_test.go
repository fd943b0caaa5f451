package bootstrap

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
)

func TestNewLogger_InstallsDefault(t *testing.T) {
	logger, err := NewLogger(config.LogConfig{Level: "debug", Format: "console", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, logging.Default())
}

func TestNewMetrics_Disabled(t *testing.T) {
	collector, metrics, err := NewMetrics(config.MetricsConfig{Enabled: false}, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, collector)
	assert.Nil(t, metrics)
}

func TestNewMetrics_Enabled(t *testing.T) {
	collector, metrics, err := NewMetrics(config.MetricsConfig{Enabled: true, Namespace: "tmtest"}, logging.NewNopLogger())
	require.NoError(t, err)
	require.NotNil(t, collector)
	require.NotNil(t, metrics)

	prometheus.RecordSearch(metrics, "plain", "ok", 3, 3, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "tmtest_")
}

func TestNewMetrics_RequiresNamespace(t *testing.T) {
	_, _, err := NewMetrics(config.MetricsConfig{Enabled: true}, logging.NewNopLogger())
	assert.Error(t, err)
}

//Personal.AI order the ending
