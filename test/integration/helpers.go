// Package integration drives the full search stack end to end: the embedded
// SQLite registry, the Redis result cache, the HTTP API, and the
// registry-update invalidation handler.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/bootstrap"
	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/KeyMark-Search/internal/interfaces/http"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyMark-Search/pkg/types/common"
)

// TestTimeout bounds a single request or event delivery.
const TestTimeout = 10 * time.Second

// TestEnvironment holds one isolated stack per test.
type TestEnvironment struct {
	Cfg    *config.Config
	Infra  *bootstrap.Infrastructure
	Redis  *miniredis.Miniredis
	Server *httptest.Server

	updates kafka.MessageHandler
}

// NewTestEnvironment opens a seeded registry behind a cached HTTP API.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Registry.Driver = config.DriverSQLite
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "registry.db")
	cfg.SQLite.MaxOpenConns = 1
	cfg.Cache.Enabled = true
	cfg.Cache.TTL = time.Hour
	cfg.Redis.Addr = mr.Addr()
	cfg.Metrics.Enabled = false

	logger := logging.NewNopLogger()
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	infra, err := bootstrap.Open(ctx, cfg, logger, nil)
	require.NoError(t, err)
	t.Cleanup(infra.Close)
	require.NoError(t, infra.SQLite.ApplySchema(ctx))

	checkers := make([]handlers.HealthChecker, 0)
	for _, c := range infra.Checks() {
		checkers = append(checkers, handlers.NewHealthChecker(c.Name, c.Fn))
	}
	router := httpserver.NewRouter(httpserver.RouterConfig{
		SearchHandler: handlers.NewSearchHandler(infra.SearchService(), logger),
		HealthHandler: handlers.NewHealthHandler("integration", checkers...),
		MaxBodySize:   cfg.Server.MaxBodySize,
		Logger:        logger,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	cached := infra.CachedService()
	require.NotNil(t, cached)

	return &TestEnvironment{
		Cfg:     cfg,
		Infra:   infra,
		Redis:   mr,
		Server:  srv,
		updates: kafka.RegistryUpdateHandler(cached, nil, logger),
	}
}

// Exec runs registry statements in order.
func (e *TestEnvironment) Exec(t *testing.T, stmts ...string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	for _, s := range stmts {
		require.NoError(t, e.Infra.SQLite.Exec(ctx, s), s)
	}
}

// PublishRegistryUpdate delivers a registry-updated event the way the
// worker's consumer would.
func (e *TestEnvironment) PublishRegistryUpdate(t *testing.T, applicationNumbers ...string) {
	t.Helper()
	env, err := kafka.NewEventEnvelope(kafka.EventRegistryUpdated, "integration", kafka.RegistryUpdatedPayload{
		ApplicationNumbers: applicationNumbers,
		UpdatedAt:          time.Now().UTC(),
	})
	require.NoError(t, err)
	msg, err := env.ToMessage(e.Cfg.Kafka.Topic)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, e.updates(ctx, &kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: msg.Headers,
	}))
}

// CachedKeys counts Redis keys under prefix, after the configured key prefix.
func (e *TestEnvironment) CachedKeys(prefix string) int {
	n := 0
	full := e.Cfg.Redis.KeyPrefix + prefix
	for _, k := range e.Redis.Keys() {
		if strings.HasPrefix(k, full) {
			n++
		}
	}
	return n
}

// Response is a decoded API envelope plus its status code.
type Response[T any] struct {
	Status int
	Body   common.APIResponse[T]
}

// PostJSON sends body to path and decodes the envelope.
func PostJSON[T any](t *testing.T, e *TestEnvironment, path string, body interface{}) Response[T] {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, e.Server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return do[T](t, req)
}

// GetJSON fetches path and decodes the envelope.
func GetJSON[T any](t *testing.T, e *TestEnvironment, path string) Response[T] {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.Server.URL+path, nil)
	require.NoError(t, err)
	return do[T](t, req)
}

func do[T any](t *testing.T, req *http.Request) Response[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(req.Context(), TestTimeout)
	defer cancel()

	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := Response[T]{Status: resp.StatusCode}
	require.NoError(t, json.Unmarshal(raw, &out.Body), string(raw))
	return out
}

//Personal.AI order the ending
