package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/testutil"
)

func TestNewServer(t *testing.T) {
	h := http.NewServeMux()
	s := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8080, ShutdownTimeout: time.Second}, h, nil)

	assert.Equal(t, "127.0.0.1:8080", s.Addr())
	assert.Equal(t, h, s.Handler())
}

func TestServer_StartStop(t *testing.T) {
	logger := testutil.NewMockLogger()
	s := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second}, http.NewServeMux(), logger)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	require.Eventually(t, func() bool {
		return logger.HasMessage("info", "HTTP server listening")
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, logger.HasMessage("info", "HTTP server stopped"))
}

//Personal.AI order the ending
