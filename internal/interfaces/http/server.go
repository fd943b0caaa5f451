package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with config-driven timeouts and graceful shutdown.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          logging.Logger
}

// NewServer creates a Server for handler listening on cfg.Host:cfg.Port.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger.Named("http.server"),
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests, bounded by the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

//Personal.AI order the ending
