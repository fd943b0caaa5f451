// Command apiserver serves trademark search over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turtacn/KeyMark-Search/internal/bootstrap"
	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/KeyMark-Search/internal/interfaces/http"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var version = "dev"

const (
	startupTimeout       = 30 * time.Second
	rateLimiterIdleAfter = 10 * time.Minute
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment only when empty)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("API server exited", logging.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *config.Config, logger logging.Logger) error {
	collector, metrics, err := bootstrap.NewMetrics(cfg.Metrics, logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	infra, err := bootstrap.Open(startCtx, cfg, logger, metrics)
	cancel()
	if err != nil {
		return err
	}
	defer infra.Close()

	var limiter *middleware.TokenBucketLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewTokenBucketLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, rateLimiterIdleAfter)
		defer limiter.Stop()
	}

	srv := httpserver.NewServer(cfg.Server, newRouter(cfg, infra, limiter, collector, metrics, logger), logger)

	logger.Info("Starting KeyMark-Search API server",
		logging.String("version", version),
		logging.String("addr", srv.Addr()),
		logging.String("registry", cfg.Registry.Driver),
		logging.Bool("cache", infra.Cache != nil))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Shutting down API server", logging.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	if err := srv.Stop(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
	}
	logger.Info("API server stopped")
	return nil
}

func newRouter(
	cfg *config.Config,
	infra *bootstrap.Infrastructure,
	limiter *middleware.TokenBucketLimiter,
	collector prometheus.MetricsCollector,
	metrics *prometheus.SearchMetrics,
	logger logging.Logger,
) http.Handler {
	rc := httpserver.RouterConfig{
		SearchHandler:    handlers.NewSearchHandler(infra.SearchService(), logger),
		HealthHandler:    handlers.NewHealthHandler(version, healthCheckers(infra.Checks())...),
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	}
	if limiter != nil {
		rc.RateLimiter = limiter
	}
	return httpserver.NewRouter(rc)
}

//Personal.AI order the ending
