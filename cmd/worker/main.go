// Command worker consumes registry update events and evicts the affected
// entries from the search cache.
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
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/KeyMark-Search/internal/interfaces/http"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/handlers"
)

// Build-time variables injected via ldflags.
var version = "dev"

const (
	defaultHealthPort = 8081
	startupTimeout    = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (environment only when empty)")
	healthPort := flag.Int("health-port", defaultHealthPort, "port for /healthz, /readyz and metrics")
	ensureTopics := flag.Bool("ensure-topics", true, "create the update and dead-letter topics at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := bootstrap.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *healthPort, *ensureTopics, logger); err != nil {
		logger.Error("Worker exited", logging.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *config.Config, healthPort int, ensureTopics bool, logger logging.Logger) error {
	collector, metrics, err := bootstrap.NewMetrics(cfg.Metrics, logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	infra, err := bootstrap.Open(startCtx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer infra.Close()

	cached := infra.CachedService()
	if cached == nil {
		return fmt.Errorf("cache is disabled; the worker has nothing to invalidate")
	}

	if ensureTopics {
		if err := createTopics(startCtx, cfg.Kafka, logger); err != nil {
			return err
		}
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfigFrom(cfg.Kafka), logger)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer consumer.Close()

	registerHandlers(consumer, cfg.Kafka, cached, metrics, logger)

	healthSrv := httpserver.NewServer(
		config.ServerConfig{Port: healthPort, ShutdownTimeout: 5 * time.Second},
		healthRouter(cfg, infra.Checks(), collector, metrics, logger),
		logger,
	)
	go func() {
		if err := healthSrv.Start(); err != nil {
			logger.Error("Health server error", logging.Err(err))
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if err := consumer.Start(ctx); err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}

	logger.Info("KeyMark-Search worker started",
		logging.String("version", version),
		logging.String("topic", cfg.Kafka.Topic),
		logging.String("group", cfg.Kafka.GroupID),
		logging.String("dead_letter", cfg.Kafka.DeadLetter))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	sig := <-quit
	logger.Info("Received shutdown signal", logging.String("signal", sig.String()))

	stop()
	if err := consumer.Close(); err != nil {
		logger.Error("Kafka consumer close error", logging.Err(err))
	}
	if err := healthSrv.Stop(context.Background()); err != nil {
		logger.Error("Health server shutdown error", logging.Err(err))
	}

	logger.Info("KeyMark-Search worker stopped")
	return nil
}

// subscriber is the part of the Kafka consumer the worker wires handlers into.
type subscriber interface {
	Subscribe(topic string, handler kafka.MessageHandler)
}

func registerHandlers(s subscriber, cfg config.KafkaConfig, inv kafka.CacheInvalidator, metrics *prometheus.SearchMetrics, logger logging.Logger) {
	s.Subscribe(cfg.Topic, kafka.RegistryUpdateHandler(inv, metrics, logger))
}

func createTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		return fmt.Errorf("kafka topics: %w", err)
	}
	defer tm.Close()
	if err := tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg)); err != nil {
		return fmt.Errorf("kafka topics: %w", err)
	}
	return nil
}

// healthRouter serves health checks and metrics only; the worker has no search API.
func healthRouter(
	cfg *config.Config,
	checks []bootstrap.Check,
	collector prometheus.MetricsCollector,
	metrics *prometheus.SearchMetrics,
	logger logging.Logger,
) http.Handler {
	checkers := make([]handlers.HealthChecker, 0, len(checks))
	for _, c := range checks {
		checkers = append(checkers, handlers.NewHealthChecker(c.Name, c.Fn))
	}
	return httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:    handlers.NewHealthHandler(version, checkers...),
		Logger:           logger,
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})
}

//Personal.AI order the ending
