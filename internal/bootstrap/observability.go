package bootstrap

import (
	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
)

// NewLogger builds the process logger from the log section and installs it
// as the package default.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Level,
		Format:      cfg.Format,
		OutputPaths: cfg.OutputPaths,
	})
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logger)
	return logger, nil
}

// NewMetrics returns the collector and search metrics for cfg. Both are nil
// when metrics are disabled; every recorder accepts a nil *SearchMetrics.
func NewMetrics(cfg config.MetricsConfig, logger logging.Logger) (prometheus.MetricsCollector, *prometheus.SearchMetrics, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return collector, prometheus.NewSearchMetrics(collector), nil
}

//Personal.AI order the ending
