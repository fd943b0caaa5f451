// Package prometheus wraps client_golang behind small interfaces so the search
// pipeline can record metrics without importing the client library directly.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
)

// MetricsCollector registers metric vectors on a private registry and serves
// them over HTTP.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

// CounterVec yields a Counter per label set.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter only goes up.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec yields a Gauge per label set.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge moves both ways.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// HistogramVec yields a Histogram per label set.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram records observations into buckets.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Namespace               string            `mapstructure:"namespace"`
	Subsystem               string            `mapstructure:"subsystem"`
	EnableProcessMetrics    bool              `mapstructure:"enable_process_metrics"`
	EnableGoMetrics         bool              `mapstructure:"enable_go_metrics"`
	DefaultHistogramBuckets []float64         `mapstructure:"default_histogram_buckets"`
	ConstLabels             map[string]string `mapstructure:"const_labels"`
}

type collector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu     sync.Mutex
	byName map[string]prometheus.Collector
}

// NewMetricsCollector creates a MetricsCollector with its own registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: cfg.Namespace,
		}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}
	if cfg.DefaultHistogramBuckets == nil {
		cfg.DefaultHistogramBuckets = prometheus.DefBuckets
	}

	return &collector{
		registry: registry,
		config:   cfg,
		logger:   logger,
		byName:   make(map[string]prometheus.Collector),
	}, nil
}

func (c *collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// register adds vec under name. A second registration of the same name returns
// the first vector, so repeated NewSearchMetrics calls share series.
func (c *collector) register(name string, vec prometheus.Collector) (prometheus.Collector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fq := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, ok := c.byName[fq]; ok {
		return existing, true
	}
	if err := c.registry.Register(vec); err != nil {
		c.logger.Error("failed to register metric", logging.String("name", fq), logging.Err(err))
		return nil, false
	}
	c.byName[fq] = vec
	return vec, true
}

func (c *collector) mismatch(name, kind string) {
	c.logger.Warn("metric type mismatch", logging.String("name", name), logging.String("type", kind))
}

func (c *collector) RegisterCounter(name, help string, labels ...string) CounterVec {
	got, ok := c.register(name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels))
	if !ok {
		return vec[Counter](nopVec[Counter](noop{}))
	}
	cv, ok := got.(*prometheus.CounterVec)
	if !ok {
		c.mismatch(name, "counter")
		return vec[Counter](nopVec[Counter](noop{}))
	}
	return vec[Counter](func(lvs ...string) Counter { return cv.WithLabelValues(lvs...) })
}

func (c *collector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	got, ok := c.register(name, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels))
	if !ok {
		return vec[Gauge](nopVec[Gauge](noop{}))
	}
	gv, ok := got.(*prometheus.GaugeVec)
	if !ok {
		c.mismatch(name, "gauge")
		return vec[Gauge](nopVec[Gauge](noop{}))
	}
	return vec[Gauge](func(lvs ...string) Gauge { return gv.WithLabelValues(lvs...) })
}

func (c *collector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = c.config.DefaultHistogramBuckets
	}
	got, ok := c.register(name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
		Buckets:     buckets,
	}, labels))
	if !ok {
		return vec[Histogram](nopVec[Histogram](noop{}))
	}
	hv, ok := got.(*prometheus.HistogramVec)
	if !ok {
		c.mismatch(name, "histogram")
		return vec[Histogram](nopVec[Histogram](noop{}))
	}
	return vec[Histogram](func(lvs ...string) Histogram { return hv.WithLabelValues(lvs...) })
}

// vec adapts a client_golang WithLabelValues method to the wrapper interfaces.
type vec[M any] func(lvs ...string) M

func (v vec[M]) WithLabelValues(lvs ...string) M { return v(lvs...) }

func nopVec[M any](m M) func(...string) M {
	return func(...string) M { return m }
}

// noop satisfies Counter, Gauge and Histogram. Returned when registration
// fails so callers never check for nil.
type noop struct{}

func (noop) Inc()            {}
func (noop) Dec()            {}
func (noop) Add(float64)     {}
func (noop) Set(float64)     {}
func (noop) Observe(float64) {}

//Personal.AI order the ending
