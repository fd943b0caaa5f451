package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/handlers"
	"github.com/turtacn/KeyMark-Search/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware of the route tree.
type RouterConfig struct {
	SearchHandler *handlers.SearchHandler
	HealthHandler *handlers.HealthHandler

	// RateLimiter, when set, guards /api/v1.
	RateLimiter middleware.RateLimiter
	// MaxBodySize caps request bodies; zero leaves them unbounded.
	MaxBodySize int64

	Logger           logging.Logger
	Metrics          *prometheus.SearchMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter builds the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(chimw.Recoverer)
	if cfg.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(cfg.MaxBodySize))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(middleware.RateLimit(cfg.RateLimiter, middleware.RateLimitConfig{}))
		}
		registerSearchRoutes(api, cfg.SearchHandler)
	})

	return r
}

// registerSearchRoutes mounts the search endpoints. The literal "latest"
// route is registered before the {appNumber} parameter route.
func registerSearchRoutes(r chi.Router, h *handlers.SearchHandler) {
	if h == nil {
		return
	}
	r.Post("/search", h.Search)
	r.Get("/normalize", h.Normalize)
	r.Route("/trademarks", func(tr chi.Router) {
		tr.Get("/latest", h.Latest)
		tr.Get("/{appNumber}", h.Get)
	})
}

//Personal.AI order the ending
