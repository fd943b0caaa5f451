// Package bootstrap wires configured infrastructure into the search service
// for the apiserver, worker and tmsearch binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/turtacn/KeyMark-Search/internal/application/search"
	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/database/postgres"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/database/redis"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/database/sqlite"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/database/sqlregistry"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/storage/minio"
)

// Check is a named readiness check.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

type closer struct {
	name  string
	close func() error
}

// Infrastructure holds the clients a process needs to serve searches.
type Infrastructure struct {
	Config   *config.Config
	Logger   logging.Logger
	Metrics  *prometheus.SearchMetrics
	Registry *sqlregistry.Registry
	Images   trademark.ImagePresence
	// Cache is nil when the result cache is disabled.
	Cache redis.Cache

	// SQLite is set when the registry runs on the embedded driver.
	SQLite *sqlite.DB

	checks  []Check
	closers []closer
}

// Open connects the registry, image source and result cache selected by cfg.
// On failure everything opened so far is closed again.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *prometheus.SearchMetrics) (*Infrastructure, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	infra := &Infrastructure{Config: cfg, Logger: logger, Metrics: metrics}

	if err := infra.openRegistry(ctx); err != nil {
		infra.Close()
		return nil, err
	}
	if err := infra.openImages(ctx); err != nil {
		infra.Close()
		return nil, err
	}
	if cfg.Cache.Enabled {
		if err := infra.openCache(ctx); err != nil {
			infra.Close()
			return nil, err
		}
	}

	logger.Info("Infrastructure initialized",
		logging.String("registry", cfg.Registry.Driver),
		logging.String("images", cfg.Search.ImageSource),
		logging.Bool("cache", infra.Cache != nil))
	return infra, nil
}

func (i *Infrastructure) openRegistry(ctx context.Context) error {
	cfg := i.Config
	opts := []sqlregistry.Option{sqlregistry.WithMetrics(i.Metrics)}

	switch cfg.Registry.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite, i.Logger)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		i.SQLite = db
		i.Registry = sqlregistry.New(db, sqlregistry.SQLite(), i.Logger, opts...)
		i.addCheck("registry", db.Ping)
		i.addCloser("sqlite", db.Close)
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database, cfg.Registry.QueryTimeout, i.Logger)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		i.Registry = sqlregistry.New(conn, sqlregistry.Postgres(), i.Logger, opts...)
		i.addCheck("registry", conn.HealthCheck)
		i.addCloser("postgres", conn.Close)
	default:
		return fmt.Errorf("registry: unknown driver %q", cfg.Registry.Driver)
	}
	return nil
}

func (i *Infrastructure) openImages(ctx context.Context) error {
	switch i.Config.Search.ImageSource {
	case config.ImageSourceMinIO:
		client, err := minio.NewMinIOClient(ctx, i.Config.MinIO, i.Logger)
		if err != nil {
			return fmt.Errorf("minio: %w", err)
		}
		i.Images = minio.NewImageChecker(client, i.Logger, minio.WithMetrics(i.Metrics))
		i.addCheck("minio", func(ctx context.Context) error {
			_, err := client.HealthCheck(ctx)
			return err
		})
		i.addCloser("minio", client.Close)
	case config.ImageSourceNone:
		i.Images = trademark.NoImages{}
	default:
		i.Images = i.Registry
	}
	return nil
}

func (i *Infrastructure) openCache(ctx context.Context) error {
	client, err := redis.NewClient(ctx, i.Config.Redis, i.Logger)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	i.UseCache(redis.NewRedisCache(client, i.Logger, redis.WithPrefix(i.Config.Redis.KeyPrefix)))
	i.addCloser("redis", client.Close)
	return nil
}

// UseCache installs cache as the result cache.
func (i *Infrastructure) UseCache(cache redis.Cache) {
	i.Cache = cache
	i.addCheck("cache", cache.Ping)
}

// SearchService builds the search service, wrapped in the result cache when
// one is configured.
func (i *Infrastructure) SearchService() search.Service {
	base := search.NewService(search.Deps{
		Registry: i.Registry,
		Images:   i.Images,
		Logger:   i.Logger,
		Metrics:  i.Metrics,
		Config: search.Config{
			DefaultLimit:       i.Config.Search.DefaultLimit,
			MaxLimit:           i.Config.Search.MaxLimit,
			FuzzyFragmentLimit: i.Config.Search.FuzzyFragmentLimit,
		},
	})
	if cached := i.cached(base); cached != nil {
		return cached
	}
	return base
}

// CachedService returns the cache-fronted search service, or nil when the
// cache is disabled.
func (i *Infrastructure) CachedService() *search.CachedService {
	svc, _ := i.SearchService().(*search.CachedService)
	return svc
}

func (i *Infrastructure) cached(base search.Service) *search.CachedService {
	if i.Cache == nil {
		return nil
	}
	return search.NewCachedService(base, i.Cache, i.Config.Cache.TTL, i.Logger, i.Metrics)
}

// Checks returns the readiness checks of every opened backend.
func (i *Infrastructure) Checks() []Check {
	out := make([]Check, len(i.checks))
	copy(out, i.checks)
	return out
}

// Close releases every opened client in reverse order of opening.
func (i *Infrastructure) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		c := i.closers[n]
		if err := c.close(); err != nil {
			i.Logger.Warn("Failed to close client", logging.String("client", c.name), logging.Err(err))
		}
	}
	i.closers = nil
}

func (i *Infrastructure) addCheck(name string, fn func(ctx context.Context) error) {
	i.checks = append(i.checks, Check{Name: name, Fn: fn})
}

func (i *Infrastructure) addCloser(name string, fn func() error) {
	i.closers = append(i.closers, closer{name: name, close: fn})
}

//Personal.AI order the ending
