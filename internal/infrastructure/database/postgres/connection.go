// Package postgres provides the PostgreSQL registry backend: a pgx connection
// pool exposed as a sqlregistry.Executor.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/database/sqlregistry"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// poolUsageWarning is the acquired/total ratio above which HealthCheck warns.
const poolUsageWarning = 0.8

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	pool   *pgxpool.Pool
	logger logging.Logger
	once   sync.Once
}

var _ sqlregistry.Executor = (*Connection)(nil)

// NewConnection builds a pool from cfg and verifies connectivity. A positive
// statementTimeout is applied server-side to every session.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, statementTimeout time.Duration, log logging.Logger) (*Connection, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	poolCfg, err := pgxpool.ParseConfig(buildConnString(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBConnection, "invalid database configuration")
	}
	configurePool(poolCfg, cfg)
	if statementTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", statementTimeout.Milliseconds())
	}
	// The registry is read-only.
	poolCfg.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBConnection, "failed to create connection pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDBConnection, "database connection failed")
	}

	log.Info("Connected to PostgreSQL registry",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)
	return &Connection{pool: pool, logger: log}, nil
}

// NewConnectionWithPool wraps an existing pool (for testing).
func NewConnectionWithPool(pool *pgxpool.Pool, log logging.Logger) *Connection {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Connection{pool: pool, logger: log}
}

// Pool returns the underlying pool.
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// QueryStrings implements sqlregistry.Executor.
func (c *Connection) QueryStrings(ctx context.Context, query string, args []interface{}, width int) ([][]sql.NullString, error) {
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBQuery, "postgres query failed")
	}
	defer rows.Close()

	var out [][]sql.NullString
	for rows.Next() {
		row := make([]sql.NullString, width)
		dest := make([]interface{}, width)
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDBScan, "postgres scan failed")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBQuery, "postgres rows failed")
	}
	return out, nil
}

// QueryCount implements sqlregistry.Executor.
func (c *Connection) QueryCount(ctx context.Context, query string, args []interface{}) (int64, error) {
	var n int64
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDBQuery, "postgres count failed")
	}
	return n, nil
}

// HealthCheck verifies the database connection status.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDBConnection, "database health check failed")
	}

	stats := c.pool.Stat()
	if stats.TotalConns() > 0 {
		usage := float64(stats.AcquiredConns()) / float64(stats.TotalConns())
		if usage > poolUsageWarning {
			c.logger.Warn("High database connection pool usage",
				logging.Int("acquired", int(stats.AcquiredConns())),
				logging.Int("total", int(stats.TotalConns())),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Close closes the pool.
func (c *Connection) Close() error {
	c.once.Do(func() {
		c.pool.Close()
		c.logger.Info("Closed PostgreSQL registry connection")
	})
	return nil
}

// buildConnString constructs the PostgreSQL connection URL.
func buildConnString(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}
	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// configurePool copies the non-zero pool settings from cfg.
func configurePool(poolCfg *pgxpool.Config, cfg config.DatabaseConfig) {
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}
}

//Personal.AI order the ending
