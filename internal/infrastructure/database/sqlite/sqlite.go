// Package sqlite provides the embedded registry backend: a pure-Go SQLite
// connection with the normal forms registered as SQL functions, exposed as a
// sqlregistry.Executor.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	msqlite "modernc.org/sqlite"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/domain/trademark/normalize"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/database/sqlregistry"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterFunctions installs the normalizer as deterministic SQL functions for
// every connection opened afterwards. It is safe to call more than once.
func RegisterFunctions() error {
	registerOnce.Do(func() {
		for name, fn := range map[string]func(string) string{
			sqlregistry.FuncBasic:         normalize.Basic,
			sqlregistry.FuncPronunciation: normalize.Pronunciation,
			sqlregistry.FuncTrademark:     normalize.Trademark,
		} {
			if err := msqlite.RegisterDeterministicScalarFunction(name, 1, scalar(fn)); err != nil {
				registerErr = fmt.Errorf("register %s: %w", name, err)
				return
			}
		}
	})
	return registerErr
}

func scalar(fn func(string) string) func(*msqlite.FunctionContext, []driver.Value) (driver.Value, error) {
	return func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case nil:
			return nil, nil
		case string:
			return fn(v), nil
		case []byte:
			return fn(string(v)), nil
		default:
			return fn(fmt.Sprint(v)), nil
		}
	}
}

// DB is a SQLite registry connection.
type DB struct {
	db  *sqlx.DB
	log logging.Logger
}

var _ sqlregistry.Executor = (*DB)(nil)

// DSN renders the modernc connection string for cfg. LIKE keeps SQLite's
// default ASCII case folding.
func DSN(cfg config.SQLiteConfig) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()))
	sep := "?"
	if strings.Contains(cfg.Path, "?") {
		sep = "&"
	}
	return cfg.Path + sep + q.Encode()
}

// Open registers the SQL functions, opens the database at cfg.Path and
// verifies connectivity.
func Open(ctx context.Context, cfg config.SQLiteConfig, log logging.Logger) (*DB, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if err := RegisterFunctions(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBConnection, "failed to register sqlite functions")
	}

	db, err := sqlx.Open("sqlite", DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBConnection, "failed to open sqlite database")
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDBConnection, "failed to ping sqlite database")
	}

	log.Info("sqlite registry opened", logging.String("path", cfg.Path))
	return &DB{db: db, log: log}, nil
}

// NewFromDB wraps an existing handle. Used with sqlmock in tests.
func NewFromDB(db *sqlx.DB, log logging.Logger) *DB {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &DB{db: db, log: log}
}

// QueryStrings implements sqlregistry.Executor.
func (d *DB) QueryStrings(ctx context.Context, query string, args []interface{}, width int) ([][]sql.NullString, error) {
	rows, err := d.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBQuery, "sqlite query failed")
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
			return nil, errors.Wrap(err, errors.ErrCodeDBScan, "sqlite scan failed")
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDBQuery, "sqlite rows failed")
	}
	return out, nil
}

// QueryCount implements sqlregistry.Executor.
func (d *DB) QueryCount(ctx context.Context, query string, args []interface{}) (int64, error) {
	var n int64
	if err := d.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDBQuery, "sqlite count failed")
	}
	return n, nil
}

// Exec runs a statement. Used to load schema and seed data.
func (d *DB) Exec(ctx context.Context, query string, args ...interface{}) error {
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, errors.ErrCodeDBQuery, "sqlite exec failed")
	}
	return nil
}

// ApplySchema creates the registry tables if they do not exist.
func (d *DB) ApplySchema(ctx context.Context) error {
	return d.Exec(ctx, Schema)
}

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDBConnection, "sqlite ping failed")
	}
	return nil
}

// Close closes the database.
func (d *DB) Close() error {
	d.log.Info("closing sqlite registry")
	return d.db.Close()
}

//Personal.AI order the ending
