// Package config defines all configuration structures for the KeyMark-Search
// service. No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimit is the sustained requests per second allowed per client on
	// /api/v1. Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// Registry drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// RegistryConfig selects the trademark registry backend.
type RegistryConfig struct {
	Driver       string        `mapstructure:"driver"` // "postgres" | "sqlite"
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// SQLiteConfig holds the embedded registry parameters.
type SQLiteConfig struct {
	Path         string        `mapstructure:"path"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	BusyTimeout  time.Duration `mapstructure:"busy_timeout"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// CacheConfig controls the search result cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// KafkaConfig holds registry-update consumer parameters.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	GroupID      string        `mapstructure:"group_id"`
	Topic        string        `mapstructure:"topic"`
	DeadLetter   string        `mapstructure:"dead_letter_topic"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// MinIOConfig holds object-storage parameters for trademark images.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Image presence sources.
const (
	ImageSourceRegistry = "registry"
	ImageSourceMinIO    = "minio"
	ImageSourceNone     = "none"
)

// SearchConfig holds search pipeline tunables.
type SearchConfig struct {
	DefaultLimit       int    `mapstructure:"default_limit"`
	CLIDefaultLimit    int    `mapstructure:"cli_default_limit"`
	MaxLimit           int    `mapstructure:"max_limit"`
	FuzzyFragmentLimit int    `mapstructure:"fuzzy_fragment_limit"` // 0 = unlimited
	ImageSource        string `mapstructure:"image_source"`         // "registry" | "minio" | "none"
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure. Every infrastructure component
// and application service reads its settings from the relevant sub-struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Registry RegistryConfig `mapstructure:"registry"`
	Database DatabaseConfig `mapstructure:"database"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Search   SearchConfig   `mapstructure:"search"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("config: server.rate_limit must not be negative")
	}

	// Registry
	switch c.Registry.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("config: sqlite.path is required")
		}
	default:
		return fmt.Errorf("config: registry.driver %q is invalid; expected postgres|sqlite", c.Registry.Driver)
	}

	// Redis
	if c.Cache.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when cache is enabled")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("config: cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}
	if c.Kafka.Topic == "" {
		return fmt.Errorf("config: kafka.topic is required")
	}

	// Search
	if c.Search.DefaultLimit < 1 || c.Search.CLIDefaultLimit < 1 {
		return fmt.Errorf("config: search default limits must be ≥ 1")
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit || c.Search.MaxLimit < c.Search.CLIDefaultLimit {
		return fmt.Errorf("config: search.max_limit %d is below a default limit", c.Search.MaxLimit)
	}
	if c.Search.FuzzyFragmentLimit < 0 {
		return fmt.Errorf("config: search.fuzzy_fragment_limit must be ≥ 0, got %d", c.Search.FuzzyFragmentLimit)
	}
	switch c.Search.ImageSource {
	case ImageSourceRegistry, ImageSourceNone:
	case ImageSourceMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.endpoint and minio.bucket are required for image_source=minio")
		}
	default:
		return fmt.Errorf("config: search.image_source %q is invalid; expected registry|minio|none", c.Search.ImageSource)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

// DSN renders the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

//Personal.AI order the ending
