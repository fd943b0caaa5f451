package config

import (
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = 8080

	DefaultRegistryDriver = DriverPostgres

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBUser     = "tmsearch"
	DefaultDBName     = "trademarks"
	DefaultDBMaxConns = 25

	DefaultSQLitePath = "trademarks.db"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "tmsearch:"

	DefaultCacheTTL = 5 * time.Minute

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "tmsearch-invalidator"
	DefaultKafkaTopic   = "registry.updates"

	DefaultKafkaDeadLetterTopic = "dead_letter.registry"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "trademark-images"

	DefaultSearchLimit        = 200
	DefaultCLISearchLimit     = 10
	DefaultMaxSearchLimit     = 1000
	DefaultFuzzyFragmentLimit = 64
	DefaultImageSource        = ImageSourceRegistry

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "tmsearch"
	DefaultMetricsPath      = "/metrics"
)

// defaults is the flat key → value table registered with viper so that every
// key is known to Unmarshal and can be overridden from the environment.
var defaults = map[string]interface{}{
	"server.host":             DefaultServerHost,
	"server.port":             DefaultServerPort,
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.max_body_size":    int64(1 << 20),
	"server.shutdown_timeout": 10 * time.Second,
	"server.rate_limit":       0.0,
	"server.rate_burst":       20,

	"registry.driver":        DefaultRegistryDriver,
	"registry.query_timeout": 30 * time.Second,

	"database.host":               DefaultDBHost,
	"database.port":               DefaultDBPort,
	"database.user":               DefaultDBUser,
	"database.password":           "",
	"database.db_name":            DefaultDBName,
	"database.ssl_mode":           "disable",
	"database.max_conns":          DefaultDBMaxConns,
	"database.min_conns":          2,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,

	"sqlite.path":           DefaultSQLitePath,
	"sqlite.max_open_conns": 4,
	"sqlite.busy_timeout":   5 * time.Second,

	"redis.addr":           DefaultRedisAddr,
	"redis.password":       "",
	"redis.db":             0,
	"redis.pool_size":      10,
	"redis.min_idle_conns": 2,
	"redis.dial_timeout":   5 * time.Second,
	"redis.read_timeout":   3 * time.Second,
	"redis.write_timeout":  3 * time.Second,
	"redis.key_prefix":     DefaultRedisKeyPrefix,

	"cache.enabled": false,
	"cache.ttl":     DefaultCacheTTL,

	"kafka.brokers":           []string{DefaultKafkaBroker},
	"kafka.group_id":          DefaultKafkaGroupID,
	"kafka.topic":             DefaultKafkaTopic,
	"kafka.dead_letter_topic": DefaultKafkaDeadLetterTopic,
	"kafka.max_retries":       3,
	"kafka.retry_backoff":     time.Second,

	"minio.endpoint":   DefaultMinIOEndpoint,
	"minio.access_key": "",
	"minio.secret_key": "",
	"minio.bucket":     DefaultMinIOBucket,
	"minio.prefix":     "",
	"minio.use_ssl":    false,

	"search.default_limit":        DefaultSearchLimit,
	"search.cli_default_limit":    DefaultCLISearchLimit,
	"search.max_limit":            DefaultMaxSearchLimit,
	"search.fuzzy_fragment_limit": DefaultFuzzyFragmentLimit,
	"search.image_source":         DefaultImageSource,

	"log.level":        DefaultLogLevel,
	"log.format":       DefaultLogFormat,
	"log.output_paths": []string{"stdout"},

	"metrics.enabled":   true,
	"metrics.namespace": DefaultMetricsNamespace,
	"metrics.path":      DefaultMetricsPath,
}

func registerDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller (non-zero values) are left unchanged so that
// explicit configuration always wins. Booleans are not touched.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = 1 << 20
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 20
	}

	// ── Registry ──────────────────────────────────────────────────────────────
	if cfg.Registry.Driver == "" {
		cfg.Registry.Driver = DefaultRegistryDriver
	}
	if cfg.Registry.QueryTimeout == 0 {
		cfg.Registry.QueryTimeout = 30 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	// ── SQLite ────────────────────────────────────────────────────────────────
	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DefaultSQLitePath
	}
	if cfg.SQLite.MaxOpenConns == 0 {
		cfg.SQLite.MaxOpenConns = 4
	}

	// ── Redis / Cache ─────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.MaxRetries == 0 {
		cfg.Kafka.MaxRetries = 3
	}
	if cfg.Kafka.RetryBackoff == 0 {
		cfg.Kafka.RetryBackoff = time.Second
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Search ────────────────────────────────────────────────────────────────
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = DefaultSearchLimit
	}
	if cfg.Search.CLIDefaultLimit == 0 {
		cfg.Search.CLIDefaultLimit = DefaultCLISearchLimit
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = DefaultMaxSearchLimit
	}
	// FuzzyFragmentLimit 0 means unlimited and is left alone.
	if cfg.Search.ImageSource == "" {
		cfg.Search.ImageSource = DefaultImageSource
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// Default returns a Config populated entirely from defaults.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Search.FuzzyFragmentLimit = DefaultFuzzyFragmentLimit
	cfg.Metrics.Enabled = true
	return cfg
}

//Personal.AI order the ending
