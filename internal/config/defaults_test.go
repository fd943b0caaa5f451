package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Registry.Driver)
	assert.Equal(t, DefaultSearchLimit, cfg.Search.DefaultLimit)
	assert.Equal(t, DefaultCLISearchLimit, cfg.Search.CLIDefaultLimit)
	assert.Equal(t, DefaultMaxSearchLimit, cfg.Search.MaxLimit)
	assert.Equal(t, 0, cfg.Search.FuzzyFragmentLimit)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Search.DefaultLimit = 50
	cfg.Cache.TTL = time.Minute
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Search.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault_MatchesViperTable(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultFuzzyFragmentLimit, cfg.Search.FuzzyFragmentLimit)
	assert.Equal(t, cfg.Search.FuzzyFragmentLimit, defaults["search.fuzzy_fragment_limit"])
	assert.Equal(t, cfg.Search.DefaultLimit, defaults["search.default_limit"])
	assert.Equal(t, cfg.Metrics.Enabled, defaults["metrics.enabled"])
}

//Personal.AI order the ending
