package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "TMSEARCH"

// Sentinel errors returned by the loaders.
var (
	ErrConfigFileNotFound = errors.New("config: file not found")
	ErrConfigParseError   = errors.New("config: parse error")
	ErrConfigInvalid      = errors.New("config: validation failed")
)

// newViper builds a pre-configured Viper instance: YAML file type, TMSEARCH_
// env prefix, automatic env binding, and a key replacer mapping "." → "_" so
// that "search.max_limit" resolves to "TMSEARCH_SEARCH_MAX_LIMIT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerDefaults(v)
	return v
}

// Load reads the YAML file at configPath, merges TMSEARCH_* environment
// overrides, applies defaults for unset fields, and validates the result.
// An empty configPath is equivalent to LoadFromEnv.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConfigFileNotFound, configPath, err)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConfigParseError, configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from TMSEARCH_* environment variables
// and defaults, with no config file required.
//
//	TMSEARCH_<SECTION>_<FIELD>   e.g.  TMSEARCH_REGISTRY_DRIVER, TMSEARCH_SQLITE_PATH
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk. Only hot-reloadable settings (log level,
// search limits) should be applied by the callback.
//
// Watch is non-blocking. A change that fails to parse or validate is reported
// through onError (when non-nil) and onChange is not called.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrConfigParseError, configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load that panics on any error. Intended for main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
