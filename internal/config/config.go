// Package config handles configuration loading for zakatd.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Rates   RatesConfig   `mapstructure:"rates"   yaml:"rates"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Store   StoreConfig   `mapstructure:"store"   yaml:"store"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// RatesConfig holds rate acquisition settings.
type RatesConfig struct {
	Provider        string        `mapstructure:"provider"          yaml:"provider"` // "goldapi" or "goodreturns"
	APIKey          string        `mapstructure:"api_key"           yaml:"api_key"`
	Currency        string        `mapstructure:"currency"          yaml:"currency"`
	CacheTTLSec     int           `mapstructure:"cache_ttl_sec"     yaml:"cache_ttl_sec"`
	FetchTimeoutSec int           `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
	RequestsPerSec  int           `mapstructure:"requests_per_sec"  yaml:"requests_per_sec"`
	Fallback        RatesFallback `mapstructure:"fallback"          yaml:"fallback"`
}

// RatesFallback is the quote served when no live fetch has ever
// succeeded. Only the 24K gold and silver prices are required; the
// remaining purities are derived.
type RatesFallback struct {
	Gold24KPerGram float64 `mapstructure:"gold_24k_per_gram" yaml:"gold_24k_per_gram"`
	SilverPerGram  float64 `mapstructure:"silver_per_gram"   yaml:"silver_per_gram"`
}

// CacheTTL returns the cache TTL as a duration.
func (r RatesConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLSec) * time.Second
}

// FetchTimeout returns the per-refresh timeout as a duration.
func (r RatesConfig) FetchTimeout() time.Duration {
	return time.Duration(r.FetchTimeoutSec) * time.Second
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns the listen address in host:port form.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// StoreConfig holds the optional calculation-history store settings.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.zakatd/config.yaml (home directory)
//  3. /etc/zakatd/config.yaml (system)
//
// Environment variables override config file values.
// Format: ZAKATD_<SECTION>_<KEY>, e.g., ZAKATD_RATES_API_KEY
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".zakatd"))
	v.AddConfigPath("/etc/zakatd")

	v.SetEnvPrefix("ZAKATD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("ZAKATD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Rates defaults: 5 minute freshness window, 5 second refresh bound.
	v.SetDefault("rates.provider", "goldapi")
	v.SetDefault("rates.currency", "INR")
	v.SetDefault("rates.cache_ttl_sec", 300)
	v.SetDefault("rates.fetch_timeout_sec", 5)
	v.SetDefault("rates.requests_per_sec", 5)
	v.SetDefault("rates.fallback.gold_24k_per_gram", 6500)
	v.SetDefault("rates.fallback.silver_per_gram", 82)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Store defaults: history is opt-in, calculation works without it.
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "zakatd.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("ZAKATD_RATES_API_KEY"); key != "" {
		cfg.Rates.APIKey = key
	}
	// The original deployment exported the credential as GOLD_API_KEY.
	if key := os.Getenv("GOLD_API_KEY"); key != "" && cfg.Rates.APIKey == "" {
		cfg.Rates.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
