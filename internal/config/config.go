// Package config provides configuration management for the dashboard.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"gdpdash/internal/models"
)

// Configuration validation errors.
var (
	ErrNoCountries              = errors.New("dashboard.countries must list at least one id")
	ErrInvalidCountryID         = errors.New("country ids must be non-empty lowercase identifiers")
	ErrInvalidYearWindow        = errors.New("dashboard.years.from must not exceed dashboard.years.to")
	ErrInvalidTopN              = errors.New("dashboard.top_n must be at least 1")
	ErrMissingSourceBase        = errors.New("sources.base is required")
	ErrInvalidPathTemplate      = errors.New("sources.path_template must contain {id}")
	ErrInvalidMaxAttempts       = errors.New("crawler.retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("crawler.retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("crawler.retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("crawler.retry.timeout_sec must be at least 1")
	ErrInvalidBufferSize        = errors.New("crawler.buffer_size_kb must be at least 1")
	ErrInvalidConcurrency       = errors.New("loader.max_concurrency must be at least 1")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidCacheSize         = errors.New("server.cache_size must be at least 1")
	ErrUnsupportedFormat        = errors.New("unsupported config file extension")
)

// IDPlaceholder is replaced by the country id in sources.path_template.
const IDPlaceholder = "{id}"

// Config represents the complete dashboard configuration.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard" toml:"dashboard"`
	Sources   SourcesConfig   `yaml:"sources"   toml:"sources"`
	Crawler   CrawlerConfig   `yaml:"crawler"   toml:"crawler"`
	Loader    LoaderConfig    `yaml:"loader"    toml:"loader"`
	Logging   LoggingConfig   `yaml:"logging"   toml:"logging"`
	Server    ServerConfig    `yaml:"server"    toml:"server"`
	Watch     WatchConfig     `yaml:"watch"     toml:"watch"`
}

// DashboardConfig holds the fixed schema parameters of the dashboard.
type DashboardConfig struct {
	Names         map[string]string `yaml:"names"          toml:"names"`
	DefaultMetric string            `yaml:"default_metric" toml:"default_metric"`
	Countries     []string          `yaml:"countries"      toml:"countries"`
	Years         models.YearWindow `yaml:"years"          toml:"years"`
	TopN          int               `yaml:"top_n"          toml:"top_n"`
}

// SourcesConfig locates the per-country source documents.
type SourcesConfig struct {
	Base         string   `yaml:"base"          toml:"base"`
	PathTemplate string   `yaml:"path_template" toml:"path_template"`
	BackupBases  []string `yaml:"backup_bases"  toml:"backup_bases"`
}

// IsRemote returns true if the primary base is an HTTP(S) URL.
func (s *SourcesConfig) IsRemote() bool {
	return IsRemoteBase(s.Base)
}

// IsRemoteBase reports whether base is an HTTP(S) URL rather than a directory.
func IsRemoteBase(base string) bool {
	return strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://")
}

// GetAllBases returns the primary base followed by the backups.
func (s *SourcesConfig) GetAllBases() []string {
	bases := []string{s.Base}
	bases = append(bases, s.BackupBases...)

	return bases
}

// CrawlerConfig contains fetch settings.
type CrawlerConfig struct {
	Retry        RetryPolicy `yaml:"retry"          toml:"retry"`
	BufferSizeKb int         `yaml:"buffer_size_kb" toml:"buffer_size_kb"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"       toml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"   toml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"       toml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier" toml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"        toml:"timeout_sec"`
}

// LoaderConfig controls the load fan-out.
type LoaderConfig struct {
	MaxConcurrency int `yaml:"max_concurrency" toml:"max_concurrency"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"  toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ServerConfig defines the HTTP API.
type ServerConfig struct {
	Addr      string `yaml:"addr"       toml:"addr"`
	CacheSize int    `yaml:"cache_size" toml:"cache_size"`
}

// WatchConfig enables reloading when local source documents change.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"     toml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms" toml:"debounce_ms"`
}

// DefaultCountries is the built-in country list.
var DefaultCountries = []string{
	"china", "usa", "india", "germany", "japan",
	"uk", "france", "italy", "brazil", "canada",
}

// DefaultNames maps the built-in ids to display names.
var DefaultNames = map[string]string{
	"china":   "China",
	"usa":     "United States",
	"india":   "India",
	"germany": "Germany",
	"japan":   "Japan",
	"uk":      "United Kingdom",
	"france":  "France",
	"italy":   "Italy",
	"brazil":  "Brazil",
	"canada":  "Canada",
}

// Default returns a complete configuration reading documents from ./data.
func Default() *Config {
	names := make(map[string]string, len(DefaultNames))
	for k, v := range DefaultNames {
		names[k] = v
	}

	countries := make([]string, len(DefaultCountries))
	copy(countries, DefaultCountries)

	return &Config{
		Dashboard: DashboardConfig{
			Countries:     countries,
			Names:         names,
			Years:         models.YearWindow{From: 2022, To: 2025},
			TopN:          10,
			DefaultMetric: string(models.MetricTotalGDP),
		},
		Sources: SourcesConfig{
			Base:         "data",
			PathTemplate: "countries/{id}.html",
		},
		Crawler: CrawlerConfig{
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        10,
			},
			BufferSizeKb: 1024,
		},
		Loader:  LoaderConfig{MaxConcurrency: 8},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server:  ServerConfig{Addr: ":8080", CacheSize: 64},
		Watch:   WatchConfig{Enabled: false, DebounceMs: 500},
	}
}

// LoadConfig loads configuration from a YAML or TOML file, on top of Default().
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Dashboard.Countries) == 0 {
		return ErrNoCountries
	}

	for i, id := range c.Dashboard.Countries {
		if id == "" || id != strings.ToLower(id) || strings.ContainsAny(id, " /\\") {
			return fmt.Errorf("%w: countries[%d]=%q", ErrInvalidCountryID, i, id)
		}
	}

	if c.Dashboard.Years.From > c.Dashboard.Years.To {
		return ErrInvalidYearWindow
	}

	if c.Dashboard.TopN < 1 {
		return ErrInvalidTopN
	}

	if c.Sources.Base == "" {
		return ErrMissingSourceBase
	}

	if !strings.Contains(c.Sources.PathTemplate, IDPlaceholder) {
		return ErrInvalidPathTemplate
	}

	// Validate retry policy
	if c.Crawler.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Crawler.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Crawler.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Crawler.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Crawler.BufferSizeKb < 1 {
		return ErrInvalidBufferSize
	}

	if c.Loader.MaxConcurrency < 1 {
		return ErrInvalidConcurrency
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Server.CacheSize < 1 {
		return ErrInvalidCacheSize
	}

	return nil
}

// DisplayName returns the configured name for id, or the id itself.
func (c *Config) DisplayName(id string) string {
	if name, ok := c.Dashboard.Names[id]; ok && name != "" {
		return name
	}

	return id
}

// DefaultMetric returns the configured default ranking metric.
func (c *Config) DefaultMetric() models.Metric {
	return models.ParseMetric(c.Dashboard.DefaultMetric)
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-fetch timeout.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// GetDebounce returns the watcher debounce interval.
func (w *WatchConfig) GetDebounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Countries: %d, Years: %s, Source: %s, MaxAttempts: %d}",
		len(c.Dashboard.Countries),
		c.Dashboard.Years,
		c.Sources.Base,
		c.Crawler.Retry.MaxAttempts,
	)
}
