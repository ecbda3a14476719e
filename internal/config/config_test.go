package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gdpdash/internal/models"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, name)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
dashboard:
  countries: ["japan", "usa", "atlantis"]
  names:
    atlantis: "Atlantis"
  years:
    from: 2021
    to: 2024
  top_n: 5
  default_metric: "gdp_per_capita"
sources:
  base: "http://example.com/site"
  path_template: "countries/{id}.html"
  backup_bases: ["http://mirror.example.com/site"]
crawler:
  retry:
    max_attempts: 2
    initial_delay_ms: 100
    max_delay_ms: 5000
    backoff_multiplier: 2.0
    timeout_sec: 5
logging:
  level: "debug"
`

const validConfigTOML = `
[dashboard]
countries = ["china", "india"]
top_n = 3

[dashboard.years]
from = 2022
to = 2025

[sources]
base = "./data"
path_template = "countries/{id}.html"

[logging]
level = "warn"
format = "json"
`

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() config invalid: %v", err)
	}

	if len(cfg.Dashboard.Countries) != 10 {
		t.Errorf("Expected 10 default countries, got %d", len(cfg.Dashboard.Countries))
	}

	if cfg.Dashboard.Years != (models.YearWindow{From: 2022, To: 2025}) {
		t.Errorf("Unexpected default window %s", cfg.Dashboard.Years)
	}
}

func TestDefault_IsIndependentCopy(t *testing.T) {
	a := Default()
	a.Dashboard.Names["japan"] = "Nippon"
	a.Dashboard.Countries[0] = "mars"

	b := Default()
	if b.Dashboard.Names["japan"] != "Japan" {
		t.Error("Default() names table shared between calls")
	}

	if b.Dashboard.Countries[0] != "china" {
		t.Error("Default() country list shared between calls")
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	configPath := createTempConfigFile(t, "config.yaml", validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Dashboard.Countries) != 3 {
		t.Errorf("Expected 3 countries, got %d", len(cfg.Dashboard.Countries))
	}

	if cfg.DisplayName("atlantis") != "Atlantis" {
		t.Errorf("Expected configured name Atlantis, got %s", cfg.DisplayName("atlantis"))
	}

	if cfg.DisplayName("japan") != "Japan" {
		t.Errorf("Expected default name Japan to survive overlay, got %s", cfg.DisplayName("japan"))
	}

	if cfg.DefaultMetric() != models.MetricGDPPerCapita {
		t.Errorf("Expected per-capita default metric, got %s", cfg.DefaultMetric())
	}

	if !cfg.Sources.IsRemote() {
		t.Error("Expected remote source base")
	}

	// Untouched sections keep defaults.
	if cfg.Loader.MaxConcurrency != 8 {
		t.Errorf("Expected default max_concurrency 8, got %d", cfg.Loader.MaxConcurrency)
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	configPath := createTempConfigFile(t, "config.toml", validConfigTOML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Dashboard.TopN != 3 {
		t.Errorf("Expected top_n 3, got %d", cfg.Dashboard.TopN)
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("Expected json log format, got %s", cfg.Logging.Format)
	}

	if cfg.Sources.IsRemote() {
		t.Error("Expected local source base")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "config.yaml", "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	configPath := createTempConfigFile(t, "config.ini", "[x]")

	_, err := LoadConfig(configPath)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	configPath := createTempConfigFile(t, "config.yaml", "dashboard:\n  top_n: 0\n")

	_, err := LoadConfig(configPath)
	if !errors.Is(err, ErrInvalidTopN) {
		t.Fatalf("Expected ErrInvalidTopN, got %v", err)
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"No countries", func(c *Config) { c.Dashboard.Countries = nil }, ErrNoCountries},
		{"Uppercase id", func(c *Config) { c.Dashboard.Countries = []string{"Japan"} }, ErrInvalidCountryID},
		{"Empty id", func(c *Config) { c.Dashboard.Countries = []string{""} }, ErrInvalidCountryID},
		{"Path in id", func(c *Config) { c.Dashboard.Countries = []string{"../etc"} }, ErrInvalidCountryID},
		{"Inverted window", func(c *Config) { c.Dashboard.Years = models.YearWindow{From: 2025, To: 2022} }, ErrInvalidYearWindow},
		{"Zero top n", func(c *Config) { c.Dashboard.TopN = 0 }, ErrInvalidTopN},
		{"Missing base", func(c *Config) { c.Sources.Base = "" }, ErrMissingSourceBase},
		{"Template without id", func(c *Config) { c.Sources.PathTemplate = "countries/all.html" }, ErrInvalidPathTemplate},
		{"Zero attempts", func(c *Config) { c.Crawler.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"Negative delay", func(c *Config) { c.Crawler.Retry.InitialDelayMs = -1 }, ErrInvalidInitialDelay},
		{"Shrinking backoff", func(c *Config) { c.Crawler.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"Zero timeout", func(c *Config) { c.Crawler.Retry.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"Zero buffer", func(c *Config) { c.Crawler.BufferSizeKb = 0 }, ErrInvalidBufferSize},
		{"Zero concurrency", func(c *Config) { c.Loader.MaxConcurrency = 0 }, ErrInvalidConcurrency},
		{"Bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"Bad log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
		{"Zero cache", func(c *Config) { c.Server.CacheSize = 0 }, ErrInvalidCacheSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSourcesConfig_GetAllBases(t *testing.T) {
	src := SourcesConfig{
		Base:        "http://primary.com",
		BackupBases: []string{"http://backup1.com", "./local"},
	}

	bases := src.GetAllBases()
	if len(bases) != 3 {
		t.Fatalf("Expected 3 bases, got %d", len(bases))
	}

	if bases[0] != "http://primary.com" {
		t.Errorf("Expected primary base first, got %s", bases[0])
	}

	if IsRemoteBase(bases[2]) {
		t.Errorf("Expected %s to be local", bases[2])
	}
}

// --- RetryPolicy Tests ---

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := RetryPolicy{
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 0},                        // First attempt, no delay
		{2, 200 * time.Millisecond},   // 100 * 2
		{3, 400 * time.Millisecond},   // 100 * 2 * 2
		{4, 800 * time.Millisecond},   // 100 * 2 * 2 * 2
		{5, 1000 * time.Millisecond},  // Capped at max
		{10, 1000 * time.Millisecond}, // Still capped
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got := rp.GetRetryDelay(tt.attempt)
			if got != tt.expected {
				t.Errorf("GetRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestRetryPolicy_GetTimeout(t *testing.T) {
	rp := RetryPolicy{TimeoutSec: 30}
	expected := 30 * time.Second

	if got := rp.GetTimeout(); got != expected {
		t.Errorf("GetTimeout() = %v, want %v", got, expected)
	}
}

func TestConfig_DisplayName_Fallback(t *testing.T) {
	cfg := Default()

	if got := cfg.DisplayName("narnia"); got != "narnia" {
		t.Errorf("DisplayName() = %s, want id fallback narnia", got)
	}
}

func TestConfig_String(t *testing.T) {
	if Default().String() == "" {
		t.Error("Expected non-empty string representation")
	}
}

func TestConfig_SaveConfig(t *testing.T) {
	cfg := Default()
	cfg.Dashboard.Countries = []string{"japan"}
	cfg.Dashboard.TopN = 5

	savePath := filepath.Join(t.TempDir(), "saved_config.yaml")

	if err := cfg.SaveConfig(savePath); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if len(loaded.Dashboard.Countries) != 1 || loaded.Dashboard.Countries[0] != "japan" {
		t.Errorf("Loaded countries = %v, want [japan]", loaded.Dashboard.Countries)
	}

	if loaded.Dashboard.TopN != 5 {
		t.Errorf("Loaded top_n = %d, want 5", loaded.Dashboard.TopN)
	}
}

func TestLoadConfig_ShippedExample(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "dashboard.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.Watch.Enabled {
		t.Error("Expected watch enabled in shipped config")
	}

	if cfg.Watch.GetDebounce() != 500*time.Millisecond {
		t.Errorf("Expected 500ms debounce, got %v", cfg.Watch.GetDebounce())
	}
}
