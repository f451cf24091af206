// Package config loads storefront settings from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// ValidBackends lists the accepted storage.backend values.
var ValidBackends = []string{BackendFile, BackendSQLite, BackendRedis}

// Config holds all storefront configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// HTTPConfig configures the web storefront.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GRPCConfig configures the health server. An empty Addr disables it.
type GRPCConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig selects where the cart snapshot lives.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, redis

	// Path is the profile directory for file and the database file for
	// sqlite. Ignored by redis.
	Path string `yaml:"path"`

	// Key is the local storage key holding the cart.
	Key string `yaml:"key"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	ServiceName string `yaml:"service_name"`
}

// CatalogConfig configures the product fetcher.
type CatalogConfig struct {
	BaseURL string        `yaml:"base_url"`
	Limit   int           `yaml:"limit"`
	Timeout time.Duration `yaml:"timeout"` // 0 = transport default
	FXRate  int64         `yaml:"fx_rate"` // VND per catalog currency unit
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // used by the terminal UI
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// DefaultDir is the per-user profile directory, ~/.storefront.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		GRPC: GRPCConfig{
			Addr: ":9090",
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    dir,
			Key:     "cart",
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			ServiceName: "storefront",
		},
		Catalog: CatalogConfig{
			BaseURL: "https://dummyjson.com",
			Limit:   12,
			FXRate:  24500,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, "storefront.log"),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    "localhost:4317",
			ServiceName: "storefront",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %q: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("STOREFRONT_HTTP_ADDR"); ok && v != "" {
		c.HTTP.Addr = v
	}
	// Set but empty disables the gRPC server.
	if v, ok := os.LookupEnv("STOREFRONT_GRPC_ADDR"); ok {
		c.GRPC.Addr = v
	}
	if v := os.Getenv("STOREFRONT_STORAGE"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("STOREFRONT_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("STOREFRONT_CATALOG_URL"); v != "" {
		c.Catalog.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("STOREFRONT_CATALOG_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Catalog.Limit = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
		c.Telemetry.Enabled = true
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	valid := false
	for _, b := range ValidBackends {
		if c.Storage.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("config: invalid storage backend %q (valid: %v)", c.Storage.Backend, ValidBackends)
	}
	if c.Storage.Backend != BackendRedis && c.Storage.Path == "" {
		return fmt.Errorf("config: storage.path is required for %s", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required for redis storage")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("config: storage.key must not be empty")
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("config: http.addr must not be empty")
	}

	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: invalid catalog.base_url %q", c.Catalog.BaseURL)
	}
	if c.Catalog.Limit <= 0 {
		return fmt.Errorf("config: catalog.limit must be positive, got %d", c.Catalog.Limit)
	}
	if c.Catalog.FXRate <= 0 {
		return fmt.Errorf("config: catalog.fx_rate must be positive, got %d", c.Catalog.FXRate)
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("config: catalog.timeout must not be negative")
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: invalid logging.level %q", c.Logging.Level)
	}
	return lvl, nil
}
