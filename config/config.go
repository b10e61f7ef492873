// Package config loads service configuration from JSON layers with
// environment variable overrides. A local .env file, when present, is
// loaded before the overrides are read.
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
)

// envPrefix namespaces every environment override.
const envPrefix = "CONCEPTMRI"

// Config is the root service configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	NATS     NATSConfig     `json:"nats"`
	DataLake DataLakeConfig `json:"data_lake"`
	Palette  PaletteConfig  `json:"palette"`
	Analysis AnalysisConfig `json:"analysis"`
	Metrics  MetricsConfig  `json:"metrics"`
	Log      LogConfig      `json:"log"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Addr            string        `json:"addr"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// NATSConfig configures the optional NATS surface.
type NATSConfig struct {
	Enabled       bool          `json:"enabled"`
	URL           string        `json:"url"`
	MaxReconnects int           `json:"max_reconnects"`
	ReconnectWait time.Duration `json:"reconnect_wait"`
}

// DataLakeConfig locates the session lake on disk and sizes its
// in-memory session cache.
type DataLakeConfig struct {
	Path      string `json:"path"`
	CacheSize int    `json:"cache_size"`
}

// PaletteConfig sets the dual-axis blend weights.
type PaletteConfig struct {
	PrimaryWeight   float64 `json:"primary_weight"`
	SecondaryWeight float64 `json:"secondary_weight"`
}

// AnalysisConfig sizes the analysis worker pool.
type AnalysisConfig struct {
	Workers   int `json:"workers"`
	QueueSize int `json:"queue_size"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Path    string `json:"path"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json or text
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:       false,
			URL:           "nats://localhost:4222",
			MaxReconnects: -1,
			ReconnectWait: 2 * time.Second,
		},
		DataLake: DataLakeConfig{
			Path:      "data/lake",
			CacheSize: 16,
		},
		Palette: PaletteConfig{
			PrimaryWeight:   0.5,
			SecondaryWeight: 0.5,
		},
		Analysis: AnalysisConfig{
			Workers:   4,
			QueueSize: 64,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate", "server.addr cannot be empty")
	}
	if c.DataLake.Path == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate", "data_lake.path cannot be empty")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate", "nats.url required when nats is enabled")
	}
	if c.Palette.PrimaryWeight <= 0 || c.Palette.SecondaryWeight <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate", "palette weights must be positive")
	}
	if c.Analysis.Workers < 0 || c.Analysis.QueueSize < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate", "analysis sizing cannot be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate", "unknown log level "+c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "config", "Validate", "unknown log format "+c.Log.Format)
	}
	return nil
}

// Loader loads configuration from defaults, JSON file layers, and
// environment overrides, in that precedence order.
type Loader struct {
	layers     []string
	validation bool
}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	return &Loader{validation: true}
}

// AddLayer adds a JSON configuration file. Later layers override earlier ones.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation toggles validation of the final configuration.
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file.
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load merges defaults, file layers, and environment overrides.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// .env is a developer convenience, absence is not an error
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// mergeFile overlays one JSON layer onto cfg. Duration fields accept Go
// duration strings ("30s", "2m").
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapInvalid(err, "config", "mergeFile", "read "+path)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.WrapInvalid(err, "config", "mergeFile", "parse "+path)
	}

	normalized, err := normalizeDurations(data)
	if err != nil {
		return errors.WrapInvalid(err, "config", "mergeFile", "parse durations in "+path)
	}
	if err := json.Unmarshal(normalized, cfg); err != nil {
		return errors.WrapInvalid(err, "config", "mergeFile", "apply "+path)
	}
	return nil
}

// durationKeys are the config fields that accept duration strings.
var durationKeys = map[string]bool{
	"read_timeout":     true,
	"write_timeout":    true,
	"shutdown_timeout": true,
	"reconnect_wait":   true,
}

// normalizeDurations rewrites duration strings to nanosecond numbers so
// the standard JSON decoder can populate time.Duration fields.
func normalizeDurations(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := convertDurations(doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func convertDurations(doc map[string]any) error {
	for key, value := range doc {
		switch v := value.(type) {
		case string:
			if durationKeys[key] {
				d, err := time.ParseDuration(v)
				if err != nil {
					return err
				}
				doc[key] = int64(d)
			}
		case map[string]any:
			if err := convertDurations(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(envPrefix + "_SERVER_ADDR"); val != "" {
		cfg.Server.Addr = val
	}
	if val := os.Getenv(envPrefix + "_DATA_LAKE_PATH"); val != "" {
		cfg.DataLake.Path = val
	}
	if val := os.Getenv(envPrefix + "_NATS_URL"); val != "" {
		cfg.NATS.URL = val
	}
	if val := os.Getenv(envPrefix + "_NATS_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			cfg.NATS.Enabled = enabled
		}
	}
	if val := os.Getenv(envPrefix + "_LOG_LEVEL"); val != "" {
		cfg.Log.Level = strings.ToLower(val)
	}
	if val := os.Getenv(envPrefix + "_LOG_FORMAT"); val != "" {
		cfg.Log.Format = strings.ToLower(val)
	}
	if val := os.Getenv(envPrefix + "_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
