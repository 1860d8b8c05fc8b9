// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.lumen/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Storage: PostgreSQL connection (see storage.go)
//   - Feed: remote article and photo feed endpoint
//   - Knowledge: chunking, retrieval, and embedding model settings
//   - Logging: level and output format
//
// Validation lives in validation.go and uses sentinel errors so callers can
// check failure categories with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidFeedBaseURL indicates the feed base URL is invalid.
	ErrInvalidFeedBaseURL = errors.New("invalid feed base URL")

	// ErrInvalidFeedPageSize indicates the feed page size is out of range.
	ErrInvalidFeedPageSize = errors.New("invalid feed page size")

	// ErrInvalidChunkSize indicates the chunk size is out of range.
	ErrInvalidChunkSize = errors.New("invalid chunk size")

	// ErrInvalidChunkDelimiter indicates the chunk delimiter is empty.
	ErrInvalidChunkDelimiter = errors.New("invalid chunk delimiter")

	// ErrInvalidTopK indicates the retrieval top-k is out of range.
	ErrInvalidTopK = errors.New("invalid top k")

	// ErrInvalidModelPath indicates the embedding model path is empty.
	ErrInvalidModelPath = errors.New("invalid embedding model path")
)

// Config stores application configuration.
type Config struct {
	// Storage configuration (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// Feed configuration
	FeedBaseURL           string  `mapstructure:"feed_base_url"`
	FeedPageSize          int     `mapstructure:"feed_page_size"`
	FeedRequestsPerSecond float64 `mapstructure:"feed_requests_per_second"`

	// Knowledge configuration
	EmbedderModelPath string `mapstructure:"embedder_model_path"`
	ChunkDelimiter    string `mapstructure:"chunk_delimiter"`
	ChunkSize         int    `mapstructure:"chunk_size"`
	TopK              int    `mapstructure:"top_k"`
	KnowledgeEnabled  bool   `mapstructure:"knowledge_enabled"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".lumen")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults(configDir)
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, when set, overrides the individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(configDir string) {
	// PostgreSQL defaults (local development database)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "lumen")
	viper.SetDefault("postgres_password", "lumen_dev_password")
	viper.SetDefault("postgres_db_name", "lumen")
	viper.SetDefault("postgres_ssl_mode", "disable")

	// Feed defaults
	viper.SetDefault("feed_base_url", "https://api.lumen.photos")
	viper.SetDefault("feed_page_size", 100)
	viper.SetDefault("feed_requests_per_second", 10.0)

	// Knowledge defaults
	viper.SetDefault("embedder_model_path", filepath.Join(configDir, "models", "wordvec.txt"))
	viper.SetDefault("chunk_delimiter", "\n")
	viper.SetDefault("chunk_size", 500)
	viper.SetDefault("top_k", 3)
	viper.SetDefault("knowledge_enabled", true)

	// Logging defaults
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_json", false)
}

// bindEnvVariables binds explicit environment variable overrides.
// DATABASE_URL is handled separately in parseDatabaseURL.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("feed_base_url", "LUMEN_FEED_BASE_URL")
	mustBind("embedder_model_path", "LUMEN_MODEL_PATH")
	mustBind("knowledge_enabled", "LUMEN_KNOWLEDGE_ENABLED")
	mustBind("log_level", "LUMEN_LOG_LEVEL")
	mustBind("log_json", "LUMEN_LOG_JSON")
}

// SlogLevel maps the configured log level name to a slog.Level.
// Unknown names fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
