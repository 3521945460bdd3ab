package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp" yaml:"nlp"`

	// Cache configuration for stored search records
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert" yaml:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker" yaml:"circuit_breaker"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled" yaml:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host" yaml:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port" yaml:"smtp_port"`
	Username string   `mapstructure:"username" yaml:"username"`
	Password string   `mapstructure:"password" yaml:"password"`
	From     string   `mapstructure:"from" yaml:"from"`
	To       []string `mapstructure:"to" yaml:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled" yaml:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests" yaml:"max_requests"`
	Interval         int     `mapstructure:"interval" yaml:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout" yaml:"timeout"`   // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio" yaml:"ready_to_trip_ratio"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	// ParquetPath is the directory for token usage and error log files.
	// Empty disables both.
	ParquetPath string `mapstructure:"parquet_path" yaml:"parquet_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // text, json, color
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URI      string `mapstructure:"uri" yaml:"uri"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`

	// RepairMetadata repairs almost-JSON metadata strings instead of
	// returning them verbatim.
	RepairMetadata bool `mapstructure:"repair_metadata" yaml:"repair_metadata"`
}

// NLPConfig holds configuration for the completion service
type NLPConfig struct {
	Model       string        `mapstructure:"model" yaml:"model"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Temperature float32       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	PromptStyle string        `mapstructure:"prompt_style" yaml:"prompt_style"` // terse, explain
	MaxRetries  int           `mapstructure:"max_retries" yaml:"max_retries"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// CacheConfig holds configuration for the search result cache
type CacheConfig struct {
	Backend         string        `mapstructure:"backend" yaml:"backend"` // memory, badger
	Path            string        `mapstructure:"path" yaml:"path"`
	MaxAge          time.Duration `mapstructure:"max_age" yaml:"max_age"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
}

const redacted = "******"

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "color")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// Database defaults
	viper.SetDefault("database.uri", "bolt://localhost:7687")
	viper.SetDefault("database.username", "neo4j")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "neo4j")
	viper.SetDefault("database.repair_metadata", false)

	// Completion defaults
	viper.SetDefault("nlp.model", "gpt-4o-mini")
	viper.SetDefault("nlp.temperature", 0.3)
	viper.SetDefault("nlp.max_tokens", 1000)
	viper.SetDefault("nlp.prompt_style", "terse")
	viper.SetDefault("nlp.max_retries", 0)
	viper.SetDefault("nlp.timeout", "60s")

	// Cache defaults
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.path", "./verity_cache")
	viper.SetDefault("cache.max_age", "1h")
	viper.SetDefault("cache.cleanup_interval", "5m")

	viper.SetDefault("circuit_breaker.enabled", false)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		config.Database.Database = db
	}

	// Completion service
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.NLP.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.NLP.BaseURL = baseURL
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Cache settings
	if backend := os.Getenv("CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}
	if path := os.Getenv("CACHE_PATH"); path != "" {
		config.Cache.Path = path
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}

// Validate checks the values a server or search run depends on.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Database.URI == "" {
		errs = append(errs, errors.New("database.uri is required"))
	}
	if c.NLP.Model == "" {
		errs = append(errs, errors.New("nlp.model is required"))
	}
	if c.NLP.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("nlp.max_tokens must be positive, got %d", c.NLP.MaxTokens))
	}
	if c.NLP.Temperature < 0 || c.NLP.Temperature > 2 {
		errs = append(errs, fmt.Errorf("nlp.temperature must be between 0 and 2, got %v", c.NLP.Temperature))
	}
	if c.NLP.MaxRetries < 0 {
		errs = append(errs, errors.New("nlp.max_retries cannot be negative"))
	}
	switch strings.ToLower(c.NLP.PromptStyle) {
	case "", "terse", "explain":
	default:
		errs = append(errs, fmt.Errorf("nlp.prompt_style must be terse or explain, got %q", c.NLP.PromptStyle))
	}
	switch c.Cache.Backend {
	case "memory":
	case "badger":
		if c.Cache.Path == "" {
			errs = append(errs, errors.New("cache.path is required for the badger backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be memory or badger, got %q", c.Cache.Backend))
	}
	if c.Cache.MaxAge <= 0 {
		errs = append(errs, errors.New("cache.max_age must be positive"))
	}

	return errors.Join(errs...)
}

// Redacted returns a copy with secrets masked, suitable for printing.
func (c *Config) Redacted() *Config {
	out := *c
	out.Alert.To = append([]string(nil), c.Alert.To...)
	if out.Database.Password != "" {
		out.Database.Password = redacted
	}
	if out.NLP.APIKey != "" {
		out.NLP.APIKey = redacted
	}
	if out.Alert.Password != "" {
		out.Alert.Password = redacted
	}
	return &out
}
