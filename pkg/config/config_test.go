package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, k := range []string{"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "NEO4J_DATABASE", "OPENAI_API_KEY", "OPENAI_BASE_URL", "SERVER_HOST", "SERVER_PORT", "CACHE_BACKEND", "CACHE_PATH", "TELEMETRY_PARQUET_PATH"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.NLP.Model)
	assert.InDelta(t, 0.3, cfg.NLP.Temperature, 1e-6)
	assert.Equal(t, 1000, cfg.NLP.MaxTokens)
	assert.Equal(t, "terse", cfg.NLP.PromptStyle)
	assert.Equal(t, 0, cfg.NLP.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.NLP.Timeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.MaxAge)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "neo4j", cfg.Database.Database)
	assert.False(t, cfg.Database.RepairMetadata)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("NEO4J_URI", "neo4j://graph:7687")
	t.Setenv("NEO4J_USER", "reader")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("NEO4J_DATABASE", "scraps")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434")
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_BACKEND", "badger")
	t.Setenv("CACHE_PATH", "/tmp/verity")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "neo4j://graph:7687", cfg.Database.URI)
	assert.Equal(t, "reader", cfg.Database.Username)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "scraps", cfg.Database.Database)
	assert.Equal(t, "sk-test", cfg.NLP.APIKey)
	assert.Equal(t, "http://localhost:11434", cfg.NLP.BaseURL)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "badger", cfg.Cache.Backend)
	assert.Equal(t, "/tmp/verity", cfg.Cache.Path)
}

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{URI: "bolt://localhost:7687"},
		NLP:      NLPConfig{Model: "gpt-4o-mini", MaxTokens: 1000, Temperature: 0.3, PromptStyle: "terse"},
		Cache:    CacheConfig{Backend: "memory", MaxAge: time.Hour},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "missing uri", mutate: func(c *Config) { c.Database.URI = "" }, wantErr: "database.uri"},
		{name: "bad style", mutate: func(c *Config) { c.NLP.PromptStyle = "verbose" }, wantErr: "prompt_style"},
		{name: "badger without path", mutate: func(c *Config) { c.Cache.Backend = "badger" }, wantErr: "cache.path"},
		{name: "unknown backend", mutate: func(c *Config) { c.Cache.Backend = "redis" }, wantErr: "cache.backend"},
		{name: "zero max age", mutate: func(c *Config) { c.Cache.MaxAge = 0 }, wantErr: "max_age"},
		{name: "negative retries", mutate: func(c *Config) { c.NLP.MaxRetries = -1 }, wantErr: "max_retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Password = "pw"
	cfg.NLP.APIKey = "sk-live"

	out := cfg.Redacted()
	assert.Equal(t, redacted, out.Database.Password)
	assert.Equal(t, redacted, out.NLP.APIKey)
	assert.Empty(t, out.Alert.Password)
	assert.Equal(t, "pw", cfg.Database.Password)
}
