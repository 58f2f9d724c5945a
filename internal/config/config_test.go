package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"HTTP_ADDR", "STORE_DRIVER", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD",
	"REDIS_DB", "CACHE_TTL", "NATS_URL", "JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL",
	"CORS_ALLOWED_ORIGINS", "STORY_CLEANUP_INTERVAL", "SEED_DEMO_DATA", "BCRYPT_COST",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.StoryCleanupInterval)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
http_addr: ":9090"
store_driver: memory
jwt_secret: from-yaml
token_ttl: 2h
redis:
  addr: localhost:6379
  ttl: 1m
story_cleanup_interval: 10m
cors_allowed_origins:
  - http://a.example
`)

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://b.example, http://c.example")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 10*time.Minute, cfg.StoryCleanupInterval)
	assert.Equal(t, []string{"http://b.example", "http://c.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 4, cfg.BcryptCost)

	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load("")
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.DatabaseURL = "postgres://localhost/social"
		cfg.JWTSecret = "secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: true},
		{name: "memory without dsn", mutate: func(c *Config) { c.StoreDriver = DriverMemory; c.DatabaseURL = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "sqlite" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "negative cleanup interval", mutate: func(c *Config) { c.StoryCleanupInterval = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
