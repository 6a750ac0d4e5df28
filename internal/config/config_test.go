package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.False(t, cfg.App.GRPCEnabled)
	assert.False(t, cfg.DB.Configured())
	assert.Equal(t, 5, cfg.DB.QueryTimeoutSeconds)
	assert.True(t, cfg.Signup.PrecheckEnabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "early-access-api", cfg.Logger.ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "  postgres://app:secret@db:5432/app?sslmode=require  ")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "postgres://app:secret@db:5432/app?sslmode=require", cfg.DB.URL)
	assert.True(t, cfg.DB.Configured())
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.InDelta(t, 2.5, cfg.RateLimit.RequestsPerSecond, 0.0001)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestLoadConfig_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "ADMIN_TOKEN=file-token\nSERVICE_VERSION=2.3.4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.App.AdminToken)
	assert.Equal(t, "2.3.4", cfg.Logger.ServiceVersion)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App: AppConfig{HTTPPort: "8080", ShutdownTimeoutSeconds: 10, HealthTimeoutSeconds: 3},
			DB:  DatabaseConfig{QueryTimeoutSeconds: 5, ConnectTimeoutSeconds: 5},
		}
	}

	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{name: "valid without database", mutate: func(c *Config) {}},
		{name: "missing http port", mutate: func(c *Config) { c.App.HTTPPort = "" }, errorMsg: "HTTP_PORT is required"},
		{name: "grpc without port", mutate: func(c *Config) { c.App.GRPCEnabled = true }, errorMsg: "GRPC_PORT is required"},
		{name: "zero query timeout", mutate: func(c *Config) { c.DB.QueryTimeoutSeconds = 0 }, errorMsg: "DB_QUERY_TIMEOUT_SECONDS"},
		{name: "rate limit without rps", mutate: func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.BurstCapacity = 5
		}, errorMsg: "RATE_LIMIT_RPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: "6380"}
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}
