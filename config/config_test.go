package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":         "9000",
		"CART_STORE":   "redis",
		"REDIS_ADDR":   "redis-cart",
		"MAX_SESSIONS": "12",
		"CART_TTL":     "2h",
		"LOG_LEVEL":    "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.CartStore.Backend)
	assert.Equal(t, "redis-cart", cfg.CartStore.RedisAddr)
	assert.Equal(t, 12, cfg.Sessions.MaxSessions)
	assert.Equal(t, 2*time.Hour, cfg.CartStore.TTL)
	assert.Equal(t, "info", cfg.Logging.Level, "empty values do not override")
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{"MAX_SESSIONS": "lots"}))
	assert.ErrorContains(t, err, "MAX_SESSIONS")
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8181"
cart_store:
  backend: sqlite
  sqlite_path: /tmp/x.db
admin:
  username: boss
  session_max_age: 30m
`), 0o644))
	t.Setenv("PORT", "8282")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8282", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.CartStore.Backend)
	assert.Equal(t, "/tmp/x.db", cfg.CartStore.SQLitePath)
	assert.Equal(t, "boss", cfg.Admin.Username)
	assert.Equal(t, 30*time.Minute, cfg.Admin.SessionMaxAge)
	assert.Equal(t, "7070", cfg.GRPCPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown backend", func(c *Config) { c.CartStore.Backend = "mongo" }, "unknown cart store backend"},
		{"redis without addr", func(c *Config) { c.CartStore.Backend = BackendRedis }, "REDIS_ADDR"},
		{"zero sessions", func(c *Config) { c.Sessions.MaxSessions = 0 }, "max_sessions"},
		{"bad exporter", func(c *Config) { c.Telemetry.Exporter = "zipkin" }, "telemetry exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
