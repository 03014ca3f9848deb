package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromString(t *testing.T, yaml string) *Config {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0o600))
	cfg, err := load(file)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Valid(t *testing.T) {
	cfg := loadFromString(t, `
mode: debug
port: 9090
secret: s3cret
read_limit: 1024
ping_period: 30s
send_buffer: 64
audit_buffer: 512
audit_endpoint: http://audit.internal/v1/entries
join_rate_limit: 5
join_rate_interval: 2s
token_ttl: 1h
`)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, int64(1024), cfg.ReadLimit)
	assert.Equal(t, 30*time.Second, cfg.PingPeriod)
	assert.Equal(t, 64, cfg.SendBuffer)
	assert.Equal(t, "http://audit.internal/v1/entries", cfg.AuditEndpoint)
	assert.Equal(t, 5, cfg.JoinRateLimit)
	assert.Equal(t, 2*time.Second, cfg.JoinRateInterval)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromString(t, `port: 8081`)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, int64(32768), cfg.ReadLimit)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 32, cfg.SendBuffer)
	assert.Equal(t, 256, cfg.AuditBuffer)
	assert.Equal(t, 20, cfg.JoinRateLimit)
	assert.Equal(t, 10*time.Second, cfg.JoinRateInterval)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}
