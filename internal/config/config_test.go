package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://hack-or-snooze-v3.herokuapp.com", cfg.API.BaseURL)
	assert.Zero(t, cfg.API.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, BackendFile, cfg.Credentials.Backend)
	assert.Equal(t, ":3000", cfg.Server.Listen)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: http://localhost:3000
  timeout: 5s
log:
  level: debug
credentials:
  backend: memory
`)
	t.Setenv("SNOOZE_API_TIMEOUT", "2s")
	t.Setenv("SNOOZE_LOG_PRETTY", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout, "env wins over file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, BackendMemory, cfg.Credentials.Backend)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "api: [unterminated"))
	assert.Error(t, err)
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SNOOZE_API_TIMEOUT", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://example.com" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown backend", func(c *Config) { c.Credentials.Backend = "s3" }},
		{"redis without url", func(c *Config) { c.Credentials.Backend = BackendRedis }},
		{"file without dir", func(c *Config) { c.Credentials.Dir = "" }},
		{"zero shutdown", func(c *Config) { c.Server.ShutdownTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
