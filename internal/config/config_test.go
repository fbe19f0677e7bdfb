package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no config.yaml is found
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(ConfigFileEnv, "")
	return dir
}

func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, DefaultDatasetSource, cfg.Dataset.Source)
	assert.False(t, cfg.Dataset.SheetsEnabled())
	assert.Equal(t, DefaultSessionIdleTimeout, cfg.Session.IdleTimeout)
	assert.Equal(t, DefaultMaxSessions, cfg.Session.MaxSessions)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("RIDEPULSE_SERVER_PORT", "9191")
	t.Setenv("RIDEPULSE_DATASET_SOURCE", "sheets://abc/Bookings!A:M")
	t.Setenv("RIDEPULSE_DATASET_SHEETS_API_KEY", "key")
	t.Setenv("RIDEPULSE_SESSION_IDLE_TIMEOUT", "5m")
	t.Setenv("RIDEPULSE_SECURITY_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "sheets://abc/Bookings!A:M", cfg.Dataset.Source)
	assert.True(t, cfg.Dataset.SheetsEnabled())
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "unset fields keep defaults")
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := writeConfigFile(t, dir, `
server:
  port: 7000
  read_timeout: 5s
dataset:
  source: data/rides.xlsx
session:
  max_sessions: 3
`)
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("RIDEPULSE_SERVER_PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.Server.Port, "env wins over file")
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "data/rides.xlsx", cfg.Dataset.Source)
	assert.Equal(t, 3, cfg.Session.MaxSessions)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout, "absent keys keep defaults")
}

func TestLoad_BadFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv(ConfigFileEnv, writeConfigFile(t, dir, "server: [unterminated"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "read timeout"},
		{"no origins with cors", func(c *Config) { c.Security.AllowedOrigins = nil }, "allowed origin"},
		{"bad rate limit", func(c *Config) { c.Security.RateLimit.RPS = 0 }, "rate limit"},
		{"empty source", func(c *Config) { c.Dataset.Source = "  " }, "dataset source"},
		{"negative sessions", func(c *Config) { c.Session.MaxSessions = -1 }, "session limits"},
		{"pong before ping", func(c *Config) { c.WebSocket.PongWait = c.WebSocket.PingPeriod }, "pong wait"},
		{"bad trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, "trace exporter"},
		{"bad metric exporter", func(c *Config) { c.Telemetry.MetricExporter = "statsd" }, "metric exporter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "logfmt"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)

	cfg.Logging.Format = "text"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}
