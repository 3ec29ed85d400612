package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "auth enabled without keys",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: true,
		},
		{
			name: "auth enabled with keys",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.APIKeys = []string{"secret"}
			},
			wantErr: false,
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "invalid" },
			wantErr: true,
		},
		{
			name:    "unsupported confidence",
			mutate:  func(c *Config) { c.Analytics.DefaultConfidence = 0.8 },
			wantErr: true,
		},
		{
			name:    "alpha out of range",
			mutate:  func(c *Config) { c.Analytics.SmoothingAlpha = 1.5 },
			wantErr: true,
		},
		{
			name:    "zero sensitivity",
			mutate:  func(c *Config) { c.Analytics.DefaultSensitivity = 0 },
			wantErr: true,
		},
		{
			name:    "unknown normalization",
			mutate:  func(c *Config) { c.Analytics.StrengthNormalization = "range" },
			wantErr: true,
		},
		{
			name:    "unknown p-value method",
			mutate:  func(c *Config) { c.Analytics.PValueMethod = "bootstrap" },
			wantErr: true,
		},
		{
			name:    "zero batch concurrency",
			mutate:  func(c *Config) { c.Analytics.BatchConcurrency = 0 },
			wantErr: true,
		},
		{
			name: "events with unknown severity",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.MinSeverity = "severe"
			},
			wantErr: true,
		},
		{
			name: "events with kafka and no brokers",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Queue.Type = "kafka"
			},
			wantErr: true,
		},
		{
			name: "unknown queue type ignored while events are disabled",
			mutate: func(c *Config) {
				c.Queue.Type = "rabbitmq"
			},
			wantErr: false,
		},
		{
			name: "events with nats",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Queue.Type = "nats"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
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

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5580, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Analytics.DefaultHorizon)
	assert.Equal(t, 0.95, cfg.Analytics.DefaultConfidence)
	assert.Equal(t, 0.3, cfg.Analytics.SmoothingAlpha)
	assert.Equal(t, 2.0, cfg.Analytics.DefaultSensitivity)
	assert.Equal(t, 30, cfg.Analytics.DefaultMaxPeriod)
	assert.Equal(t, "mean", cfg.Analytics.StrengthNormalization)
	assert.Equal(t, "approximate", cfg.Analytics.PValueMethod)
	assert.Equal(t, 8, cfg.Analytics.BatchConcurrency)
	assert.False(t, cfg.Events.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http_port: 9090
analytics:
  smoothing_alpha: 0.5
  pvalue_method: exact
events:
  enabled: true
  min_severity: critical
queue:
  type: redis
  url: redis://localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 0.5, cfg.Analytics.SmoothingAlpha)
	assert.Equal(t, "exact", cfg.Analytics.PValueMethod)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, "critical", cfg.Events.MinSeverity)
	assert.Equal(t, "redis", cfg.Queue.Type)

	// untouched sections keep their defaults
	assert.Equal(t, 10, cfg.Analytics.DefaultHorizon)
	assert.Equal(t, "qualitycast.anomalies", cfg.Events.Subject)
	assert.Equal(t, 5*time.Second, cfg.Events.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	t.Setenv("QUALITYCAST_ANALYTICS_DEFAULT_SENSITIVITY", "3.5")
	t.Setenv("QUALITYCAST_SERVER_HTTP_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 3.5, cfg.Analytics.DefaultSensitivity)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analytics:\n  smoothing_alpha: 2\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	// LoadOrDefault falls back instead of failing
	cfg := LoadOrDefault(path)
	assert.Equal(t, 0.3, cfg.Analytics.SmoothingAlpha)
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.IsProduction(), "default config should be production mode")

	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"
	assert.True(t, cfg.IsDevelopment(), "config with debug/console should be development mode")

	cfg.Server.Host = "127.0.0.1"
	cfg.Server.HTTPPort = 8080
	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
}
