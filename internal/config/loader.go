package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// QUALITYCAST_ANALYTICS_SMOOTHING_ALPHA=0.5.
const EnvPrefix = "QUALITYCAST"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")                // Current directory
		v.AddConfigPath("./configs")        // Project configs directory
		v.AddConfigPath("./config")         // Alternative config directory
		v.AddConfigPath("/etc/qualitycast") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.http_port", defaults.Server.HTTPPort)
	v.SetDefault("server.read_timeout", defaults.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", defaults.Server.WriteTimeout.String())
	v.SetDefault("server.body_limit", defaults.Server.BodyLimit)

	// Auth defaults
	v.SetDefault("auth.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output_path", defaults.Logging.OutputPath)

	// Analytics defaults
	v.SetDefault("analytics.default_horizon", defaults.Analytics.DefaultHorizon)
	v.SetDefault("analytics.default_confidence", defaults.Analytics.DefaultConfidence)
	v.SetDefault("analytics.smoothing_alpha", defaults.Analytics.SmoothingAlpha)
	v.SetDefault("analytics.default_sensitivity", defaults.Analytics.DefaultSensitivity)
	v.SetDefault("analytics.default_max_period", defaults.Analytics.DefaultMaxPeriod)
	v.SetDefault("analytics.strength_normalization", defaults.Analytics.StrengthNormalization)
	v.SetDefault("analytics.pvalue_method", defaults.Analytics.PValueMethod)
	v.SetDefault("analytics.batch_concurrency", defaults.Analytics.BatchConcurrency)
	v.SetDefault("analytics.max_series_length", defaults.Analytics.MaxSeriesLength)
	v.SetDefault("analytics.max_batch_size", defaults.Analytics.MaxBatchSize)

	// Events defaults
	v.SetDefault("events.enabled", defaults.Events.Enabled)
	v.SetDefault("events.subject", defaults.Events.Subject)
	v.SetDefault("events.min_severity", defaults.Events.MinSeverity)
	v.SetDefault("events.timeout", defaults.Events.Timeout.String())

	// Queue defaults
	v.SetDefault("queue.type", defaults.Queue.Type)
	v.SetDefault("queue.url", defaults.Queue.URL)
	v.SetDefault("queue.nats_stream", defaults.Queue.NATSStream)
	v.SetDefault("queue.redis_stream", defaults.Queue.RedisStream)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     5580,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			BodyLimit:    8 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		Analytics: AnalyticsConfig{
			DefaultHorizon:        10,
			DefaultConfidence:     0.95,
			SmoothingAlpha:        0.3,
			DefaultSensitivity:    2.0,
			DefaultMaxPeriod:      30,
			StrengthNormalization: "mean",
			PValueMethod:          "approximate",
			BatchConcurrency:      8,
			MaxSeriesLength:       100000,
			MaxBatchSize:          500,
		},
		Events: EventsConfig{
			Enabled:     false,
			Subject:     "qualitycast.anomalies",
			MinSeverity: "high",
			Timeout:     5 * time.Second,
		},
		Queue: QueueConfig{
			Type:        "memory",
			URL:         "nats://localhost:4222",
			NATSStream:  "qualitycast",
			RedisStream: "qualitycast",
		},
	}
}
