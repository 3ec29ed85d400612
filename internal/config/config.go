package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Events    EventsConfig    `mapstructure:"events"`
	Queue     QueueConfig     `mapstructure:"queue"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"`     // HTTP server port
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // Max time to read a request
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Max time to write a response
	BodyLimit    int           `mapstructure:"body_limit"`    // Max request body size in bytes
}

// AnalyticsConfig holds engine defaults applied when a request omits them
type AnalyticsConfig struct {
	DefaultHorizon        int     `mapstructure:"default_horizon"`        // Forecast steps (default: 10)
	DefaultConfidence     float64 `mapstructure:"default_confidence"`     // 0.90, 0.95 or 0.99
	SmoothingAlpha        float64 `mapstructure:"smoothing_alpha"`        // Exponential smoothing factor (0,1]
	DefaultSensitivity    float64 `mapstructure:"default_sensitivity"`    // Anomaly score threshold
	DefaultMaxPeriod      int     `mapstructure:"default_max_period"`     // Longest seasonal lag examined
	StrengthNormalization string  `mapstructure:"strength_normalization"` // mean or stddev
	PValueMethod          string  `mapstructure:"pvalue_method"`          // approximate or exact
	BatchConcurrency      int     `mapstructure:"batch_concurrency"`      // Parallel series in a batch
	MaxSeriesLength       int     `mapstructure:"max_series_length"`      // Reject longer series
	MaxBatchSize          int     `mapstructure:"max_batch_size"`         // Reject larger batches
}

// EventsConfig controls publishing of detected anomalies
type EventsConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Subject     string        `mapstructure:"subject"`      // Subject/topic/stream suffix
	MinSeverity string        `mapstructure:"min_severity"` // low, medium, high, critical
	Timeout     time.Duration `mapstructure:"timeout"`      // Max time spent publishing per request
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: memory (default), nats, redis, kafka
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// NATS-specific options
	NATSStream string `mapstructure:"nats_stream"` // JetStream stream name prefix (default: "qualitycast")

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "qualitycast")
	RedisMaxLen int64  `mapstructure:"redis_maxlen"` // Approximate stream cap, 0 for unbounded

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if c.Events.Enabled {
		if err := c.Queue.Validate(); err != nil {
			return fmt.Errorf("queue config: %w", err)
		}
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}

	return nil
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	return nil
}

// Validate validates analytics configuration
func (c *AnalyticsConfig) Validate() error {
	if c.DefaultHorizon < 1 {
		return fmt.Errorf("analytics.default_horizon must be at least 1")
	}

	validConfidence := map[float64]bool{0.90: true, 0.95: true, 0.99: true}
	if !validConfidence[c.DefaultConfidence] {
		return fmt.Errorf("analytics.default_confidence must be one of: 0.90, 0.95, 0.99")
	}

	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		return fmt.Errorf("analytics.smoothing_alpha must be in (0, 1]")
	}

	if c.DefaultSensitivity <= 0 {
		return fmt.Errorf("analytics.default_sensitivity must be positive")
	}

	if c.DefaultMaxPeriod < 2 {
		return fmt.Errorf("analytics.default_max_period must be at least 2")
	}

	if c.StrengthNormalization != "mean" && c.StrengthNormalization != "stddev" {
		return fmt.Errorf("analytics.strength_normalization must be 'mean' or 'stddev'")
	}

	if c.PValueMethod != "approximate" && c.PValueMethod != "exact" {
		return fmt.Errorf("analytics.pvalue_method must be 'approximate' or 'exact'")
	}

	if c.BatchConcurrency < 1 {
		return fmt.Errorf("analytics.batch_concurrency must be at least 1")
	}

	if c.MaxSeriesLength < 3 {
		return fmt.Errorf("analytics.max_series_length must be at least 3")
	}

	if c.MaxBatchSize < 1 {
		return fmt.Errorf("analytics.max_batch_size must be at least 1")
	}

	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Subject == "" {
		return fmt.Errorf("events.subject is required when events are enabled")
	}

	validSeverities := map[string]bool{
		"low":      true,
		"medium":   true,
		"high":     true,
		"critical": true,
	}

	if !validSeverities[c.MinSeverity] {
		return fmt.Errorf("events.min_severity must be one of: low, medium, high, critical")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("events.timeout must be positive")
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	switch c.Type {
	case "", "memory":
	case "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("queue.url is required for %s", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("queue.kafka_brokers is required for kafka")
		}
	default:
		return fmt.Errorf("queue.type must be one of: memory, nats, redis, kafka")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
