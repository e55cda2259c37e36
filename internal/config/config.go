// Package config provides configuration parsing and validation for the
// stock-alerts binaries.
package config

import (
	"fmt"
	"os"
)

// ServerConfig holds all configuration parameters for the API server.
type ServerConfig struct {
	HTTPPort          string
	PostgresDSN       string
	KafkaBrokers      string
	AlertChangedTopic string
	RedisAddr         string // optional; empty disables metrics reporting
}

// Validate checks that all required configuration fields are set.
func (c *ServerConfig) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("http-port cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.AlertChangedTopic == "" {
		return fmt.Errorf("alert-changed-topic cannot be empty")
	}
	return nil
}

// WatcherConfig holds all configuration parameters for the alert watcher.
type WatcherConfig struct {
	APIBaseURL        string
	KafkaBrokers      string
	AlertChangedTopic string
	ConsumerGroup     string
	RedisAddr         string // optional; empty disables metrics reporting
	StoreID           string // optional filter
	Severity          string // optional filter
	PageLimit         int
}

// Validate checks that all required configuration fields are set.
func (c *WatcherConfig) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api-base-url cannot be empty")
	}
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.AlertChangedTopic == "" {
		return fmt.Errorf("alert-changed-topic cannot be empty")
	}
	if c.ConsumerGroup == "" {
		return fmt.Errorf("consumer-group cannot be empty")
	}
	if c.PageLimit <= 0 {
		return fmt.Errorf("page-limit must be positive")
	}
	return nil
}

// GetEnvOrDefault returns the environment variable value or a default if
// not set.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MaskDSN masks sensitive information in a DSN for logging.
func MaskDSN(dsn string) string {
	if len(dsn) > 50 {
		return dsn[:20] + "***" + dsn[len(dsn)-20:]
	}
	return "***"
}
