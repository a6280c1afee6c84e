package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatabasePath    string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// FlushSize is the number of stored records accumulated before a flush
	// group is committed.
	FlushSize int

	// Kafka export sink configuration.
	KafkaBrokers     []string
	KafkaSinkTopic   string
	KafkaSinkEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	flushSize, err := parseFlushSize()
	if err != nil {
		return nil, err
	}

	sinkEnabled := false
	if v := os.Getenv("KAFKA_SINK_ENABLED"); v != "" {
		sinkEnabled = v == "true"
	}

	cfg := &Config{
		DatabasePath:    envOrDefault("DATABASE_PATH", "weather.db"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		FlushSize:       flushSize,

		KafkaBrokers:     splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:   envOrDefault("KAFKA_SINK_TOPIC", "stored-weather-samples"),
		KafkaSinkEnabled: sinkEnabled,
	}

	if cfg.DatabasePath == "" {
		return nil, errors.New("DATABASE_PATH is required")
	}
	if cfg.KafkaSinkEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_SINK_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaSinkEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_ENABLED is true but KAFKA_SINK_TOPIC is not set")
	}

	return cfg, nil
}

// parseFlushSize validates FLUSH_SIZE: the write-buffer bound also limits
// how much work a mid-batch storage failure can lose, so it is capped.
func parseFlushSize() (int, error) {
	s := envOrDefault("FLUSH_SIZE", "100")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 1000 {
		return 0, fmt.Errorf("invalid FLUSH_SIZE %q: must be an integer between 1 and 1000", s)
	}
	return n, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, s)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
