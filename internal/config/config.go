package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all settings for a scrape run, populated from environment
// variables with defaults matching the original scraper's constants.
type Config struct {
	SourceURL   string        `envconfig:"SOURCE_URL" default:"https://en.wikipedia.org/wiki/List_of_cities_by_average_temperature"`
	UserAgent   string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	DBPath string `envconfig:"DB_PATH" default:"city_temperatures.db"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// MetricsFile, when set, receives the run's Prometheus metrics in text
	// exposition format (node-exporter textfile collector).
	MetricsFile string `envconfig:"METRICS_FILE" default:""`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}
	if cfg.HTTPTimeout <= 0 {
		return nil, errors.New("HTTP_TIMEOUT must be positive")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("LOG_FORMAT must be \"text\" or \"json\"")
	}

	return &cfg, nil
}
