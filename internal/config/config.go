// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig, loader failures wrap ErrLoadConfig.
package config

import (
	"context"
)

// Config contains process configuration shared by the server and the CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// BackendURL is the base URL of the club REST backend.
	BackendURL string `koanf:"backend_url"`

	// BackendTimeoutMS bounds every backend request.
	BackendTimeoutMS int `koanf:"backend_timeout_ms"`

	// BackendToken is an optional bearer token used until the first login.
	BackendToken string `koanf:"backend_token"`

	// DefaultMetric is plotted when a compare request names none.
	DefaultMetric string `koanf:"default_metric"`

	// MaxAthletes caps the number of athletes in one comparison.
	MaxAthletes int `koanf:"max_athletes"`

	// SelectorPageSize is the page size used by the athlete selector.
	SelectorPageSize int `koanf:"selector_page_size"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		BackendURL:       "http://localhost:8080",
		BackendTimeoutMS: 10_000,
		DefaultMetric:    "jumpLength",
		MaxAthletes:      20,
		SelectorPageSize: 8,
	}
}
