package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names and prefix read by Load.
const (
	EnvPrefix  = "JUMPBOARD_"
	EnvConfig  = EnvPrefix + "CONFIG"
	EnvEnvFile = EnvPrefix + "ENV_FILE"
)

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. YAML file if JUMPBOARD_CONFIG is set
//  3. env (prefix JUMPBOARD_), after loading JUMPBOARD_ENV_FILE into the
//     process environment when set; real env vars win over the file
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvEnvFile); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("%w: env file %s: %w", ErrLoadConfig, path, err)
		}
	}

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// JUMPBOARD_BACKEND_URL -> backend_url (flat keys, underscores kept).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.BackendURL) == "":
		return fmt.Errorf("%w: backend_url must not be empty", ErrInvalidConfig)
	case c.BackendTimeoutMS <= 0:
		return fmt.Errorf("%w: backend_timeout_ms must be positive", ErrInvalidConfig)
	case c.MaxAthletes <= 0:
		return fmt.Errorf("%w: max_athletes must be positive", ErrInvalidConfig)
	case c.SelectorPageSize <= 0:
		return fmt.Errorf("%w: selector_page_size must be positive", ErrInvalidConfig)
	}
	return nil
}
