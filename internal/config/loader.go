package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hirefair/hirefair/internal/domain/rating"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HIREFAIR_CONFIG is set
//  3. env (prefix HIREFAIR_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("HIREFAIR_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadFile, err)
		}
	}

	// Environment variables: HIREFAIR_ADDR, HIREFAIR_STORE, ...
	// Map env keys like HIREFAIR_MAX_ROUND_COUNT -> max_round_count.
	envProvider := env.Provider("HIREFAIR_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "hirefair_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadEnv, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Store != StoreMemory && c.Store != StoreSQLite {
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.DefaultRating < rating.MinScore || c.DefaultRating > rating.MaxScore {
		return fmt.Errorf("%w: default_rating %d out of range", ErrInvalidConfig, c.DefaultRating)
	}
	if c.SpecialMinRating < rating.MinScore || c.SpecialMinRating > rating.MaxScore {
		return fmt.Errorf("%w: special_min_rating %d out of range", ErrInvalidConfig, c.SpecialMinRating)
	}
	if c.MaxRoundCount < 1 {
		return fmt.Errorf("%w: max_round_count must be positive", ErrInvalidConfig)
	}
	return nil
}
