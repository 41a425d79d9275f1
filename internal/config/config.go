// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import "github.com/hirefair/hirefair/internal/domain/rating"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output from console to JSON encoding.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the persistence backend: "memory" or "sqlite".
	Store string `koanf:"store"`

	// SQLitePath is the sqlite DSN used when Store is "sqlite".
	SQLitePath string `koanf:"sqlite_path"`

	// DefaultRating fills pairs without an explicit rating (1-5).
	DefaultRating int `koanf:"default_rating"`

	// SpecialMinRating is the raw rating both directions must reach to
	// force a special interview.
	SpecialMinRating int `koanf:"special_min_rating"`

	// MaxRoundCount caps round_count on session requests.
	MaxRoundCount int `koanf:"max_round_count"`
}

// Store backend names.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogJSON:          false,
		Addr:             ":9080",
		Store:            StoreMemory,
		SQLitePath:       "hirefair.db",
		DefaultRating:    rating.DefaultNeutral,
		SpecialMinRating: rating.MaxScore,
		MaxRoundCount:    20,
	}
}
