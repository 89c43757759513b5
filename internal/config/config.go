// Package config loads process settings from the environment and the
// optional TOML run profile.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds connection settings, read from environment variables
// (populated from .env in main).
type Config struct {
	OldDBURI          string `env:"OLD_DB_URI" envDefault:"mongodb://localhost:27017/old_tanamao"`
	OldDBName         string `env:"OLD_DB_NAME" envDefault:"old_tanamao"`
	NewDBURI          string `env:"NEW_DB_URI" envDefault:"mongodb://localhost:27017/tanamao_default"`
	NewDBName         string `env:"NEW_DB_NAME" envDefault:"tanamao_default"`
	GeocoderURL       string `env:"GEOCODER_URL" envDefault:"https://nominatim.openstreetmap.org/search"`
	GeocoderUserAgent string `env:"GEOCODER_USER_AGENT" envDefault:"tanamao-migration-tool/1.0.0"`
	RedisURL          string `env:"REDIS_URL"`             // geocode cache, in-memory when empty
	SQLConnString     string `env:"SQL_CONNECTION_STRING"` // run ledger, disabled when empty
	LogFile           string `env:"LOG_FILE"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig parses the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
