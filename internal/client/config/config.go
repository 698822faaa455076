// Package config reads the personnel client settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"personnel/internal/shared/dotenv"
)

// DefaultAPIURL is the collection URL of a locally running backend.
const DefaultAPIURL = "http://127.0.0.1:8000/personnel"

type Config struct {
	APIURL   string        `env:"PERSONNEL_API_URL" envDefault:"http://127.0.0.1:8000/personnel"`
	Timezone string        `env:"PERSONNEL_TIMEZONE"`
	LogFile  string        `env:"PERSONNEL_LOG_FILE"`
	LogLevel string        `env:"PERSONNEL_LOG_LEVEL" envDefault:"error"`
	Timeout  time.Duration `env:"PERSONNEL_HTTP_TIMEOUT" envDefault:"15s"`
}

// Load applies .env files and parses the environment.
func Load() (Config, error) {
	if _, err := dotenv.Load(); err != nil {
		return Config{}, fmt.Errorf("dotenv: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("PERSONNEL_HTTP_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}

// Location resolves the zone creation times are shown in. Empty means local time.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
