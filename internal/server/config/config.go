package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"personnel/internal/shared/dotenv"
)

type Config struct {
	HTTPAddr        string        `env:"PERSONNEL_HTTP_ADDR" envDefault:":8000"`
	DatabaseDSN     string        `env:"PERSONNEL_DB_DSN" envDefault:"file:personnel.db?cache=shared&mode=rwc"`
	MaxRequestBytes int64         `env:"PERSONNEL_MAX_REQUEST_BYTES" envDefault:"1048576"`
	LogFormat       string        `env:"PERSONNEL_LOG_FORMAT" envDefault:"json"`
	LogLevel        string        `env:"PERSONNEL_LOG_LEVEL" envDefault:"info"`
	CORSOrigins     []string      `env:"PERSONNEL_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"PERSONNEL_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load applies .env files, then parses and checks the environment.
func Load() (Config, error) {
	if _, err := dotenv.Load(); err != nil {
		return Config{}, fmt.Errorf("dotenv: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("PERSONNEL_LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if c.MaxRequestBytes < 0 {
		return fmt.Errorf("PERSONNEL_MAX_REQUEST_BYTES must not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("PERSONNEL_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
