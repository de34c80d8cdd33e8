package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Server struct {
	Addr            string        `env:"REVIEWHUB_ADDR" envDefault:"0.0.0.0:8000"`
	GinMode         string        `env:"REVIEWHUB_GIN_MODE" envDefault:"release"`
	ShutdownTimeout time.Duration `env:"REVIEWHUB_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Database struct {
	Path string `env:"REVIEWHUB_DB_PATH" envDefault:"reviews.db"`
}

type Logging struct {
	Level  string `env:"REVIEWHUB_LOG_LEVEL" envDefault:"info"`
	Format string `env:"REVIEWHUB_LOG_FORMAT" envDefault:"text"`
}

type Config struct {
	Server
	Database
	Logging
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("REVIEWHUB_LOG_LEVEL must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("REVIEWHUB_LOG_FORMAT must be text or json; got %q", c.Logging.Format)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("REVIEWHUB_DB_PATH must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("REVIEWHUB_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
