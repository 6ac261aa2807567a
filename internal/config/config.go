// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"3000"`
	DBDriver       string   `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	JWTSecret      string   `env:"JWT_SECRET"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	MessageRatePerSecond float64 `env:"MESSAGE_RATE_PER_SECOND" envDefault:"1"`
	MessageBurst         int     `env:"MESSAGE_BURST" envDefault:"5"`

	ReminderSchedule string        `env:"REMINDER_SCHEDULE" envDefault:"@hourly"`
	ReminderWindow   time.Duration `env:"REMINDER_WINDOW" envDefault:"24h"`
}

// Load reads an optional .env file from the working directory and then
// parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}

	if c.MessageRatePerSecond <= 0 || c.MessageBurst <= 0 {
		return errors.New("MESSAGE_RATE_PER_SECOND and MESSAGE_BURST must be positive")
	}

	if c.ReminderWindow <= 0 {
		return errors.New("REMINDER_WINDOW must be positive")
	}

	return nil
}
