// Package config loads the environment configuration for healthbot.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Values come from the environment;
// a .env file is loaded first when present.
type Config struct {
	// LINE messaging channel credentials.
	ChannelSecret string `env:"LINE_CHANNEL_SECRET"`
	ChannelToken  string `env:"LINE_CHANNEL_TOKEN"`

	// Points backend service of record.
	BackendBaseURL string `env:"BACKEND_BASE_URL"`

	// Store DSN: empty selects the volatile in-memory store, a postgres DSN
	// selects Postgres, any other value is a SQLite file path.
	DatabaseDSN string `env:"DATABASE_URL"`

	// Optional FAQ file consulted for unmatched text from registered users.
	FAQPath string `env:"FAQ_PATH"`

	// HTTP server settings.
	Addr        string `env:"API_ADDR" envDefault:":5000"`
	WebhookPath string `env:"WEBHOOK" envDefault:"/webhook"`
}

// Load reads the .env file (if any) and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("config.Load: no .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: failed to parse environment: %w", err)
	}

	if cfg.ChannelSecret == "" || cfg.ChannelToken == "" {
		return nil, fmt.Errorf("config.Load: LINE_CHANNEL_SECRET and LINE_CHANNEL_TOKEN are required")
	}
	if cfg.BackendBaseURL == "" {
		return nil, fmt.Errorf("config.Load: BACKEND_BASE_URL is required")
	}

	slog.Debug("config.Load: environment loaded",
		"addr", cfg.Addr,
		"webhook_path", cfg.WebhookPath,
		"database_dsn_set", cfg.DatabaseDSN != "",
		"faq_path", cfg.FAQPath)
	return &cfg, nil
}
