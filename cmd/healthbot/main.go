package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/leadfirst/healthbot/internal/api"
	"github.com/leadfirst/healthbot/internal/backend"
	"github.com/leadfirst/healthbot/internal/config"
	"github.com/leadfirst/healthbot/internal/engine"
	"github.com/leadfirst/healthbot/internal/faq"
	"github.com/leadfirst/healthbot/internal/line"
	"github.com/leadfirst/healthbot/internal/store"
	"github.com/leadfirst/healthbot/internal/util"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Parse command line flags with environment defaults
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dsn := flag.String("dsn", cfg.DatabaseDSN, "database DSN (empty for in-memory, postgres:// for Postgres, otherwise a SQLite path)")
	backendURL := flag.String("backend-url", cfg.BackendBaseURL, "base URL of the points backend")
	webhookPath := flag.String("webhook-path", cfg.WebhookPath, "path the LINE webhook is mounted on")
	faqPath := flag.String("faq", cfg.FAQPath, "path to FAQ JSON file (optional)")
	flag.Parse()

	// State store
	st, err := store.NewStore(*dsn)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Points backend client
	gw, err := backend.NewClient(backend.WithBaseURL(*backendURL))
	if err != nil {
		slog.Error("Failed to initialize backend client", "error", err)
		os.Exit(1)
	}

	// Optional FAQ answers for registered users
	var answers map[string]string
	if *faqPath != "" {
		answers, err = faq.Load(*faqPath)
		if err != nil {
			slog.Error("Failed to load FAQ file", "error", err, "path", *faqPath)
			os.Exit(1)
		}
		slog.Info("FAQ answers loaded", "path", *faqPath, "entries", len(answers))
	}

	// LINE transport
	svc, err := line.NewService(
		line.WithChannelSecret(cfg.ChannelSecret),
		line.WithChannelToken(cfg.ChannelToken),
	)
	if err != nil {
		slog.Error("Failed to initialize LINE service", "error", err)
		os.Exit(1)
	}

	eng := engine.New(st, gw, answers)

	slog.Info("Bootstrapping healthbot", "addr", *addr, "dsn_set", *dsn != "", "faq_entries", len(answers))
	srv := api.NewServer(svc, eng, st,
		api.WithAddr(*addr),
		api.WithWebhookPath(*webhookPath),
	)
	if err := srv.Run(); err != nil {
		slog.Error("healthbot failed to run", "error", err)
		os.Exit(1)
	}
}

// initializeLogger sets up structured logging; HEALTHBOT_DEBUG enables debug level
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("HEALTHBOT_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
