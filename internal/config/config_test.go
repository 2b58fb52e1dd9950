package config

import "testing"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("LINE_CHANNEL_TOKEN", "token")
	t.Setenv("BACKEND_BASE_URL", "http://backend.example")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("API_ADDR", "")
	t.Setenv("WEBHOOK", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":5000" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":5000")
	}
	if cfg.WebhookPath != "/webhook" {
		t.Errorf("WebhookPath = %q, want %q", cfg.WebhookPath, "/webhook")
	}
	if cfg.DatabaseDSN != "" {
		t.Errorf("DatabaseDSN = %q, want empty", cfg.DatabaseDSN)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("API_ADDR", ":9000")
	t.Setenv("WEBHOOK", "/hook")
	t.Setenv("DATABASE_URL", "postgres://localhost/healthbot")
	t.Setenv("FAQ_PATH", "faq.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":9000")
	}
	if cfg.WebhookPath != "/hook" {
		t.Errorf("WebhookPath = %q, want %q", cfg.WebhookPath, "/hook")
	}
	if cfg.DatabaseDSN != "postgres://localhost/healthbot" {
		t.Errorf("DatabaseDSN = %q", cfg.DatabaseDSN)
	}
	if cfg.FAQPath != "faq.json" {
		t.Errorf("FAQPath = %q", cfg.FAQPath)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("LINE_CHANNEL_SECRET", "")
	t.Setenv("LINE_CHANNEL_TOKEN", "")
	t.Setenv("BACKEND_BASE_URL", "http://backend.example")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with missing credentials should fail")
	}
}

func TestLoadMissingBackend(t *testing.T) {
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("LINE_CHANNEL_TOKEN", "token")
	t.Setenv("BACKEND_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with missing backend URL should fail")
	}
}
