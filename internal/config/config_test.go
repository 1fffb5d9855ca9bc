package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("FIREBASE_PROJECT_ID", "rechargex-test")
	t.Setenv("APP_ENV", "development")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != defaultPort || cfg.Address() != ":5002" {
		t.Fatalf("unexpected port %q / %q", cfg.Port, cfg.Address())
	}
	if cfg.SessionTTL != 720*time.Hour {
		t.Fatalf("expected 30 day session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.ShutdownPeriod != defaultShutdownDelay {
		t.Fatalf("expected default shutdown period, got %s", cfg.ShutdownPeriod)
	}
	if cfg.DefaultOperator != "Unknown" || cfg.StrictMobile {
		t.Fatalf("unexpected operator defaults %q strict=%v", cfg.DefaultOperator, cfg.StrictMobile)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected two default origins, got %v", cfg.AllowedOrigins)
	}
	if !cfg.AutoMigrate || cfg.SeedPlans {
		t.Fatalf("unexpected migrate/seed flags %v/%v", cfg.AutoMigrate, cfg.SeedPlans)
	}
	if !cfg.IsDev() {
		t.Fatalf("development should be dev")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", ":8080")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")
	t.Setenv("STRICT_MOBILE", "true")
	t.Setenv("DEFAULT_OPERATOR", "Jio")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOGIN_RATE_LIMIT", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
	if cfg.SessionTTL != time.Hour || cfg.ShutdownPeriod != 3*time.Second {
		t.Fatalf("unexpected durations %s %s", cfg.SessionTTL, cfg.ShutdownPeriod)
	}
	if !cfg.StrictMobile || cfg.DefaultOperator != "Jio" || cfg.LoginRateLimit != 9 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("FIREBASE_PROJECT_ID", "p")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without FIREBASE_PROJECT_ID")
	}
}

func TestLoadProductionNeedsStores(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for bad SESSION_TTL")
	}

	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero SHUTDOWN_TIMEOUT_SECONDS")
	}
}
