package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Session.Backend != BackendFile || cfg.Session.Path == "" {
		t.Fatalf("unexpected session config %#v", cfg.Session)
	}
	if cfg.Booking.ConfirmationDelay != 2*time.Second {
		t.Fatalf("unexpected confirmation delay %v", cfg.Booking.ConfirmationDelay)
	}
	if cfg.Checkout.TaxRate != 0.08 {
		t.Fatalf("unexpected tax rate %v", cfg.Checkout.TaxRate)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte("api:\n  base_url: http://api.test/api/\n  timeout: 3s\nsession:\n  backend: memory\nlog:\n  level: debug\n")
	if err := os.WriteFile(filepath.Join(dir, "petcare.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PETCARE_LOG_LEVEL", "warn")
	t.Setenv("PETCARE_CHECKOUT_TAX_RATE", "0.1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://api.test/api" {
		t.Fatalf("expected trimmed base url, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Session.Backend != BackendMemory {
		t.Fatalf("expected memory backend, got %q", cfg.Session.Backend)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("env must override file, got %q", cfg.Log.Level)
	}
	if cfg.Checkout.TaxRate != 0.1 {
		t.Fatalf("expected tax rate from env, got %v", cfg.Checkout.TaxRate)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("PETCARE_DEVAPI_ADDR=:9999\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv escribe en el entorno del proceso: se restaura al terminar.
	t.Setenv("PETCARE_DEVAPI_ADDR", "")
	_ = os.Unsetenv("PETCARE_DEVAPI_ADDR")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DevAPI.Addr != ":9999" {
		t.Fatalf("expected addr from .env, got %q", cfg.DevAPI.Addr)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PETCARE_SESSION_BACKEND", "floppy")

	_, err := Load("")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PETCARE_SESSION_BACKEND", "postgres")
	t.Setenv("PETCARE_SESSION_POSTGRES_DSN", "")

	_, err := Load("")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}
