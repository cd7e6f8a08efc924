package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"STUDIO_HTTP_PORT",
			"STUDIO_SQLITE_DSN",
			"STUDIO_SESSION_TTL",
			"STUDIO_TIMEZONE",
			"STUDIO_REDIRECT_GRACE",
			"STUDIO_MIDTRANS_PRODUCTION",
			"STUDIO_RESEND_API_KEY",
			"STUDIO_EMAIL_FROM",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		const serverKey = "SB-Mid-server-test"
		t.Setenv("STUDIO_MIDTRANS_SERVER_KEY", serverKey)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:studio.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Timezone != "Asia/Jakarta" {
			t.Fatalf("unexpected default timezone: %q", cfg.Timezone)
		}
		if cfg.RedirectGrace != 1500*time.Millisecond {
			t.Fatalf("unexpected default redirect grace: %s", cfg.RedirectGrace)
		}
		if cfg.MidtransServerKey != serverKey {
			t.Fatalf("expected midtrans server key %q, got %q", serverKey, cfg.MidtransServerKey)
		}
		if cfg.MidtransProduction {
			t.Fatalf("expected sandbox midtrans mode by default")
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		for _, key := range []string{
			"STUDIO_MIDTRANS_SERVER_KEY",
			"STUDIO_HTTP_PORT",
			"STUDIO_SQLITE_DSN",
		} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "required environment variables are not set: STUDIO_MIDTRANS_SERVER_KEY"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("STUDIO_MIDTRANS_SERVER_KEY", "SB-Mid-server-test")
		t.Setenv("STUDIO_HTTP_PORT", "9090")
		t.Setenv("STUDIO_SQLITE_DSN", "file:/tmp/studio.db")
		t.Setenv("STUDIO_SESSION_TTL", "12h")
		t.Setenv("STUDIO_REDIRECT_GRACE", "2s")
		t.Setenv("STUDIO_MIDTRANS_PRODUCTION", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected session TTL 12h, got %s", cfg.SessionTTL)
		}
		if cfg.RedirectGrace != 2*time.Second {
			t.Fatalf("expected redirect grace 2s, got %s", cfg.RedirectGrace)
		}
		if !cfg.MidtransProduction {
			t.Fatalf("expected production midtrans mode")
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Setenv("STUDIO_MIDTRANS_SERVER_KEY", "SB-Mid-server-test")
		t.Setenv("STUDIO_HTTP_PORT", "not-a-port")
		t.Setenv("STUDIO_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
	})
}

func TestConfig_Location(t *testing.T) {
	t.Parallel()

	cfg := Config{Timezone: "Asia/Jakarta"}
	if got := cfg.Location().String(); got != "Asia/Jakarta" {
		t.Fatalf("unexpected location: %q", got)
	}

	broken := Config{Timezone: "Nowhere/Nothing"}
	if got := broken.Location(); got != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", got)
	}
}
