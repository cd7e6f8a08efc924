package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the studio service.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration

	// Timezone is the IANA zone the studio operates in. Schedule dates and
	// calendar grids are interpreted in this zone.
	Timezone string

	// RedirectGrace is how long the layout gate waits before issuing a
	// buy-package redirect, giving an in-flight purchase-status sync a chance
	// to land first.
	RedirectGrace time.Duration

	MidtransServerKey  string
	MidtransProduction bool

	ResendAPIKey string
	EmailFrom    string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; missing required values and
// unparseable values are accumulated and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:studio.db?_foreign_keys=on",
		SessionTTL:    24 * time.Hour,
		Timezone:      "Asia/Jakarta",
		RedirectGrace: 1500 * time.Millisecond,
		EmailFrom:     "Studio <noreply@studio.example>",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STUDIO_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STUDIO_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STUDIO_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("STUDIO_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "STUDIO_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if zone := strings.TrimSpace(os.Getenv("STUDIO_TIMEZONE")); zone != "" {
		if _, err := time.LoadLocation(zone); err != nil {
			invalid = append(invalid, "STUDIO_TIMEZONE")
		} else {
			cfg.Timezone = zone
		}
	}

	if graceValue := strings.TrimSpace(os.Getenv("STUDIO_REDIRECT_GRACE")); graceValue != "" {
		grace, err := time.ParseDuration(graceValue)
		if err != nil || grace < 0 {
			invalid = append(invalid, "STUDIO_REDIRECT_GRACE")
		} else {
			cfg.RedirectGrace = grace
		}
	}

	if key := strings.TrimSpace(os.Getenv("STUDIO_MIDTRANS_SERVER_KEY")); key == "" {
		missing = append(missing, "STUDIO_MIDTRANS_SERVER_KEY")
	} else {
		cfg.MidtransServerKey = key
	}

	if prodValue := strings.TrimSpace(os.Getenv("STUDIO_MIDTRANS_PRODUCTION")); prodValue != "" {
		prod, err := strconv.ParseBool(prodValue)
		if err != nil {
			invalid = append(invalid, "STUDIO_MIDTRANS_PRODUCTION")
		} else {
			cfg.MidtransProduction = prod
		}
	}

	// Resend is optional; without a key the service falls back to the noop sender.
	cfg.ResendAPIKey = strings.TrimSpace(os.Getenv("STUDIO_RESEND_API_KEY"))

	if from := strings.TrimSpace(os.Getenv("STUDIO_EMAIL_FROM")); from != "" {
		cfg.EmailFrom = from
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves the configured studio timezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
