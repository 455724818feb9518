package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "BOOKING_BACKEND", "DRAFT_STORE", "DRAFT_KEY_PREFIX",
		"DEFAULT_PHONE_REGION", "WIZARD_DISCARD_STALE_RESPONSES", "CORS_ALLOWED_ORIGINS", "EMAIL_PROVIDER"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.BookingBackend != "remote" {
		t.Fatalf("expected remote backend by default, got %s", cfg.BookingBackend)
	}
	if cfg.DraftStore != "memory" {
		t.Fatalf("expected memory draft store by default, got %s", cfg.DraftStore)
	}
	if cfg.DraftKeyPrefix != "bookingState" {
		t.Fatalf("expected bookingState prefix, got %s", cfg.DraftKeyPrefix)
	}
	if cfg.DefaultPhoneRegion != "VN" {
		t.Fatalf("expected VN default region, got %s", cfg.DefaultPhoneRegion)
	}
	if cfg.DiscardStaleResponses {
		t.Fatalf("expected stale responses applied by default")
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.EmailProvider != "stub" {
		t.Fatalf("expected stub email provider, got %s", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKING_BACKEND", " Postgres ")
	t.Setenv("CLINIC_API_BASE_URL", "https://clinic.example.com/functions/v1/")
	t.Setenv("CLINIC_API_TIMEOUT", "5s")
	t.Setenv("DRAFT_STORE", "REDIS")
	t.Setenv("DRAFT_TTL", "1h")
	t.Setenv("DEFAULT_PHONE_REGION", "us")
	t.Setenv("WIZARD_DISCARD_STALE_RESPONSES", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("OPERATOR_EMAILS", "desk@clinic.example,ops@clinic.example")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("PROCESSED_EVENTS_TTL", "48h")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.BookingBackend != "postgres" {
		t.Fatalf("expected normalized backend, got %q", cfg.BookingBackend)
	}
	if cfg.ClinicAPIBaseURL != "https://clinic.example.com/functions/v1" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.ClinicAPIBaseURL)
	}
	if cfg.ClinicAPITimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.ClinicAPITimeout)
	}
	if cfg.DraftStore != "redis" || cfg.DraftTTL != time.Hour {
		t.Fatalf("unexpected draft settings: %s %s", cfg.DraftStore, cfg.DraftTTL)
	}
	if cfg.DefaultPhoneRegion != "US" {
		t.Fatalf("expected upper-cased region, got %s", cfg.DefaultPhoneRegion)
	}
	if !cfg.DiscardStaleResponses {
		t.Fatalf("expected stale guard enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 4 {
		t.Fatalf("unexpected rate limit: %v %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if len(cfg.OperatorEmails) != 2 || cfg.OperatorEmails[1] != "ops@clinic.example" {
		t.Fatalf("unexpected operator emails: %v", cfg.OperatorEmails)
	}
	if cfg.OutboxPollInterval != 500*time.Millisecond {
		t.Fatalf("unexpected outbox interval: %s", cfg.OutboxPollInterval)
	}
	if cfg.ProcessedEventsTTL != 48*time.Hour {
		t.Fatalf("unexpected processed events ttl: %s", cfg.ProcessedEventsTTL)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("CLINIC_API_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_BURST", "many")
	t.Setenv("REDIS_TLS", "maybe")

	cfg := Load()
	if cfg.ClinicAPITimeout != 20*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.ClinicAPITimeout)
	}
	if cfg.RateLimitBurst != 20 {
		t.Fatalf("expected default burst, got %d", cfg.RateLimitBurst)
	}
	if cfg.RedisTLS {
		t.Fatalf("expected REDIS_TLS false")
	}
}
