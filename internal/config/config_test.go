package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.BookingSessionTTL != 24*time.Hour {
		t.Errorf("BookingSessionTTL = %v, want 24h", cfg.BookingSessionTTL)
	}
	if cfg.RateLimitBurst != 10 {
		t.Errorf("RateLimitBurst = %d, want 10", cfg.RateLimitBurst)
	}
	if cfg.EmailProvider != "stub" {
		t.Errorf("EmailProvider = %q, want stub", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKING_SESSION_TTL", "1h")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5.5")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BookingSessionTTL != time.Hour {
		t.Errorf("BookingSessionTTL = %v", cfg.BookingSessionTTL)
	}
	if cfg.RateLimitPerSecond != 5.5 {
		t.Errorf("RateLimitPerSecond = %v", cfg.RateLimitPerSecond)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS should be true")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "many")
	t.Setenv("BOOKING_SESSION_TTL", "soon")

	cfg := Load()

	if cfg.LLMMaxTokens != 1024 {
		t.Errorf("LLMMaxTokens = %d, want fallback 1024", cfg.LLMMaxTokens)
	}
	if cfg.BookingSessionTTL != 24*time.Hour {
		t.Errorf("BookingSessionTTL = %v, want fallback 24h", cfg.BookingSessionTTL)
	}
}
