package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BookingWindowDays != 7 {
		t.Errorf("expected 7-day booking window, got %d", cfg.BookingWindowDays)
	}
	if cfg.AvailabilityCacheTTL != 5*time.Second {
		t.Errorf("expected 5s cache TTL, got %s", cfg.AvailabilityCacheTTL)
	}
	if cfg.GeminiModelID == "" {
		t.Error("expected a default gemini model id")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKING_WINDOW_DAYS", "14")
	t.Setenv("AVAILABILITY_CACHE_TTL", "30s")
	t.Setenv("PRUNE_ENABLED", "false")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.BookingWindowDays != 14 {
		t.Errorf("expected 14-day window, got %d", cfg.BookingWindowDays)
	}
	if cfg.AvailabilityCacheTTL != 30*time.Second {
		t.Errorf("expected 30s TTL, got %s", cfg.AvailabilityCacheTTL)
	}
	if cfg.PruneEnabled {
		t.Error("expected pruning disabled")
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("BOOKING_WINDOW_DAYS", "soon")
	t.Setenv("AVAILABILITY_CACHE_TTL", "whenever")

	cfg := Load()

	if cfg.BookingWindowDays != 7 {
		t.Errorf("expected fallback window 7, got %d", cfg.BookingWindowDays)
	}
	if cfg.AvailabilityCacheTTL != 5*time.Second {
		t.Errorf("expected fallback TTL 5s, got %s", cfg.AvailabilityCacheTTL)
	}
}
