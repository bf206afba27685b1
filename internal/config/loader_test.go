package config

import (
	"os"
	"testing"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"STUDYSCHED_HTTP_PORT",
			"STUDYSCHED_SQLITE_DSN",
			"STUDYSCHED_TIMEZONE",
			"STUDYSCHED_DAILY_TARGET_MINUTES",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:study-scheduler.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Timezone != "UTC" {
			t.Fatalf("expected default timezone UTC, got %q", cfg.Timezone)
		}
		if cfg.DailyTargetMinutes != 120 {
			t.Fatalf("expected default daily target of 120 minutes, got %d", cfg.DailyTargetMinutes)
		}
	})

	t.Run("parses numeric and timezone fields", func(t *testing.T) {
		t.Setenv("STUDYSCHED_HTTP_PORT", "9090")
		t.Setenv("STUDYSCHED_SQLITE_DSN", "file:/tmp/study.db")
		t.Setenv("STUDYSCHED_TIMEZONE", "Asia/Tokyo")
		t.Setenv("STUDYSCHED_DAILY_TARGET_MINUTES", "180")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/study.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.Timezone != "Asia/Tokyo" {
			t.Fatalf("unexpected timezone: %q", cfg.Timezone)
		}
		if cfg.DailyTargetMinutes != 180 {
			t.Fatalf("expected daily target of 180 minutes, got %d", cfg.DailyTargetMinutes)
		}

		loc, err := cfg.Location()
		if err != nil {
			t.Fatalf("Location returned error: %v", err)
		}
		if loc.String() != "Asia/Tokyo" {
			t.Fatalf("unexpected location: %v", loc)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Setenv("STUDYSCHED_HTTP_PORT", "not-a-port")
		t.Setenv("STUDYSCHED_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed values")
		}
		expected := "invalid environment variable values: STUDYSCHED_HTTP_PORT, STUDYSCHED_TIMEZONE"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
