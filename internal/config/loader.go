package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the study
// scheduler service.
type Config struct {
	HTTPPort           int
	SQLiteDSN          string
	Timezone           string
	DailyTargetMinutes int
}

// Load parses configuration values from the current process environment.
//
// Every field has a sensible default; values that are present but malformed
// are collected and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:           8080,
		SQLiteDSN:          "file:study-scheduler.db",
		Timezone:           "UTC",
		DailyTargetMinutes: 120,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("STUDYSCHED_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "STUDYSCHED_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("STUDYSCHED_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if tz := strings.TrimSpace(os.Getenv("STUDYSCHED_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "STUDYSCHED_TIMEZONE")
		} else {
			cfg.Timezone = tz
		}
	}

	if targetValue := strings.TrimSpace(os.Getenv("STUDYSCHED_DAILY_TARGET_MINUTES")); targetValue != "" {
		target, err := strconv.Atoi(targetValue)
		if err != nil || target <= 0 {
			invalid = append(invalid, "STUDYSCHED_DAILY_TARGET_MINUTES")
		} else {
			cfg.DailyTargetMinutes = target
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
