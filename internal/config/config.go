package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the planner.
type Config struct {
	TelegramToken      string
	DatabaseURL        string
	RegenerateInterval time.Duration
	DigestTime         string
	HolidayAPIKey      string
	HolidayAPIURL      string
	Timezone           string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:      strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RegenerateInterval: parseInterval(strings.TrimSpace(os.Getenv("REGENERATE_INTERVAL_HOURS"))),
		DigestTime:         strings.TrimSpace(os.Getenv("DIGEST_TIME")),
		HolidayAPIKey:      strings.TrimSpace(os.Getenv("HOLIDAY_API_KEY")),
		HolidayAPIURL:      strings.TrimSpace(os.Getenv("HOLIDAY_API_URL")),
		Timezone:           strings.TrimSpace(os.Getenv("TIMEZONE")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "todo_planner.db"
	}

	if cfg.RegenerateInterval == 0 {
		cfg.RegenerateInterval = 6 * time.Hour
	}

	if cfg.DigestTime == "" {
		cfg.DigestTime = "08:00"
	}

	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Seoul"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
