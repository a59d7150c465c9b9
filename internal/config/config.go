package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string
	DatabaseURL   string
	ReportTime    string // HH:MM, local time of the daily report
	LogLevel      string
}

// Load reads configuration from the environment (and an optional .env file)
// with sane defaults.
func Load() (Config, error) {
	// A missing .env file is fine; the environment wins anyway.
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReportTime:    strings.TrimSpace(os.Getenv("REPORT_TIME")),
		LogLevel:      strings.TrimSpace(os.Getenv("LOG_LEVEL")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "pawpal.db"
	}
	if !validReportTime(cfg.ReportTime) {
		cfg.ReportTime = "08:00"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func validReportTime(raw string) bool {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return false
	}
	return true
}
