package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REPORT_TIME", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.TelegramToken)
	assert.Equal(t, "pawpal.db", cfg.DatabaseURL)
	assert.Equal(t, "08:00", cfg.ReportTime)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := Load()
	assert.ErrorContains(t, err, "TELEGRAM_TOKEN")
}

func TestLoadInvalidReportTimeFallsBack(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("REPORT_TIME", "25:99")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "08:00", cfg.ReportTime)
}

func TestValidReportTime(t *testing.T) {
	assert.True(t, validReportTime("08:00"))
	assert.True(t, validReportTime("23:59"))
	assert.False(t, validReportTime("24:00"))
	assert.False(t, validReportTime("08:60"))
	assert.False(t, validReportTime("0800"))
	assert.False(t, validReportTime(""))
}
