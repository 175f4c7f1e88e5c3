package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"DB_URL", "AMQP_URL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_API_URL",
	"LLM_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "PUBLISH_HOUR",
	"DISPATCH_INTERVAL", "TZ_NAME", "API_PORT", "DISPATCHER_PORT",
	"NOTIFIER_PORT", "LOG_LEVEL", "LOG_FORMAT", "DRY_RUN",
}

// clearEnv сбрасывает переменные на время теста.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
		t.Setenv(k+"_FILE", "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.PublishHour)
	assert.Equal(t, "60s", cfg.DispatchSchedule)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "8081", cfg.DispatcherPort)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Empty(t, cfg.TelegramToken)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_URL", "postgres://db")
	t.Setenv("PUBLISH_HOUR", "9")
	t.Setenv("DISPATCH_INTERVAL", "*/2 * * * *")
	t.Setenv("TZ_NAME", "Europe/Moscow")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "TEXT")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres://db", cfg.DatabaseURL)
	assert.Equal(t, 9, cfg.PublishHour)
	assert.Equal(t, "*/2 * * * *", cfg.DispatchSchedule)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestFromEnv_PublishHourZeroIsMidnight(t *testing.T) {
	clearEnv(t)
	t.Setenv("PUBLISH_HOUR", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.PublishHour)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PUBLISH_HOUR", "noon"},
		{"PUBLISH_HOUR", "24"},
		{"PUBLISH_HOUR", "-1"},
		{"DISPATCH_INTERVAL", "sometimes"},
		{"DISPATCH_INTERVAL", "10ms"},
		{"TZ_NAME", "Mars/Olympus"},
		{"API_PORT", "http"},
		{"DISPATCHER_PORT", "70000"},
		{"LOG_LEVEL", "verbose"},
		{"LOG_FORMAT", "xml"},
		{"DRY_RUN", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "error should wrap ErrInvalid: %v", err)
		})
	}
}

func TestGetEnv_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("secret-token\n"), 0o600))
	t.Setenv("TELEGRAM_BOT_TOKEN_FILE", path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.TelegramToken)
}

func TestGetEnv_UnreadableFileIsError(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "plain-token")
	t.Setenv("TELEGRAM_BOT_TOKEN_FILE", filepath.Join(t.TempDir(), "missing"))

	_, err := FromEnv()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN_FILE")
}

func TestFromEnv_FileVariantsForParsedKeys(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	hourPath := filepath.Join(dir, "hour")
	tzPath := filepath.Join(dir, "tz")
	require.NoError(t, os.WriteFile(hourPath, []byte("8\n"), 0o600))
	require.NoError(t, os.WriteFile(tzPath, []byte("Europe/Moscow\n"), 0o600))
	t.Setenv("PUBLISH_HOUR_FILE", hourPath)
	t.Setenv("TZ_NAME_FILE", tzPath)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.PublishHour)
	assert.Equal(t, "Europe/Moscow", cfg.Location.String())
}

func TestValidateDelivery(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"token set", Config{TelegramToken: "t"}, false},
		{"explicit dry run", Config{DryRun: true}, false},
		{"no token", Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateDelivery()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromEnv_DryRun(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRY_RUN", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.DryRun)
	assert.NoError(t, cfg.ValidateDelivery())
}
