package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "mistakebook.db", filepath.Base(cfg.Database.Path))
	assert.Equal(t, 2*time.Second, cfg.Session.PracticeDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Session.ReviewDelay)
	assert.True(t, cfg.Reminder.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/mb-test.db
log:
  level: debug
  format: console
session:
  practice_delay: 3s
  review_delay: 0s
reminder:
  start_hour: 8
  end_hour: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/mb-test.db", cfg.Database.Path)
	assert.Equal(t, "sqlite3", cfg.Database.Driver, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 3*time.Second, cfg.Session.PracticeDelay)
	assert.Equal(t, time.Duration(0), cfg.Session.ReviewDelay)
	assert.Equal(t, 8, cfg.Reminder.StartHour)
	assert.Equal(t, 20, cfg.Reminder.EndHour)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv("MISTAKEBOOK_LOG_LEVEL", "warn")
	t.Setenv("MISTAKEBOOK_SESSION_REVIEW_DELAY", "500ms")
	t.Setenv("MISTAKEBOOK_TELEGRAM_OWNER_ID", "4242")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.ReviewDelay)
	assert.Equal(t, int64(4242), cfg.Telegram.OwnerID)
}

func TestLoad_LegacyEnv(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("NOTIFICATION_START_HOUR", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 7, cfg.Reminder.StartHour)
}

func TestLoad_PrefixedEnvBeatsLegacy(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "legacy")
	t.Setenv("MISTAKEBOOK_TELEGRAM_TOKEN", "current")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "current", cfg.Telegram.Token)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: mysql\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database.driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "database.dsn"},
		{"empty sqlite path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"negative delay", func(c *Config) { c.Session.PracticeDelay = -time.Second }, "must not be negative"},
		{"hour out of range", func(c *Config) { c.Reminder.EndHour = 24 }, "between 0 and 23"},
		{"start after end", func(c *Config) { c.Reminder.StartHour = 22 }, "start_hour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "reminder.start_hour", envKey("MISTAKEBOOK_REMINDER_START_HOUR"))
	assert.Equal(t, "database.dsn", envKey("MISTAKEBOOK_DATABASE_DSN"))
	assert.Equal(t, "", legacyKey("HOME"))
}
