// Package config provides configuration loading for mistakebook.
//
// Values come from, lowest precedence first: built-in defaults, the YAML
// config file, the legacy bot environment names (TELEGRAM_BOT_TOKEN,
// NOTIFICATION_START_HOUR, NOTIFICATION_END_HOUR) and finally variables
// prefixed with MISTAKEBOOK_. A .env file in the working directory is
// loaded into the environment first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete mistakebook configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Session  SessionConfig  `koanf:"session"`
	Telegram TelegramConfig `koanf:"telegram"`
	Reminder ReminderConfig `koanf:"reminder"`
}

// DatabaseConfig selects the record store backend.
type DatabaseConfig struct {
	Driver string `koanf:"driver"` // sqlite3 or postgres
	Path   string `koanf:"path"`   // sqlite3 database file
	DSN    string `koanf:"dsn"`    // postgres connection string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
	File   string `koanf:"file"`   // empty logs to stderr
}

// SessionConfig holds the post-judgement display delays before a session
// advances on its own. Zero disables auto-advance.
type SessionConfig struct {
	PracticeDelay time.Duration `koanf:"practice_delay"`
	ReviewDelay   time.Duration `koanf:"review_delay"`
}

// TelegramConfig configures the optional Telegram surface.
type TelegramConfig struct {
	Token   string `koanf:"token"`
	OwnerID int64  `koanf:"owner_id"` // the only user the bot answers
}

// ReminderConfig controls the hourly review reminder.
type ReminderConfig struct {
	Enabled   bool `koanf:"enabled"`
	StartHour int  `koanf:"start_hour"`
	EndHour   int  `koanf:"end_hour"`
}

const (
	// DefaultPracticeDelay matches the practice view's answer display time.
	DefaultPracticeDelay = 2 * time.Second
	// DefaultReviewDelay matches the review view's answer display time.
	DefaultReviewDelay = 1500 * time.Millisecond

	DefaultNotificationStartHour = 9
	DefaultNotificationEndHour   = 21
)

// DataDir returns the directory holding the database, log and config files.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mistakebook"
	}
	return filepath.Join(home, ".mistakebook")
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	dir := DataDir()
	return &Config{
		Database: DatabaseConfig{
			Driver: "sqlite3",
			Path:   filepath.Join(dir, "mistakebook.db"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(dir, "mistakebook.log"),
		},
		Session: SessionConfig{
			PracticeDelay: DefaultPracticeDelay,
			ReviewDelay:   DefaultReviewDelay,
		},
		Reminder: ReminderConfig{
			Enabled:   true,
			StartHour: DefaultNotificationStartHour,
			EndHour:   DefaultNotificationEndHour,
		},
	}
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "sqlite3":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite3"))
		}
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}

	if c.Session.PracticeDelay < 0 || c.Session.ReviewDelay < 0 {
		errs = append(errs, errors.New("session delays must not be negative"))
	}

	if c.Reminder.StartHour < 0 || c.Reminder.StartHour > 23 || c.Reminder.EndHour < 0 || c.Reminder.EndHour > 23 {
		errs = append(errs, errors.New("reminder hours must be between 0 and 23"))
	} else if c.Reminder.StartHour > c.Reminder.EndHour {
		errs = append(errs, errors.New("reminder.start_hour must not be after reminder.end_hour"))
	}

	return errors.Join(errs...)
}
