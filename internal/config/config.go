// Package config loads the desk runtime settings.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional JSON file (-c / -config), a .env file plus DESK_* environment
// variables, and finally command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/timex"
)

// Config holds runtime settings for the front desk.
type Config struct {
	// DatabaseDSN is a SQLite path or a postgres:// URL.
	DatabaseDSN string
	// Location is the IANA business timezone.
	Location string
	// Cutoff is the "HH:MM" opening boundary of the reminder rules.
	Cutoff string

	TickInterval       time.Duration
	UpcomingWindow     time.Duration
	PassFollowUpDays   int
	ExcludedNoteMarker string

	// RedisAddr enables shared dismissal memory when set.
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// MetricsAddr enables the /metrics listener when set.
	MetricsAddr string

	LogLevel  string
	LogFormat string

	// EnvFile is the dotenv file read before the environment.
	EnvFile string
}

// LoadDefaults populates c with the standard desk settings.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "frontdesk.db"
	c.Location = timex.DefaultLocation
	c.Cutoff = "06:30"
	c.TickInterval = 60 * time.Second
	c.UpcomingWindow = 10 * time.Minute
	c.PassFollowUpDays = 2
	c.ExcludedNoteMarker = "[NO RECUPERO]"
	c.SessionTTL = 12 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.EnvFile = ".env"
}

// Validate checks values that the rest of the program assumes sane.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database dsn is empty")
	}
	if _, err := timex.ParseWallClock(c.Cutoff); err != nil {
		return fmt.Errorf("cutoff: %w", err)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.UpcomingWindow <= 0 {
		return fmt.Errorf("upcoming window must be positive, got %s", c.UpcomingWindow)
	}
	if c.PassFollowUpDays < 0 {
		return fmt.Errorf("pass follow-up days must not be negative, got %d", c.PassFollowUpDays)
	}
	return nil
}

// LoadConfig builds a Config from every source. Malformed input panics, the
// way flag parsing does.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
