package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/frontdesk/internal/flagx"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
)

// JsonConfig is the on-disk JSON shape. Durations accept "60s" or
// nanoseconds.
type JsonConfig struct {
	DatabaseDSN        string         `json:"database_dsn"`
	Location           string         `json:"location"`
	Cutoff             string         `json:"cutoff"`
	TickInterval       timex.Duration `json:"tick_interval"`
	UpcomingWindow     timex.Duration `json:"upcoming_window"`
	PassFollowUpDays   *int           `json:"pass_followup_days"`
	ExcludedNoteMarker string         `json:"excluded_note_marker"`
	RedisAddr          string         `json:"redis_addr"`
	SessionTTL         timex.Duration `json:"session_ttl"`
	MetricsAddr        string         `json:"metrics_addr"`
	LogLevel           string         `json:"log_level"`
	LogFormat          string         `json:"log_format"`
	EnvFile            string         `json:"env_file"`
}

// parseJson overlays cfg with the fields present in the file named by -c or
// -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}
	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.Location, jc.Location)
	setString(&cfg.Cutoff, jc.Cutoff)
	setString(&cfg.ExcludedNoteMarker, jc.ExcludedNoteMarker)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.EnvFile, jc.EnvFile)

	if jc.TickInterval.Duration != 0 {
		cfg.TickInterval = jc.TickInterval.Duration
	}
	if jc.UpcomingWindow.Duration != 0 {
		cfg.UpcomingWindow = jc.UpcomingWindow.Duration
	}
	if jc.SessionTTL.Duration != 0 {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.PassFollowUpDays != nil {
		cfg.PassFollowUpDays = *jc.PassFollowUpDays
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
