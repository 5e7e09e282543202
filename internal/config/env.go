package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvDatabaseDSN      = "DESK_DATABASE_DSN"
	EnvLocation         = "DESK_LOCATION"
	EnvCutoff           = "DESK_CUTOFF"
	EnvTickInterval     = "DESK_TICK_INTERVAL"
	EnvUpcomingWindow   = "DESK_UPCOMING_WINDOW"
	EnvPassFollowUpDays = "DESK_PASS_FOLLOWUP_DAYS"
	EnvExcludedMarker   = "DESK_EXCLUDED_NOTE_MARKER"
	EnvRedisAddr        = "DESK_REDIS_ADDR"
	EnvRedisPassword    = "DESK_REDIS_PASSWORD"
	EnvSessionTTL       = "DESK_SESSION_TTL"
	EnvMetricsAddr      = "DESK_METRICS_ADDR"
	EnvLogLevel         = "DESK_LOG_LEVEL"
	EnvLogFormat        = "DESK_LOG_FORMAT"
)

// parseEnv loads cfg.EnvFile (when it exists) into the process environment
// without overriding variables already set, then overlays DESK_* values.
// It panics on a malformed dotenv file or value.
func parseEnv(cfg *Config) {
	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		panic(err)
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New(key + ": " + err.Error())
		}
		*dst = d
		return nil
	}

	str(EnvDatabaseDSN, &cfg.DatabaseDSN)
	str(EnvLocation, &cfg.Location)
	str(EnvCutoff, &cfg.Cutoff)
	str(EnvExcludedMarker, &cfg.ExcludedNoteMarker)
	str(EnvRedisAddr, &cfg.RedisAddr)
	str(EnvRedisPassword, &cfg.RedisPassword)
	str(EnvMetricsAddr, &cfg.MetricsAddr)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvLogFormat, &cfg.LogFormat)

	for key, dst := range map[string]*time.Duration{
		EnvTickInterval:   &cfg.TickInterval,
		EnvUpcomingWindow: &cfg.UpcomingWindow,
		EnvSessionTTL:     &cfg.SessionTTL,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvPassFollowUpDays); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(EnvPassFollowUpDays + ": " + err.Error())
		}
		cfg.PassFollowUpDays = n
	}
	return nil
}
