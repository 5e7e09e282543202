package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-d string   database DSN (SQLite path or postgres:// URL)
//	-l string   business timezone
//	-r string   redis address for shared dismissals
//	-m string   metrics listen address
//	-t int      reminder tick interval in seconds
//	-v string   log level
//
// Unknown arguments are filtered out first with flagx.FilterArgs. Invalid
// values panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-r", "-m", "-t", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.Location, "l", cfg.Location, "business timezone")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for shared dismissals")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	tick := fs.Int("t", int(cfg.TickInterval.Seconds()), "reminder tick interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TickInterval = time.Duration(*tick) * time.Second
}
