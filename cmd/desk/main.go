// Command desk runs the interactive front desk.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/cli"
	"github.com/dmitrijs2005/frontdesk/internal/config"
	"github.com/dmitrijs2005/frontdesk/internal/logging"
	"github.com/dmitrijs2005/frontdesk/internal/metrics"
	"github.com/dmitrijs2005/frontdesk/internal/reminders"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repomanager"
	"github.com/dmitrijs2005/frontdesk/internal/services"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "desk stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	initSignalHandler(cancel)

	loc := timex.LoadLocation(cfg.Location)

	db, repos, err := repomanager.Open(ctx, cfg.DatabaseDSN, loc)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()
	logger.Info(ctx, "store ready", "dialect", repos.Dialect().Name)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	dismissals, closeDismissals, err := openDismissals(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDismissals()

	var wg sync.WaitGroup
	if cfg.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveMetrics(ctx, cfg.MetricsAddr, m, logger)
		}()
	}

	rules := reminders.Rules{
		Loc:                loc,
		Cutoff:             timex.MustWallClock(cfg.Cutoff),
		UpcomingWindow:     cfg.UpcomingWindow,
		ExcludedNoteMarker: cfg.ExcludedNoteMarker,
	}
	deps := services.Deps{
		DB:      db,
		Repos:   repos,
		Clock:   timex.LocalClock{Loc: loc},
		Loc:     loc,
		Logger:  logger,
		Metrics: m,
	}
	app := cli.NewApp(deps, cli.Options{
		Rules:            rules,
		Dismissals:       dismissals,
		PassFollowUpDays: cfg.PassFollowUpDays,
		TickInterval:     cfg.TickInterval,
	})

	err = app.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

func initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
		// unblocks the pending REPL read
		_ = os.Stdin.Close()
	}()
}

// openDismissals returns the redis-backed store when configured, scoped to a
// fresh session id, and the in-memory store otherwise.
func openDismissals(ctx context.Context, cfg *config.Config, logger logging.Logger) (reminders.DismissalStore, func(), error) {
	if cfg.RedisAddr == "" {
		return reminders.NewMemoryDismissals(), func() {}, nil
	}
	client, err := reminders.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("redis init error: %w", err)
	}
	session := uuid.NewString()
	logger.Info(ctx, "dismissals shared via redis", "addr", cfg.RedisAddr, "session", session)
	return reminders.NewRedisDismissals(client, session, cfg.SessionTTL), func() { _ = client.Close() }, nil
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "metrics server failed", "error", err)
	}
}
