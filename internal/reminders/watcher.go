package reminders

import (
	"context"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/logging"
)

// Watcher runs a tick function on a fixed interval until its context is
// cancelled. It owns the ticker, so stopping the context releases it.
type Watcher struct {
	interval time.Duration
	tick     func(ctx context.Context) error
	logger   logging.Logger
}

func NewWatcher(interval time.Duration, tick func(ctx context.Context) error, logger logging.Logger) *Watcher {
	return &Watcher{interval: interval, tick: tick, logger: logger}
}

// Run ticks once immediately and then every interval. It blocks until ctx is
// done. Tick errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Start runs the watcher in a goroutine and returns a stop function that
// cancels it and waits for it to exit.
func (w *Watcher) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if err := w.tick(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn(ctx, "reminder tick failed", "error", err)
	}
}
