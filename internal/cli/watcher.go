package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/reminders"
)

// StartReminderWatcher ticks the reminder service every interval and prints
// upcoming-call interrupts. The returned function stops it; a non-positive
// interval disables the watcher.
func (a *App) StartReminderWatcher(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}
	return reminders.NewWatcher(interval, a.tick, a.logger).Start(ctx)
}

func (a *App) tick(ctx context.Context) error {
	// keeps the bucket gauges current
	if _, err := a.reminders.Tasks(ctx); err != nil {
		return err
	}
	e, fired, err := a.reminders.Tick(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.currentCall = a.reminders.Current()
	a.mu.Unlock()
	if !fired {
		return nil
	}
	a.remember(e)
	bell := ""
	if a.interactive {
		bell = "\a"
	}
	a.printf("%s\n>>> Chiamata alle %s: %s %s [%s] ('dismiss' per chiudere)\n",
		bell, e.EntryTime, e.FullName(), e.Telefono, shortID(e.ID))
	return nil
}
