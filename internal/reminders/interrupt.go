package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
)

// Interrupter decides when the upcoming-call popup is shown.
//
// At most one call is current. A call fires once when it becomes current and
// does not fire again while it stays current. Dismissing it is remembered by
// the DismissalStore, and the next distinct qualifying call becomes current
// on a later Check. Completed calls never qualify.
type Interrupter struct {
	rules     Rules
	dismissed DismissalStore

	mu      sync.Mutex
	current string
}

func NewInterrupter(rules Rules, dismissed DismissalStore) *Interrupter {
	return &Interrupter{rules: rules, dismissed: dismissed}
}

// Check inspects the call queue at now. It returns the call to show and true
// only when a call newly becomes current.
func (i *Interrupter) Check(ctx context.Context, queue []models.Entry, now time.Time) (models.Entry, bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	next, found, err := i.candidate(ctx, queue, now)
	if err != nil {
		return models.Entry{}, false, err
	}
	if !found {
		i.current = ""
		return models.Entry{}, false, nil
	}
	if next.ID == i.current {
		return models.Entry{}, false, nil
	}
	i.current = next.ID
	return next, true, nil
}

// Dismiss closes the current popup for entryID for the rest of the session.
func (i *Interrupter) Dismiss(ctx context.Context, entryID string) error {
	if err := i.dismissed.Dismiss(ctx, entryID); err != nil {
		return err
	}
	i.mu.Lock()
	if i.current == entryID {
		i.current = ""
	}
	i.mu.Unlock()
	return nil
}

// Current returns the id of the call being shown, if any.
func (i *Interrupter) Current() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current
}

func (i *Interrupter) candidate(ctx context.Context, queue []models.Entry, now time.Time) (models.Entry, bool, error) {
	for _, e := range queue {
		if e.Contattato || !i.rules.Upcoming(e, now) {
			continue
		}
		gone, err := i.dismissed.IsDismissed(ctx, e.ID)
		if err != nil {
			return models.Entry{}, false, err
		}
		if !gone {
			return e, true, nil
		}
	}
	return models.Entry{}, false, nil
}

// Upcoming reports whether call e starts between now and now+UpcomingWindow.
func (r Rules) Upcoming(e models.Entry, now time.Time) bool {
	at, err := timex.ParseWallClock(e.EntryTime)
	if err != nil {
		return false
	}
	until := at.On(e.EntryDate, r.Loc).Sub(now)
	return until >= 0 && until <= r.UpcomingWindow
}
