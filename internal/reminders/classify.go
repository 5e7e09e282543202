// Package reminders classifies entry snapshots into the desk task buckets and
// drives the upcoming-call interrupt.
//
// Every cutoff in this package is a single wall-clock boundary (06:30 by
// default) separating what was known before opening from what arose during
// the business day.
package reminders

import (
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
)

// DefaultCutoff is the opening boundary.
var DefaultCutoff = timex.MustWallClock("06:30")

// Defaults for the interrupt window and the excluded-from-recovery note marker.
const (
	DefaultUpcomingWindow     = 10 * time.Minute
	DefaultExcludedNoteMarker = "[NO RECUPERO]"
)

// Rules parameterise classification.
type Rules struct {
	Loc            *time.Location
	Cutoff         timex.WallClock
	UpcomingWindow time.Duration
	// ExcludedNoteMarker removes an absentee from recovery when found in its
	// note, case-insensitively.
	ExcludedNoteMarker string
}

// DefaultRules returns the standard rules in loc.
func DefaultRules(loc *time.Location) Rules {
	return Rules{
		Loc:                loc,
		Cutoff:             DefaultCutoff,
		UpcomingWindow:     DefaultUpcomingWindow,
		ExcludedNoteMarker: DefaultExcludedNoteMarker,
	}
}

// Buckets is one classification result.
type Buckets struct {
	// PendingConfirmation are today's appointments still waiting for a
	// WhatsApp confirmation.
	PendingConfirmation []models.Entry
	// CallQueue are today's phone calls by entry time; contacted calls stay
	// in the queue.
	CallQueue []models.Entry
	// Absentees are no-shows eligible for recovery.
	Absentees []models.Entry
}

// Classify splits today's snapshot and the historical snapshot into buckets
// as of now.
func (r Rules) Classify(today, history []models.Entry, now time.Time) Buckets {
	var b Buckets
	for _, e := range today {
		if !timex.SameDay(e.EntryDate, now, r.Loc) {
			continue
		}
		if r.NeedsConfirmation(e) {
			b.PendingConfirmation = append(b.PendingConfirmation, e)
		}
		if e.Section.IsPhoneCall() {
			b.CallQueue = append(b.CallQueue, e)
		}
	}
	sortByTime(b.CallQueue)

	for _, e := range history {
		if r.NeedsRecovery(e, now) {
			b.Absentees = append(b.Absentees, e)
		}
	}
	return b
}

// NeedsConfirmation reports whether e belongs to the confirmation bucket of
// its own day: an appointment (not a walk-in nor a call), not yet confirmed,
// created before the cutoff of its entry date.
func (r Rules) NeedsConfirmation(e models.Entry) bool {
	if e.Section.IsWalkIn() || e.Section.IsPhoneCall() || e.WhatsAppSent {
		return false
	}
	return e.CreatedAt.Before(r.Cutoff.On(e.EntryDate, r.Loc))
}

// NeedsRecovery reports whether e is an absentee to recover as of now.
//
// Past days are always included. An entry dated today is included only when
// both its creation and its scheduled time precede the cutoff.
func (r Rules) NeedsRecovery(e models.Entry, now time.Time) bool {
	if e.Outcome.Kind != models.Assente {
		return false
	}
	if r.ExcludedNoteMarker != "" &&
		strings.Contains(strings.ToUpper(e.Note), strings.ToUpper(r.ExcludedNoteMarker)) {
		return false
	}

	switch timex.CompareDays(e.EntryDate, now, r.Loc) {
	case -1:
		return true
	case 0:
		if !e.CreatedAt.Before(r.Cutoff.On(e.EntryDate, r.Loc)) {
			return false
		}
		at, err := timex.ParseWallClock(e.EntryTime)
		if err != nil {
			return false
		}
		return at.Before(r.Cutoff)
	default:
		return false
	}
}

// sortByTime orders calls by entry time; calls without a usable time go last.
func sortByTime(calls []models.Entry) {
	sort.SliceStable(calls, func(i, j int) bool {
		a, errA := timex.ParseWallClock(calls[i].EntryTime)
		b, errB := timex.ParseWallClock(calls[j].EntryTime)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a.Before(b)
		}
	})
}
