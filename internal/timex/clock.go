package timex

import (
	"fmt"
	"time"
)

// Wall-clock and calendar layouts used by entries.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// DefaultLocation is the business timezone.
const DefaultLocation = "Europe/Rome"

// LoadLocation resolves an IANA name, falling back to a fixed CET zone when
// the tz database is not available on the host.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("CET", 1*60*60)
	}
	return loc
}

// Clock supplies the current instant. Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// LocalClock reports time.Now in a fixed location.
type LocalClock struct {
	Loc *time.Location
}

func (c LocalClock) Now() time.Time {
	return time.Now().In(c.Loc)
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// WallClock is a time of day with minute precision.
type WallClock struct {
	Hour, Minute int
}

// ParseWallClock parses "HH:MM" (an optional ":SS" suffix is ignored).
func ParseWallClock(s string) (WallClock, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return WallClock{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return WallClock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustWallClock is ParseWallClock for constants.
func MustWallClock(s string) WallClock {
	w, err := ParseWallClock(s)
	if err != nil {
		panic(err)
	}
	return w
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// Before reports whether w is strictly earlier in the day than o.
func (w WallClock) Before(o WallClock) bool {
	return w.Hour*60+w.Minute < o.Hour*60+o.Minute
}

// On places w on the calendar day of d, in loc.
func (w WallClock) On(d time.Time, loc *time.Location) time.Time {
	d = d.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), w.Hour, w.Minute, 0, 0, loc)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// CompareDays returns -1, 0 or 1 as a's calendar day is before, equal to or
// after b's, both evaluated in loc.
func CompareDays(a, b time.Time, loc *time.Location) int {
	da, db := StartOfDay(a, loc), StartOfDay(b, loc)
	switch {
	case da.Before(db):
		return -1
	case da.After(db):
		return 1
	default:
		return 0
	}
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}
