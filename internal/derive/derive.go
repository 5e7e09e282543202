// Package derive builds new entry drafts from existing entries: plain
// duplicates and the two reschedule flows (from an absentee, from a miss).
//
// Derivation is pure. A draft never inherits the outcome, contact state or
// WhatsApp tracking of its source. The only source mutation, the absentee to
// miss conversion, is described by Draft.SourceUpdate and applied by the
// caller once the draft has been saved.
package derive

import (
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
)

// Variant selects the derivation flow.
type Variant int

const (
	Duplicate Variant = iota
	RescheduleFromAbsentee
	RescheduleFromMiss
)

func (v Variant) String() string {
	switch v {
	case Duplicate:
		return "duplicate"
	case RescheduleFromAbsentee:
		return "reschedule-absentee"
	case RescheduleFromMiss:
		return "reschedule-miss"
	}
	return "unknown"
}

// Options are the caller-supplied target values of a derivation.
type Options struct {
	// TargetSection defaults to the source section when empty.
	TargetSection models.Section
	// TargetDate is truncated to the calendar day. A zero date stays zero
	// and is defaulted when the draft is saved.
	TargetDate time.Time
	// TargetTime is usually left empty so the operator has to enter it.
	TargetTime string

	CopyCognome  bool
	CopyTelefono bool
}

// Draft is an unsaved entry together with the source it came from.
type Draft struct {
	Variant Variant
	Entry   models.Entry
	Source  models.Entry
}

// From derives a draft from src.
func From(src models.Entry, v Variant, opts Options, loc *time.Location) Draft {
	section := opts.TargetSection
	if section == "" {
		section = src.Section
	}

	date := opts.TargetDate
	if !date.IsZero() {
		date = timex.StartOfDay(date, loc)
	}

	e := models.Entry{
		Section:   section,
		EntryDate: date,
		EntryTime: opts.TargetTime,

		Nome:         src.Nome,
		ConsulenteID: src.ConsulenteID,
		Fonte:        src.Fonte,
	}
	if opts.CopyCognome {
		e.Cognome = src.Cognome
	}
	if opts.CopyTelefono {
		e.Telefono = src.Telefono
	}
	if v != Duplicate {
		e.RescheduledFrom = src.ID
	}

	return Draft{Variant: v, Entry: e, Source: src}
}

// FromMiss opens the reschedule draft offered after a confirmed miss: same
// section and contact, targeting today, time left empty.
func FromMiss(src models.Entry, today time.Time, loc *time.Location) Draft {
	return From(src, RescheduleFromMiss, Options{
		TargetDate:   today,
		CopyCognome:  true,
		CopyTelefono: true,
	}, loc)
}

// SourceUpdate returns the source record to persist after the draft is saved,
// and false when the source must be left alone.
//
// Rescheduling an absentee records the conversion on the source: assente is
// cleared and miss is set. A source that is no longer assente is left
// unchanged.
func (d Draft) SourceUpdate() (models.Entry, bool) {
	if d.Variant != RescheduleFromAbsentee || d.Source.Outcome.Kind != models.Assente {
		return models.Entry{}, false
	}
	src := d.Source
	src.Outcome = models.Outcome{Kind: models.Miss}
	return src, true
}

// EventTitle is the title of the calendar event created for a saved
// reschedule. It names the source client in full; the draft name is used
// when the source has none.
func (d Draft) EventTitle() string {
	name := d.Source.FullName()
	if name == "" {
		name = d.Entry.FullName()
	}
	return "Richiamo: " + name
}
