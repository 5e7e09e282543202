package models

import "time"

// Consulente is a staff member entries can be assigned to.
type Consulente struct {
	ID     string
	Nome   string
	Active bool
}

// TipoAbbonamento is a subscription product offered in the sale popup.
type TipoAbbonamento struct {
	ID     string
	Nome   string
	Active bool
}

// Pass is a trial pass handed to a lead. It lives in its own table and only
// feeds the follow-up counter.
type Pass struct {
	ID             string
	Nome           string
	Telefono       string
	DeliveredOn    time.Time
	ActivatedOn    *time.Time
	FollowUpSentOn *time.Time
}

// CalendarEvent is a calendar-like record created when a rescheduled entry is
// saved. It is deleted together with its entry.
type CalendarEvent struct {
	ID       string
	EntryID  string
	Title    string
	StartsAt time.Time
}
