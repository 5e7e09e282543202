package models

import "time"

// Entry is one scheduled or logged interaction with a client.
type Entry struct {
	// ID is empty for unsaved drafts.
	ID string

	Section Section
	// EntryDate is the calendar day at midnight in the business location.
	EntryDate time.Time
	// EntryTime is "HH:MM" or empty.
	EntryTime string
	// CreatedAt is assigned by the store and drives the cutoff rules.
	CreatedAt time.Time

	Nome     string
	Cognome  string
	Telefono string

	// ConsulenteID and TipoAbbonamentoID are empty when unset.
	ConsulenteID      string
	TipoAbbonamentoID string
	Fonte             string

	Outcome Outcome
	// Contattato is only meaningful for phone-call entries.
	Contattato bool

	WhatsAppSent     bool
	WhatsAppSentDate *time.Time
	Comeback         bool
	Note             string

	// RescheduledFrom links a derived entry to its source.
	RescheduledFrom string
}

// FullName joins nome and cognome for display.
func (e Entry) FullName() string {
	switch {
	case e.Nome == "":
		return e.Cognome
	case e.Cognome == "":
		return e.Nome
	default:
		return e.Nome + " " + e.Cognome
	}
}

// IsDraft reports whether e has never been persisted.
func (e Entry) IsDraft() bool { return e.ID == "" }
