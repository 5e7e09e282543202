// Package models defines the front desk data model: entries and their
// outcome, sections, lookups, lead passes and calendar events.
package models

// Section is the fixed appointment-category enumeration.
type Section string

const (
	SectionAppuntamenti Section = "APPUNTAMENTI (Pianificazione)"
	SectionConsulenze   Section = "CONSULENZE"
	SectionRinnovi      Section = "RINNOVI"
	SectionPass         Section = "PASS OMAGGIO"
	SectionTelefonate   Section = "TELEFONATE"
	SectionTour         Section = "TOUR SPONTANEI"
)

// Sections lists every known section in display order.
var Sections = []Section{
	SectionAppuntamenti,
	SectionConsulenze,
	SectionRinnovi,
	SectionPass,
	SectionTelefonate,
	SectionTour,
}

// Valid reports whether s is one of Sections.
func (s Section) Valid() bool {
	for _, x := range Sections {
		if x == s {
			return true
		}
	}
	return false
}

// IsPhoneCall reports the phone-call category, which tracks Contattato
// instead of the outcome set.
func (s Section) IsPhoneCall() bool { return s == SectionTelefonate }

// IsWalkIn reports the walk-in category, where entry time defaults to now.
func (s Section) IsWalkIn() bool { return s == SectionTour }

// RequiresTime reports whether an entry in s must carry an entry time.
func (s Section) RequiresTime() bool { return !s.IsWalkIn() }
