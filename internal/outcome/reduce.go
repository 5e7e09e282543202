package outcome

import (
	"fmt"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/models"
)

// State is the application state of a desk view: the entry list it shows,
// the subscription types offered by the sale popup and the open popup.
type State struct {
	Entries  []models.Entry
	Products []models.TipoAbbonamento
	Pending  Decision
}

// Find returns the entry with id and whether it exists.
func (s State) Find(id string) (models.Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.Entry{}, false
}

// Action is one of RequestOutcome, Resolve, ToggleContacted, Commit.
type Action interface{ isAction() }

// RequestOutcome is the user intent to set (or clear) target on an entry.
type RequestOutcome struct {
	EntryID string
	Target  models.OutcomeKind
}

// Resolve answers the open popup.
type Resolve struct{ Answer Answer }

// ToggleContacted flips Contattato on a phone-call entry.
type ToggleContacted struct{ EntryID string }

// Commit installs a record that was successfully persisted.
type Commit struct{ Entry models.Entry }

func (RequestOutcome) isAction()  {}
func (Resolve) isAction()         {}
func (ToggleContacted) isAction() {}
func (Commit) isAction()          {}

// Effect tells the caller what to run after Reduce.
type Effect struct {
	// Persist is the full record to write; the entry list is only updated
	// by a later Commit.
	Persist *models.Entry
	// Reschedule asks the caller to offer a reschedule of Persist (miss,
	// client not present).
	Reschedule bool
	// Undecided is the miss-popup "client was present" branch: nothing is
	// written and the caller may pick another outcome.
	Undecided bool
	// Cancelled marks a popup closed without a change.
	Cancelled bool
}

// Reduce is the transition function (state, action) -> (state', effect).
// It never mutates s.
func Reduce(s State, a Action) (State, Effect, error) {
	switch act := a.(type) {
	case RequestOutcome:
		return reduceRequest(s, act)
	case Resolve:
		return reduceResolve(s, act)
	case ToggleContacted:
		return reduceContacted(s, act)
	case Commit:
		return reduceCommit(s, act), Effect{}, nil
	}
	return s, Effect{}, fmt.Errorf("unknown action %T", a)
}

func reduceRequest(s State, act RequestOutcome) (State, Effect, error) {
	if s.Pending != nil {
		return s, Effect{}, common.ErrDecisionPending
	}
	e, ok := s.Find(act.EntryID)
	if !ok {
		return s, Effect{}, fmt.Errorf("entry %s: %w", act.EntryID, common.ErrNotFound)
	}

	d, err := Request(e, act.Target, s.Products)
	if err != nil {
		return s, Effect{}, err
	}
	if d != nil {
		next := s
		next.Pending = d
		return next, Effect{}, nil
	}

	// direct transition
	o, err := Set(e.Outcome, act.Target, "")
	if err != nil {
		return s, Effect{}, err
	}
	apply(&e, o)
	return s, Effect{Persist: &e}, nil
}

func reduceResolve(s State, act Resolve) (State, Effect, error) {
	if s.Pending == nil {
		return s, Effect{}, common.ErrNoPendingDecision
	}
	d := s.Pending
	if !d.accepts(act.Answer.Kind) {
		return s, Effect{}, fmt.Errorf("%w: %T cannot take answer %d", common.ErrDecisionMismatch, d, act.Answer.Kind)
	}

	next := s
	next.Pending = nil

	if act.Answer.Kind == AnswerCancel || act.Answer.Kind == AnswerNo {
		return next, Effect{Cancelled: true}, nil
	}

	e, ok := s.Find(d.EntryID())
	if !ok {
		return next, Effect{}, fmt.Errorf("entry %s: %w", d.EntryID(), common.ErrNotFound)
	}

	var (
		o   models.Outcome
		err error
		eff Effect
	)
	switch dec := d.(type) {
	case ConfirmClear:
		o = Clear(e.Outcome, dec.Outcome)

	case ChooseSaleType:
		if !offered(dec.Options, act.Answer.Product) {
			// keep the popup open so the user can pick again
			return s, Effect{}, fmt.Errorf("%w: %q", common.ErrUnknownProduct, act.Answer.Product)
		}
		o, err = Set(e.Outcome, models.Venduto, act.Answer.Product)
		e.TipoAbbonamentoID = act.Answer.Product

	case ConfirmMiss:
		if act.Answer.Kind == AnswerPresent {
			return next, Effect{Undecided: true}, nil
		}
		o, err = Set(e.Outcome, models.Miss, "")
		eff.Reschedule = true

	case ConfirmAbsence:
		o, err = Set(e.Outcome, models.Assente, "")

	case ConfirmPresence:
		o, err = Set(e.Outcome, models.Presentato, "")
	}
	if err != nil {
		return next, Effect{}, err
	}

	apply(&e, o)
	eff.Persist = &e
	return next, eff, nil
}

// apply sets o on e. The subscription type only survives on a sale.
func apply(e *models.Entry, o models.Outcome) {
	e.Outcome = o
	if o.Kind != models.Venduto {
		e.TipoAbbonamentoID = ""
	}
}

func reduceContacted(s State, act ToggleContacted) (State, Effect, error) {
	e, ok := s.Find(act.EntryID)
	if !ok {
		return s, Effect{}, fmt.Errorf("entry %s: %w", act.EntryID, common.ErrNotFound)
	}
	if !e.Section.IsPhoneCall() {
		return s, Effect{}, common.ErrNotPhoneSection
	}
	e.Contattato = !e.Contattato
	return s, Effect{Persist: &e}, nil
}

func reduceCommit(s State, act Commit) State {
	next := s
	next.Entries = make([]models.Entry, len(s.Entries))
	copy(next.Entries, s.Entries)
	for i := range next.Entries {
		if next.Entries[i].ID == act.Entry.ID {
			next.Entries[i] = act.Entry
			return next
		}
	}
	next.Entries = append(next.Entries, act.Entry)
	return next
}

func offered(options []models.TipoAbbonamento, id string) bool {
	for _, p := range options {
		if p.ID == id {
			return true
		}
	}
	return false
}
