package outcome

import "github.com/dmitrijs2005/frontdesk/internal/models"

// Decision is a transition suspended until a popup collects input. It is a
// closed set: ConfirmClear, ChooseSaleType, ConfirmMiss, ConfirmAbsence,
// ConfirmPresence.
type Decision interface {
	EntryID() string
	Target() models.OutcomeKind
	accepts(AnswerKind) bool
}

// ConfirmClear asks "remove this outcome?".
type ConfirmClear struct {
	Entry   string
	Outcome models.OutcomeKind
}

// ChooseSaleType asks which subscription was sold.
type ChooseSaleType struct {
	Entry   string
	Options []models.TipoAbbonamento
}

// ConfirmMiss asks "was the client actually present?".
type ConfirmMiss struct{ Entry string }

// ConfirmAbsence asks to confirm a no-show.
type ConfirmAbsence struct{ Entry string }

// ConfirmPresence asks to confirm physical presence.
type ConfirmPresence struct{ Entry string }

func (d ConfirmClear) EntryID() string    { return d.Entry }
func (d ChooseSaleType) EntryID() string  { return d.Entry }
func (d ConfirmMiss) EntryID() string     { return d.Entry }
func (d ConfirmAbsence) EntryID() string  { return d.Entry }
func (d ConfirmPresence) EntryID() string { return d.Entry }

func (d ConfirmClear) Target() models.OutcomeKind    { return d.Outcome }
func (d ChooseSaleType) Target() models.OutcomeKind  { return models.Venduto }
func (d ConfirmMiss) Target() models.OutcomeKind     { return models.Miss }
func (d ConfirmAbsence) Target() models.OutcomeKind  { return models.Assente }
func (d ConfirmPresence) Target() models.OutcomeKind { return models.Presentato }

func (ConfirmClear) accepts(k AnswerKind) bool    { return isYesNo(k) }
func (ConfirmAbsence) accepts(k AnswerKind) bool  { return isYesNo(k) }
func (ConfirmPresence) accepts(k AnswerKind) bool { return isYesNo(k) }
func (ChooseSaleType) accepts(k AnswerKind) bool {
	return k == AnswerProduct || k == AnswerCancel
}
func (ConfirmMiss) accepts(k AnswerKind) bool {
	return k == AnswerPresent || k == AnswerNotPresent || k == AnswerCancel
}

func isYesNo(k AnswerKind) bool {
	return k == AnswerYes || k == AnswerNo || k == AnswerCancel
}

// AnswerKind tags what the popup returned.
type AnswerKind int

const (
	AnswerCancel AnswerKind = iota
	AnswerYes
	AnswerNo
	AnswerProduct
	AnswerPresent
	AnswerNotPresent
)

// Answer is the input collected by a popup.
type Answer struct {
	Kind    AnswerKind
	Product string
}

func Cancel() Answer           { return Answer{Kind: AnswerCancel} }
func Yes() Answer              { return Answer{Kind: AnswerYes} }
func No() Answer               { return Answer{Kind: AnswerNo} }
func Product(id string) Answer { return Answer{Kind: AnswerProduct, Product: id} }
func WasPresent() Answer       { return Answer{Kind: AnswerPresent} }
func NotPresent() Answer       { return Answer{Kind: AnswerNotPresent} }
