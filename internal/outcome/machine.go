// Package outcome is the entry outcome state machine.
//
// It is pure: Set and Clear compute the next Outcome variant, Request decides
// which popup (if any) must mediate a transition, and Reduce threads an
// explicit State through actions. Persistence and UI refresh are effects the
// caller runs after a successful Reduce; see services.OutcomeService.
package outcome

import (
	"fmt"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/models"
)

// Set applies target to o.
//
//   - Venduto needs a product and forces presence; it replaces any other kind.
//   - Negativo replaces Venduto but keeps presence.
//   - Miss and Assente replace everything, presence included.
//   - Presentato only records presence; it is rejected on a no-show
//     (Assente, Miss), which must be cleared first.
func Set(o models.Outcome, target models.OutcomeKind, product string) (models.Outcome, error) {
	switch target {
	case models.Venduto:
		if product == "" {
			return o, fmt.Errorf("%w: a sale needs a subscription type", common.ErrUnknownProduct)
		}
		return models.Outcome{Kind: models.Venduto, Presented: true, Product: product}, nil

	case models.Negativo:
		return models.Outcome{Kind: models.Negativo, Presented: o.Has(models.Presentato)}, nil

	case models.Miss:
		return models.Outcome{Kind: models.Miss}, nil

	case models.Assente:
		return models.Outcome{Kind: models.Assente}, nil

	case models.Presentato:
		switch o.Kind {
		case models.Assente, models.Miss:
			return o, fmt.Errorf("%w: cannot record presence on %s", common.ErrInvalidOutcome, o.Kind)
		case models.Negativo, models.Venduto:
			o.Presented = true
			return o, nil
		default:
			return models.Outcome{Kind: models.Presentato, Presented: true}, nil
		}
	}
	return o, fmt.Errorf("%w: %s", common.ErrInvalidOutcome, target)
}

// Clear resets the flag for target back toward Pending. Clearing an inactive
// flag returns o unchanged.
//
// Presence is implied by a sale, so clearing Presentato on a Venduto entry
// drops the sale too. Clearing Venduto or Negativo keeps presence.
func Clear(o models.Outcome, target models.OutcomeKind) models.Outcome {
	if !o.Has(target) {
		return o
	}
	switch target {
	case models.Presentato:
		if o.Kind == models.Negativo {
			return models.Outcome{Kind: models.Negativo}
		}
		return models.Outcome{}
	case models.Venduto, models.Negativo:
		if o.Presented {
			return models.Outcome{Kind: models.Presentato, Presented: true}
		}
		return models.Outcome{}
	default:
		return models.Outcome{}
	}
}

// Request decides how a user intent on entry e must proceed. A nil decision
// with a nil error means the transition can be applied directly (Negativo).
func Request(e models.Entry, target models.OutcomeKind, products []models.TipoAbbonamento) (Decision, error) {
	if target == models.Pending || target > models.Miss || target < models.Pending {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidOutcome, target)
	}
	if e.Section.IsPhoneCall() {
		return nil, fmt.Errorf("%w: phone calls track contact, not outcome", common.ErrInvalidOutcome)
	}
	if e.Outcome.Has(target) {
		return ConfirmClear{Entry: e.ID, Outcome: target}, nil
	}

	switch target {
	case models.Venduto:
		return ChooseSaleType{Entry: e.ID, Options: activeProducts(products)}, nil
	case models.Miss:
		return ConfirmMiss{Entry: e.ID}, nil
	case models.Assente:
		return ConfirmAbsence{Entry: e.ID}, nil
	case models.Presentato:
		if e.Outcome.Kind == models.Assente || e.Outcome.Kind == models.Miss {
			return nil, fmt.Errorf("%w: cannot record presence on %s", common.ErrInvalidOutcome, e.Outcome.Kind)
		}
		return ConfirmPresence{Entry: e.ID}, nil
	default:
		return nil, nil
	}
}

func activeProducts(all []models.TipoAbbonamento) []models.TipoAbbonamento {
	out := make([]models.TipoAbbonamento, 0, len(all))
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}
