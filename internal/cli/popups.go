package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/derive"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/outcome"
	"github.com/dmitrijs2005/frontdesk/internal/services"
)

// Outcome requests target on the entry and walks the operator through the
// popups the transition needs.
func (a *App) Outcome(ctx context.Context, ref, target string) error {
	kind, ok := models.ParseOutcomeKind(strings.ToLower(target))
	if !ok || kind == models.Pending {
		return a.fail(ctx, "outcome", fmt.Errorf("%w: %q", common.ErrInvalidOutcome, target))
	}
	e, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "outcome", err)
	}
	res, err := a.outcomes.Request(ctx, e.ID, kind)
	if err != nil {
		return a.fail(ctx, "outcome", err)
	}
	return a.settle(ctx, res)
}

// settle answers popups until none is open and reports the result.
func (a *App) settle(ctx context.Context, res services.Result) error {
	for res.Pending != nil {
		answer, err := a.ask(res.Pending)
		if err != nil {
			a.cancelOpen(ctx)
			return a.fail(ctx, "outcome", err)
		}
		res, err = a.outcomes.Resolve(ctx, answer)
		if errors.Is(err, common.ErrUnknownProduct) {
			a.printf("Tipo abbonamento non disponibile, riprova\n")
			continue
		}
		if err != nil {
			a.cancelOpen(ctx)
			return a.fail(ctx, "outcome", err)
		}
	}

	switch {
	case res.Cancelled:
		a.printf("Nessuna modifica\n")
	case res.Undecided:
		a.printf("Esito non impostato: scegli un altro esito\n")
	case res.Entry != nil:
		a.remember(*res.Entry)
		a.printf("%s: %s\n", res.Entry.FullName(), res.Entry.Outcome)
	}
	if res.Reschedule != nil {
		return a.offerReschedule(ctx, *res.Reschedule)
	}
	return nil
}

// cancelOpen closes a popup left open by a failed prompt.
func (a *App) cancelOpen(ctx context.Context) {
	if a.outcomes.State().Pending != nil {
		_, _ = a.outcomes.Resolve(ctx, outcome.Cancel())
	}
}

// ask renders one popup as a terminal prompt.
func (a *App) ask(d outcome.Decision) (outcome.Answer, error) {
	switch d := d.(type) {
	case outcome.ConfirmClear:
		return a.yesNo(fmt.Sprintf("Rimuovere l'esito %s?", d.Outcome))

	case outcome.ChooseSaleType:
		if len(d.Options) == 0 {
			a.printf("Nessun tipo abbonamento attivo\n")
			return outcome.Cancel(), nil
		}
		names := make([]string, len(d.Options))
		for i, p := range d.Options {
			names[i] = p.Nome
		}
		idx, err := GetChoice(a.reader, "Tipo abbonamento venduto (vuoto = annulla)", names, a.out)
		if errors.Is(err, ErrNoChoice) {
			return outcome.Cancel(), nil
		}
		if err != nil {
			return outcome.Answer{}, err
		}
		return outcome.Product(d.Options[idx].ID), nil

	case outcome.ConfirmMiss:
		s, err := a.prompt("Il cliente era presente? (s = presente, n = non presente, vuoto = annulla)")
		if err != nil {
			return outcome.Answer{}, err
		}
		switch strings.ToLower(s) {
		case "s", "si", "sì", "y", "yes":
			return outcome.WasPresent(), nil
		case "n", "no":
			return outcome.NotPresent(), nil
		default:
			return outcome.Cancel(), nil
		}

	case outcome.ConfirmAbsence:
		return a.yesNo("Confermi che il cliente non si è presentato?")

	case outcome.ConfirmPresence:
		return a.yesNo("Confermi che il cliente si è presentato?")
	}
	return outcome.Answer{}, fmt.Errorf("unsupported popup %T", d)
}

func (a *App) yesNo(question string) (outcome.Answer, error) {
	ok, err := a.confirm(question)
	if err != nil {
		return outcome.Answer{}, err
	}
	if ok {
		return outcome.Yes(), nil
	}
	return outcome.No(), nil
}

func (a *App) offerReschedule(ctx context.Context, d derive.Draft) error {
	ok, err := a.confirm(fmt.Sprintf("Riprogrammare %s?", d.Source.FullName()))
	if err != nil || !ok {
		return err
	}
	return a.saveDraft(ctx, d, false)
}

// Duplicate copies an entry to a new slot, optionally into another section.
func (a *App) Duplicate(ctx context.Context, ref string) error {
	src, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "duplicate", err)
	}
	opts := derive.Options{TargetDate: src.EntryDate}
	if opts.CopyCognome, err = a.confirm("Copiare il cognome?"); err != nil {
		return a.fail(ctx, "duplicate", err)
	}
	if opts.CopyTelefono, err = a.confirm("Copiare il telefono?"); err != nil {
		return a.fail(ctx, "duplicate", err)
	}
	return a.saveDraft(ctx, derive.From(src, derive.Duplicate, opts, a.deps.Loc), true)
}

// Reschedule derives a follow-up from an absentee or a miss.
func (a *App) Reschedule(ctx context.Context, ref string) error {
	src, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "reschedule", err)
	}
	var d derive.Draft
	switch src.Outcome.Kind {
	case models.Assente:
		d = derive.From(src, derive.RescheduleFromAbsentee, derive.Options{
			TargetDate:   a.deps.Clock.Now(),
			CopyCognome:  true,
			CopyTelefono: true,
		}, a.deps.Loc)
	case models.Miss:
		d = derive.FromMiss(src, a.deps.Clock.Now(), a.deps.Loc)
	default:
		return a.fail(ctx, "reschedule",
			fmt.Errorf("%w: solo assenti o miss si riprogrammano", common.ErrValidation))
	}
	return a.saveDraft(ctx, d, false)
}

func (a *App) saveDraft(ctx context.Context, d derive.Draft, askSection bool) error {
	if askSection {
		names := make([]string, len(models.Sections))
		for i, s := range models.Sections {
			names[i] = string(s)
		}
		idx, err := GetChoice(a.reader, fmt.Sprintf("Sezione (vuoto = %s)", d.Entry.Section), names, a.out)
		switch {
		case errors.Is(err, ErrNoChoice):
		case err != nil:
			return a.fail(ctx, d.Variant.String(), err)
		default:
			d.Entry.Section = models.Sections[idx]
		}
	}
	if err := a.askSlot(&d.Entry); err != nil {
		return a.fail(ctx, d.Variant.String(), err)
	}
	if _, err := a.entries.SaveDraft(ctx, d); err != nil {
		return a.fail(ctx, d.Variant.String(), err)
	}
	return a.Refresh(ctx)
}
