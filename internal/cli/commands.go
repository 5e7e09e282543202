package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/frontdesk/internal/messaging"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
)

func (a *App) Today(ctx context.Context) error {
	if err := a.Refresh(ctx); err != nil {
		return a.fail(ctx, "today", err)
	}
	list := a.outcomes.State().Entries
	if len(list) == 0 {
		a.printf("Nessuna voce per oggi\n")
		return nil
	}
	a.printEntries(list)
	return nil
}

func (a *App) Calls(ctx context.Context) error {
	tasks, err := a.reminders.Tasks(ctx)
	if err != nil {
		return a.fail(ctx, "calls", err)
	}
	a.remember(tasks.CallQueue...)
	if len(tasks.CallQueue) == 0 {
		a.printf("Nessuna chiamata oggi\n")
		return nil
	}
	for _, e := range tasks.CallQueue {
		mark := " "
		if e.Contattato {
			mark = "x"
		}
		a.printf("[%s] %s %s %s %s\n", mark, shortID(e.ID), e.EntryTime, e.FullName(), e.Telefono)
	}
	return nil
}

func (a *App) Tasks(ctx context.Context) error {
	tasks, err := a.reminders.Tasks(ctx)
	if err != nil {
		return a.fail(ctx, "tasks", err)
	}
	a.remember(tasks.PendingConfirmation...)
	a.remember(tasks.CallQueue...)
	a.remember(tasks.Absentees...)

	a.printf("Da confermare su WhatsApp: %d\n", len(tasks.PendingConfirmation))
	for _, e := range tasks.PendingConfirmation {
		a.printf("  %s %s %s\n", shortID(e.ID), e.EntryTime, e.FullName())
	}
	pending := 0
	for _, e := range tasks.CallQueue {
		if !e.Contattato {
			pending++
		}
	}
	a.printf("Chiamate da fare: %d di %d\n", pending, len(tasks.CallQueue))
	a.printf("Assenti da recuperare: %d\n", len(tasks.Absentees))
	for _, e := range tasks.Absentees {
		a.printf("  %s %s %s %s\n", shortID(e.ID), e.EntryDate.Format("02/01"), e.FullName(), e.Telefono)
	}
	a.printf("Pass da richiamare: %d\n", tasks.PassFollowUps)
	return nil
}

func (a *App) Contacted(ctx context.Context, ref string) error {
	e, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "contacted", err)
	}
	res, err := a.outcomes.ToggleContacted(ctx, e.ID)
	if err != nil {
		return a.fail(ctx, "contacted", err)
	}
	if res.Entry != nil && res.Entry.Contattato {
		a.printf("%s contattato\n", res.Entry.FullName())
	} else if res.Entry != nil {
		a.printf("%s da contattare\n", res.Entry.FullName())
	}
	return nil
}

func (a *App) WhatsApp(ctx context.Context, ref string) error {
	e, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "whatsapp", err)
	}
	if link, ok := messaging.BuildDeepLink(e.Telefono, messaging.ConfirmationMessage(e)); ok {
		a.printf("%s\n", link)
	} else {
		a.printf("Nessun link WhatsApp per il numero %q\n", e.Telefono)
		mark, err := a.confirm("Segnare comunque come confermato?")
		if err != nil || !mark {
			return err
		}
	}

	sent, err := a.entries.MarkWhatsAppSent(ctx, e.ID)
	if err != nil {
		return a.fail(ctx, "whatsapp", err)
	}
	a.remember(sent)
	return a.Refresh(ctx)
}

func (a *App) Add(ctx context.Context) error {
	names := make([]string, len(models.Sections))
	for i, s := range models.Sections {
		names[i] = string(s)
	}
	idx, err := GetChoice(a.reader, "Sezione", names, a.out)
	if errors.Is(err, ErrNoChoice) {
		return nil
	}
	if err != nil {
		return a.fail(ctx, "add", err)
	}

	e := models.Entry{Section: models.Sections[idx]}
	if err := a.askSlot(&e); err != nil {
		return a.fail(ctx, "add", err)
	}
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Nome", &e.Nome},
		{"Cognome", &e.Cognome},
		{"Telefono", &e.Telefono},
		{"Fonte", &e.Fonte},
		{"Note", &e.Note},
	} {
		if *f.dst, err = a.prompt(f.label); err != nil {
			return a.fail(ctx, "add", err)
		}
	}
	if e.Comeback, err = a.askComeback(false); err != nil {
		return a.fail(ctx, "add", err)
	}
	if e.ConsulenteID, err = a.askConsulente(ctx); err != nil {
		return a.fail(ctx, "add", err)
	}

	created, err := a.entries.Create(ctx, e)
	if err != nil {
		return a.fail(ctx, "add", err)
	}
	a.remember(created)
	a.printf("Creata %s\n", shortID(created.ID))
	return a.Refresh(ctx)
}

// Show prints every field of an entry and its calendar events.
func (a *App) Show(ctx context.Context, ref string) error {
	known, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "show", err)
	}
	e, err := a.entries.Get(ctx, known.ID)
	if err != nil {
		return a.fail(ctx, "show", err)
	}
	events, err := a.entries.Events(ctx, e.ID)
	if err != nil {
		return a.fail(ctx, "show", err)
	}
	a.remember(*e)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", e.ID)
	fmt.Fprintf(tw, "Sezione\t%s\n", e.Section)
	fmt.Fprintf(tw, "Data\t%s %s\n", e.EntryDate.Format("02/01/2006"), e.EntryTime)
	fmt.Fprintf(tw, "Nome\t%s\n", e.FullName())
	fmt.Fprintf(tw, "Telefono\t%s\n", e.Telefono)
	fmt.Fprintf(tw, "Fonte\t%s\n", e.Fonte)
	fmt.Fprintf(tw, "Note\t%s\n", e.Note)
	fmt.Fprintf(tw, "Esito\t%s\n", e.Outcome)
	fmt.Fprintf(tw, "Comeback\t%s\n", yesNoLabel(e.Comeback))
	fmt.Fprintf(tw, "WhatsApp\t%s\n", yesNoLabel(e.WhatsAppSent))
	if e.RescheduledFrom != "" {
		fmt.Fprintf(tw, "Richiamo di\t%s\n", shortID(e.RescheduledFrom))
	}
	tw.Flush()

	for _, ev := range events {
		a.printf("  evento %s %s\n", ev.StartsAt.In(a.deps.Loc).Format("02/01 15:04"), ev.Title)
	}
	return nil
}

// Edit re-reads an entry and asks for each field, keeping the current value
// on an empty answer. '-' clears an optional field.
func (a *App) Edit(ctx context.Context, ref string) error {
	known, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	cur, err := a.entries.Get(ctx, known.ID)
	if err != nil {
		return a.fail(ctx, "edit", err)
	}
	e := *cur
	if err := a.askSlot(&e); err != nil {
		return a.fail(ctx, "edit", err)
	}
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Nome", &e.Nome},
		{"Cognome", &e.Cognome},
		{"Telefono", &e.Telefono},
		{"Fonte", &e.Fonte},
		{"Note", &e.Note},
	} {
		if *f.dst, err = a.askText(f.label, *f.dst); err != nil {
			return a.fail(ctx, "edit", err)
		}
	}
	if e.Comeback, err = a.askComeback(e.Comeback); err != nil {
		return a.fail(ctx, "edit", err)
	}

	if err := a.entries.Update(ctx, e); err != nil {
		return a.fail(ctx, "edit", err)
	}
	a.remember(e)
	a.printf("Aggiornata %s\n", shortID(e.ID))
	return a.Refresh(ctx)
}

func (a *App) Delete(ctx context.Context, ref string) error {
	e, err := a.lookup(ref)
	if err != nil {
		return a.fail(ctx, "delete", err)
	}
	ok, err := a.confirm(fmt.Sprintf("Eliminare %s (%s %s)?", e.FullName(), e.Section, e.EntryTime))
	if err != nil || !ok {
		return err
	}
	if err := a.entries.Delete(ctx, e.ID); err != nil {
		return a.fail(ctx, "delete", err)
	}
	a.mu.Lock()
	delete(a.known, e.ID)
	a.mu.Unlock()
	a.printf("Eliminata %s\n", shortID(e.ID))
	return a.Refresh(ctx)
}

func (a *App) Dismiss(ctx context.Context) error {
	a.mu.Lock()
	id := a.currentCall
	a.mu.Unlock()
	if id == "" {
		a.printf("Nessun promemoria attivo\n")
		return nil
	}
	if err := a.reminders.Dismiss(ctx, id); err != nil {
		return a.fail(ctx, "dismiss", err)
	}
	a.mu.Lock()
	if a.currentCall == id {
		a.currentCall = ""
	}
	a.mu.Unlock()
	return nil
}

// askSlot prompts for the date and time of e. Empty answers keep the current
// values; a zero date becomes today in the service.
func (a *App) askSlot(e *models.Entry) error {
	def := "oggi"
	if !e.EntryDate.IsZero() {
		def = e.EntryDate.Format(timex.DateLayout)
	}
	s, err := a.prompt(fmt.Sprintf("Data AAAA-MM-GG (vuoto = %s)", def))
	if err != nil {
		return err
	}
	if s != "" {
		d, err := timex.ParseDate(s, a.deps.Loc)
		if err != nil {
			return fmt.Errorf("data non valida: %q", s)
		}
		e.EntryDate = d
	}
	label := "Ora HH:MM"
	switch {
	case e.EntryTime != "":
		label += fmt.Sprintf(" (vuoto = %s)", e.EntryTime)
		if e.Section.IsWalkIn() {
			label += " ('-' svuota)"
		}
	case e.Section.IsWalkIn() && e.IsDraft():
		label += " (vuoto = adesso)"
	}
	s, err = a.prompt(label)
	if err != nil {
		return err
	}
	switch {
	case s == "-" && e.Section.IsWalkIn():
		e.EntryTime = ""
	case s != "":
		e.EntryTime = s
	}
	return nil
}

// askText prompts for an optional text field showing its current value.
func (a *App) askText(label, cur string) (string, error) {
	if cur != "" {
		label = fmt.Sprintf("%s [%s] ('-' svuota)", label, cur)
	}
	s, err := a.prompt(label)
	switch {
	case err != nil:
		return cur, err
	case s == "-":
		return "", nil
	case s == "":
		return cur, nil
	default:
		return s, nil
	}
}

func (a *App) askComeback(cur bool) (bool, error) {
	s, err := a.prompt(fmt.Sprintf("Comeback s/n (vuoto = %s)", yesNoLabel(cur)))
	if err != nil {
		return cur, err
	}
	if s == "" {
		return cur, nil
	}
	return isYes(s), nil
}

func yesNoLabel(b bool) string {
	if b {
		return "sì"
	}
	return "no"
}

func (a *App) askConsulente(ctx context.Context) (string, error) {
	all, err := a.entries.Consulenti(ctx)
	if err != nil {
		return "", err
	}
	var active []models.Consulente
	for _, c := range all {
		if c.Active {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return "", nil
	}
	names := make([]string, len(active))
	for i, c := range active {
		names[i] = c.Nome
	}
	idx, err := GetChoice(a.reader, "Consulente (vuoto = nessuno)", names, a.out)
	if errors.Is(err, ErrNoChoice) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return active[idx].ID, nil
}

func (a *App) printEntries(list []models.Entry) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tORA\tSEZIONE\tNOME\tESITO\tWA")
	for _, e := range list {
		state := e.Outcome.String()
		if e.Section.IsPhoneCall() {
			state = "da chiamare"
			if e.Contattato {
				state = "contattato"
			}
		}
		wa := ""
		if e.WhatsAppSent {
			wa = "ok"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID), e.EntryTime, e.Section, e.FullName(), state, wa)
	}
	tw.Flush()
}
