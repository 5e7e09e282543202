package cli

import "context"

// AddPass records a trial pass handed out today.
func (a *App) AddPass(ctx context.Context) error {
	nome, err := a.prompt("Nome")
	if err != nil {
		return a.fail(ctx, "pass", err)
	}
	telefono, err := a.prompt("Telefono")
	if err != nil {
		return a.fail(ctx, "pass", err)
	}
	p, err := a.passes.Add(ctx, nome, telefono)
	if err != nil {
		return a.fail(ctx, "pass", err)
	}
	a.mu.Lock()
	a.knownPasses[p.ID] = p
	a.mu.Unlock()
	a.printf("Pass consegnato a %s [%s]\n", p.Nome, shortID(p.ID))
	return nil
}

// Passes lists the passes waiting for a follow-up call.
func (a *App) Passes(ctx context.Context) error {
	list, err := a.passes.PendingFollowUps(ctx)
	if err != nil {
		return a.fail(ctx, "passes", err)
	}
	a.mu.Lock()
	for _, p := range list {
		a.knownPasses[p.ID] = p
	}
	a.mu.Unlock()
	if len(list) == 0 {
		a.printf("Nessun pass da richiamare\n")
		return nil
	}
	for _, p := range list {
		a.printf("  %s %s %s %s\n", shortID(p.ID), p.DeliveredOn.Format("02/01"), p.Nome, p.Telefono)
	}
	return nil
}

func (a *App) FollowUp(ctx context.Context, ref string) error {
	p, err := a.lookupPass(ref)
	if err != nil {
		return a.fail(ctx, "followup", err)
	}
	if err := a.passes.MarkFollowUpSent(ctx, p.ID); err != nil {
		return a.fail(ctx, "followup", err)
	}
	a.mu.Lock()
	delete(a.knownPasses, p.ID)
	a.mu.Unlock()
	a.printf("Pass di %s richiamato\n", p.Nome)
	return nil
}
