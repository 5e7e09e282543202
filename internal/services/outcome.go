package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/derive"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/outcome"
)

// Result reports what a coordinator call produced.
type Result struct {
	// Pending is the popup to show next, nil when none.
	Pending outcome.Decision
	// Entry is the record that was persisted and committed, nil when none.
	Entry *models.Entry
	// Reschedule is the draft offered after a confirmed miss.
	Reschedule *derive.Draft
	// Undecided is the miss popup's "client was present" branch.
	Undecided bool
	// Cancelled means the popup closed without a change.
	Cancelled bool
}

// OutcomeService is the popup/confirmation coordinator. It owns the desk
// state and runs outcome.Reduce, persisting every effect before committing
// it to the entry list.
type OutcomeService interface {
	// Load replaces the entry list and product list, dropping any open popup.
	Load(entries []models.Entry, products []models.TipoAbbonamento)
	State() outcome.State
	Request(ctx context.Context, entryID string, target models.OutcomeKind) (Result, error)
	Resolve(ctx context.Context, answer outcome.Answer) (Result, error)
	ToggleContacted(ctx context.Context, entryID string) (Result, error)
}

type outcomeService struct {
	Deps
	onRefresh func(ctx context.Context)

	mu    sync.Mutex
	state outcome.State
}

// NewOutcomeService returns the coordinator. onRefresh, when not nil, runs
// after every persisted transition.
func NewOutcomeService(deps Deps, onRefresh func(ctx context.Context)) OutcomeService {
	deps.Logger = deps.Logger.With("module", "outcome")
	return &outcomeService{Deps: deps, onRefresh: onRefresh}
}

func (s *outcomeService) Load(entries []models.Entry, products []models.TipoAbbonamento) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = outcome.State{Entries: entries, Products: products}
}

func (s *outcomeService) State() outcome.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *outcomeService) Request(ctx context.Context, entryID string, target models.OutcomeKind) (Result, error) {
	return s.dispatch(ctx, outcome.RequestOutcome{EntryID: entryID, Target: target})
}

func (s *outcomeService) Resolve(ctx context.Context, answer outcome.Answer) (Result, error) {
	return s.dispatch(ctx, outcome.Resolve{Answer: answer})
}

func (s *outcomeService) ToggleContacted(ctx context.Context, entryID string) (Result, error) {
	return s.dispatch(ctx, outcome.ToggleContacted{EntryID: entryID})
}

func (s *outcomeService) dispatch(ctx context.Context, action outcome.Action) (Result, error) {
	res, persisted, err := s.step(ctx, action)
	if err != nil {
		return res, err
	}
	if persisted && s.onRefresh != nil {
		s.onRefresh(ctx)
	}
	return res, nil
}

// step runs one action under the lock. It reports whether a record was
// persisted.
func (s *outcomeService) step(ctx context.Context, action outcome.Action) (Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target models.OutcomeKind
	if s.state.Pending != nil {
		target = s.state.Pending.Target()
	}

	next, eff, err := outcome.Reduce(s.state, action)
	if err != nil {
		s.Logger.Warn(ctx, "transition rejected", "action", fmt.Sprintf("%T", action), "error", err)
		return Result{Pending: s.state.Pending}, false, err
	}
	s.state = next

	res := Result{Pending: next.Pending, Undecided: eff.Undecided, Cancelled: eff.Cancelled}
	if eff.Cancelled {
		s.Metrics.Cancelled(target.String())
	}
	if eff.Persist == nil {
		return res, false, nil
	}

	rec := *eff.Persist
	if err := s.Repos.Entries(s.DB).Update(ctx, rec.ID, &rec); err != nil {
		s.Metrics.StoreError("update")
		s.Logger.Error(ctx, "store operation failed", "entry_id", rec.ID, "action", "update", "error", err)
		return res, false, fmt.Errorf("%w: update: %w", common.ErrStore, err)
	}

	s.state, _, _ = outcome.Reduce(s.state, outcome.Commit{Entry: rec})
	s.Metrics.Transition(rec.Outcome.Kind.String())
	s.Logger.Info(ctx, "outcome persisted",
		"entry_id", rec.ID, "outcome", rec.Outcome.String(), "contattato", rec.Contattato)

	res.Entry = &rec
	if eff.Reschedule {
		d := derive.FromMiss(rec, s.Clock.Now(), s.Loc)
		res.Reschedule = &d
	}
	return res, true, nil
}
