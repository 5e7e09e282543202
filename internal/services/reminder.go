package services

import (
	"context"

	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/reminders"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/entries"
)

// Tasks is the full reminder view at one refresh.
type Tasks struct {
	reminders.Buckets
	PassFollowUps int
}

type ReminderService interface {
	// Tasks fetches today's and the historical absentee snapshots and
	// classifies them.
	Tasks(ctx context.Context) (Tasks, error)
	// Tick recomputes now against today's call queue and returns the call
	// to interrupt with, if one newly became current.
	Tick(ctx context.Context) (models.Entry, bool, error)
	// Dismiss closes the call reminder for the rest of the session.
	Dismiss(ctx context.Context, entryID string) error
	// Current returns the id of the call being shown, or "" once it was
	// contacted, dismissed or left the window.
	Current() string
}

type reminderService struct {
	Deps
	rules            reminders.Rules
	interrupter      *reminders.Interrupter
	passFollowUpDays int
}

func NewReminderService(deps Deps, rules reminders.Rules, dismissals reminders.DismissalStore, passFollowUpDays int) ReminderService {
	deps.Logger = deps.Logger.With("module", "reminders")
	return &reminderService{
		Deps:             deps,
		rules:            rules,
		interrupter:      reminders.NewInterrupter(rules, dismissals),
		passFollowUpDays: passFollowUpDays,
	}
}

func (s *reminderService) Tasks(ctx context.Context) (Tasks, error) {
	now := s.Clock.Now()
	today := s.today()
	repo := s.Repos.Entries(s.DB)

	todays, err := repo.Query(ctx, entries.Filter{Date: &today})
	if err != nil {
		return Tasks{}, s.storeErr(ctx, "query", err)
	}
	absent := true
	history, err := repo.Query(ctx, entries.Filter{DateTo: &today, Assente: &absent})
	if err != nil {
		return Tasks{}, s.storeErr(ctx, "query", err)
	}

	cutoff := today.AddDate(0, 0, -s.passFollowUpDays)
	passes, err := s.Repos.Passes(s.DB).CountPendingFollowUps(ctx, cutoff)
	if err != nil {
		return Tasks{}, s.storeErr(ctx, "passes", err)
	}

	t := Tasks{Buckets: s.rules.Classify(todays, history, now), PassFollowUps: passes}
	s.Metrics.Buckets(len(t.PendingConfirmation), len(t.CallQueue), len(t.Absentees))
	s.Metrics.PassFollowUps(passes)
	s.Logger.Debug(ctx, "tasks classified",
		"confirmations", len(t.PendingConfirmation), "calls", len(t.CallQueue),
		"absentees", len(t.Absentees), "passes", passes)
	return t, nil
}

func (s *reminderService) Tick(ctx context.Context) (models.Entry, bool, error) {
	now := s.Clock.Now()
	today := s.today()

	calls, err := s.Repos.Entries(s.DB).Query(ctx, entries.Filter{Date: &today, Section: models.SectionTelefonate})
	if err != nil {
		return models.Entry{}, false, s.storeErr(ctx, "query", err)
	}
	queue := s.rules.Classify(calls, nil, now).CallQueue

	e, fired, err := s.interrupter.Check(ctx, queue, now)
	if err != nil {
		return models.Entry{}, false, err
	}
	if fired {
		s.Metrics.Interrupt()
		s.Logger.Info(ctx, "upcoming call", "entry_id", e.ID, "entry_time", e.EntryTime)
	}
	return e, fired, nil
}

func (s *reminderService) Dismiss(ctx context.Context, entryID string) error {
	return s.interrupter.Dismiss(ctx, entryID)
}

func (s *reminderService) Current() string {
	return s.interrupter.Current()
}
