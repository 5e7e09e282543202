package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/derive"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/entries"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
	"github.com/google/uuid"
)

type EntryService interface {
	// Today lists the entries dated today.
	Today(ctx context.Context) ([]models.Entry, error)
	Get(ctx context.Context, id string) (*models.Entry, error)
	Create(ctx context.Context, e models.Entry) (models.Entry, error)
	Update(ctx context.Context, e models.Entry) error
	// Delete removes an entry together with its calendar events.
	Delete(ctx context.Context, id string) error
	// SaveDraft stores a derived entry. Reschedules also get a calendar
	// event, and an absentee reschedule converts its source to miss, all in
	// one transaction.
	SaveDraft(ctx context.Context, d derive.Draft) (models.Entry, error)
	MarkWhatsAppSent(ctx context.Context, id string) (models.Entry, error)
	// Events lists the calendar events created for an entry.
	Events(ctx context.Context, id string) ([]models.CalendarEvent, error)
	Products(ctx context.Context) ([]models.TipoAbbonamento, error)
	Consulenti(ctx context.Context) ([]models.Consulente, error)
}

type entryService struct {
	Deps
	onReschedule func(models.Entry)
}

// NewEntryService returns the entry service. onReschedule, when not nil, is
// called with every successfully saved derived entry.
func NewEntryService(deps Deps, onReschedule func(models.Entry)) EntryService {
	deps.Logger = deps.Logger.With("module", "entries")
	return &entryService{Deps: deps, onReschedule: onReschedule}
}

func (s *entryService) entries() entries.Repository { return s.Repos.Entries(s.DB) }

func (s *entryService) Today(ctx context.Context) ([]models.Entry, error) {
	today := s.today()
	rows, err := s.entries().Query(ctx, entries.Filter{Date: &today})
	if err != nil {
		return nil, s.storeErr(ctx, "query", err)
	}
	return rows, nil
}

func (s *entryService) Get(ctx context.Context, id string) (*models.Entry, error) {
	e, err := s.entries().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving entry: %w", err)
	}
	return e, nil
}

func (s *entryService) Create(ctx context.Context, e models.Entry) (models.Entry, error) {
	if err := s.prepare(&e, true); err != nil {
		return models.Entry{}, err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = s.Clock.Now()

	if err := s.entries().Insert(ctx, &e); err != nil {
		return models.Entry{}, s.storeErr(ctx, "insert", err)
	}
	s.Logger.Info(ctx, "entry created", "entry_id", e.ID, "section", e.Section)
	return e, nil
}

func (s *entryService) Update(ctx context.Context, e models.Entry) error {
	if e.IsDraft() {
		return fmt.Errorf("%w: entry has no id", common.ErrValidation)
	}
	if err := s.prepare(&e, false); err != nil {
		return err
	}
	if err := s.entries().Update(ctx, e.ID, &e); err != nil {
		return s.storeErr(ctx, "update", err)
	}
	return nil
}

func (s *entryService) Delete(ctx context.Context, id string) error {
	var removed int64
	err := dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.Repos.Calendar(tx).DeleteByEntry(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return s.Repos.Entries(tx).Delete(ctx, id)
	})
	if err != nil {
		return s.storeErr(ctx, "delete", err)
	}
	s.Logger.Info(ctx, "entry deleted", "entry_id", id, "calendar_events", removed)
	return nil
}

func (s *entryService) SaveDraft(ctx context.Context, d derive.Draft) (models.Entry, error) {
	e := d.Entry
	if err := s.prepare(&e, true); err != nil {
		return models.Entry{}, err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = s.Clock.Now()

	err := dbx.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.Repos.Entries(tx).Insert(ctx, &e); err != nil {
			return err
		}
		if d.Variant != derive.Duplicate {
			if err := s.Repos.Calendar(tx).Insert(ctx, s.event(d, e)); err != nil {
				return err
			}
		}
		if src, ok := d.SourceUpdate(); ok {
			if err := s.Repos.Entries(tx).Update(ctx, src.ID, &src); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Entry{}, s.storeErr(ctx, "save_draft", err)
	}

	s.Metrics.Derived(d.Variant.String())
	s.Logger.Info(ctx, "derived entry saved",
		"entry_id", e.ID, "source_id", d.Source.ID, "variant", d.Variant.String())
	if s.onReschedule != nil {
		s.onReschedule(e)
	}
	return e, nil
}

func (s *entryService) event(d derive.Draft, e models.Entry) *models.CalendarEvent {
	starts := e.EntryDate
	if at, err := timex.ParseWallClock(e.EntryTime); err == nil {
		starts = at.On(e.EntryDate, s.Loc)
	}
	return &models.CalendarEvent{
		ID:       uuid.NewString(),
		EntryID:  e.ID,
		Title:    d.EventTitle(),
		StartsAt: starts,
	}
}

func (s *entryService) MarkWhatsAppSent(ctx context.Context, id string) (models.Entry, error) {
	e, err := s.entries().GetByID(ctx, id)
	if err != nil {
		return models.Entry{}, fmt.Errorf("error retrieving entry: %w", err)
	}
	now := s.Clock.Now()
	e.WhatsAppSent = true
	e.WhatsAppSentDate = &now
	if err := s.entries().Update(ctx, id, e); err != nil {
		return models.Entry{}, s.storeErr(ctx, "whatsapp", err)
	}
	return *e, nil
}

func (s *entryService) Events(ctx context.Context, id string) ([]models.CalendarEvent, error) {
	evs, err := s.Repos.Calendar(s.DB).ListByEntry(ctx, id)
	if err != nil {
		return nil, s.storeErr(ctx, "calendar", err)
	}
	return evs, nil
}

func (s *entryService) Products(ctx context.Context) ([]models.TipoAbbonamento, error) {
	ps, err := s.Repos.Lookups(s.DB).TipiAbbonamento(ctx)
	if err != nil {
		return nil, s.storeErr(ctx, "lookups", err)
	}
	return ps, nil
}

func (s *entryService) Consulenti(ctx context.Context) ([]models.Consulente, error) {
	cs, err := s.Repos.Lookups(s.DB).Consulenti(ctx)
	if err != nil {
		return nil, s.storeErr(ctx, "lookups", err)
	}
	return cs, nil
}

// prepare validates e. New entries also get today's date and, for walk-ins,
// the current time; an edited walk-in keeps an empty time. It never touches
// the store.
func (s *entryService) prepare(e *models.Entry, fresh bool) error {
	if !e.Section.Valid() {
		return fmt.Errorf("%w: %q", common.ErrInvalidSection, e.Section)
	}
	now := s.Clock.Now()
	if e.EntryDate.IsZero() {
		if !fresh {
			return fmt.Errorf("%w: entry has no date", common.ErrValidation)
		}
		e.EntryDate = now
	}
	e.EntryDate = timex.StartOfDay(e.EntryDate, s.Loc)

	if e.EntryTime == "" {
		if e.Section.RequiresTime() {
			return fmt.Errorf("%w: %s", common.ErrMissingTime, e.Section)
		}
		if !fresh {
			return nil
		}
		e.EntryTime = now.In(s.Loc).Format(timex.ClockLayout)
	}
	at, err := timex.ParseWallClock(e.EntryTime)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	e.EntryTime = at.String()
	return nil
}
