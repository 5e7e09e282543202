package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/logging"
	"github.com/dmitrijs2005/frontdesk/internal/metrics"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/reminders"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repomanager"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repotest"
	"github.com/dmitrijs2005/frontdesk/internal/services"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rome = repotest.Rome

func day(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, rome) }

func newTestDeps(t *testing.T) services.Deps {
	t.Helper()
	now := time.Date(2025, 3, 10, 9, 41, 0, 0, rome)
	return services.Deps{
		DB:      repotest.OpenSQLite(t),
		Repos:   repomanager.NewSQLiteRepositoryManager(rome),
		Clock:   timex.ClockFunc(func() time.Time { return now }),
		Loc:     rome,
		Logger:  logging.Discard(),
		Metrics: metrics.Nop(),
	}
}

// newTestApp returns an app reading input and writing to the returned buffer.
func newTestApp(t *testing.T, deps services.Deps, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := NewApp(deps, Options{
		Rules:            reminders.DefaultRules(rome),
		Dismissals:       reminders.NewMemoryDismissals(),
		PassFollowUpDays: 2,
		In:               strings.NewReader(input),
		Out:              &out,
	})
	require.NoError(t, a.Refresh(context.Background()))
	return a, &out
}

func seedEntry(t *testing.T, deps services.Deps, e models.Entry) {
	t.Helper()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, rome)
	}
	require.NoError(t, deps.Repos.Entries(deps.DB).Insert(context.Background(), &e))
}

func storedEntry(t *testing.T, deps services.Deps, id string) *models.Entry {
	t.Helper()
	e, err := deps.Repos.Entries(deps.DB).GetByID(context.Background(), id)
	require.NoError(t, err)
	return e
}

func countRows(t *testing.T, deps services.Deps, table string) int {
	t.Helper()
	var n int
	require.NoError(t, deps.DB.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestApp_SaleThroughPopup(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	require.NoError(t, deps.Repos.Lookups(deps.DB).AddTipoAbbonamento(ctx,
		models.TipoAbbonamento{ID: "mensile", Nome: "Mensile", Active: true}))
	seedEntry(t, deps, models.Entry{ID: "entry-a", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "10:00", Nome: "Giulia"})

	a, out := newTestApp(t, deps, "1\n")
	require.NoError(t, a.Outcome(ctx, "entry-a", "venduto"))

	got := storedEntry(t, deps, "entry-a")
	assert.Equal(t, models.Venduto, got.Outcome.Kind)
	assert.Equal(t, "mensile", got.TipoAbbonamentoID)
	assert.Contains(t, out.String(), "1) Mensile")
	assert.Contains(t, out.String(), "Giulia: venduto{mensile}")
}

func TestApp_SaleCancelledByEmptyChoice(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	require.NoError(t, deps.Repos.Lookups(deps.DB).AddTipoAbbonamento(ctx,
		models.TipoAbbonamento{ID: "mensile", Nome: "Mensile", Active: true}))
	seedEntry(t, deps, models.Entry{ID: "entry-a", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "10:00"})

	a, out := newTestApp(t, deps, "\n")
	require.NoError(t, a.Outcome(ctx, "entry-a", "venduto"))

	assert.Equal(t, models.Pending, storedEntry(t, deps, "entry-a").Outcome.Kind)
	assert.Contains(t, out.String(), "Nessuna modifica")
	assert.Nil(t, a.outcomes.State().Pending)
}

func TestApp_MissThenReschedule(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-b", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "08:00",
		Nome: "Luca", Cognome: "Bianchi", Telefono: "3470000000"})

	// not present, reschedule yes, keep today's date, 19:00
	a, out := newTestApp(t, deps, "n\ns\n\n19:00\n")
	require.NoError(t, a.Outcome(ctx, "entry-b", "miss"))

	assert.Equal(t, models.Miss, storedEntry(t, deps, "entry-b").Outcome.Kind)
	assert.Equal(t, 2, countRows(t, deps, "entries"))
	assert.Equal(t, 1, countRows(t, deps, "calendar_events"))
	assert.Contains(t, out.String(), "Richiamo creato")

	var derived *models.Entry
	for _, e := range a.outcomes.State().Entries {
		if e.RescheduledFrom == "entry-b" {
			e := e
			derived = &e
		}
	}
	require.NotNil(t, derived, "today's list is refreshed after the save")
	assert.Equal(t, "19:00", derived.EntryTime)
	assert.Equal(t, "3470000000", derived.Telefono)
}

func TestApp_OutcomeRejectsUnknownTarget(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-a", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "10:00"})
	a, out := newTestApp(t, deps, "")

	require.Error(t, a.Outcome(context.Background(), "entry-a", "pending"))
	require.Error(t, a.Outcome(context.Background(), "entry-a", "bocciato"))
	assert.Contains(t, out.String(), "Errore")
}

func TestApp_LookupByPrefix(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "abc-111", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "10:00"})
	seedEntry(t, deps, models.Entry{ID: "abc-222", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "11:00"})
	a, _ := newTestApp(t, deps, "")

	e, err := a.lookup("abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-222", e.ID)

	_, err = a.lookup("abc")
	require.ErrorContains(t, err, "ambiguo")
	_, err = a.lookup("zzz")
	require.Error(t, err)
}

func TestApp_WhatsAppPrintsLinkAndMarksSent(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-a", Section: models.SectionAppuntamenti, EntryDate: day(10), EntryTime: "10:00",
		Nome: "Giulia", Telefono: "333 123 4567"})
	seedEntry(t, deps, models.Entry{ID: "entry-x", Section: models.SectionAppuntamenti, EntryDate: day(10), EntryTime: "11:00",
		Nome: "Nessuno", Telefono: "12"})
	a, out := newTestApp(t, deps, "n\n")

	require.NoError(t, a.WhatsApp(context.Background(), "entry-a"))
	assert.Contains(t, out.String(), "https://wa.me/393331234567?text=Ciao%20Giulia")
	assert.True(t, storedEntry(t, deps, "entry-a").WhatsAppSent)

	// declined: no link and no mark
	require.NoError(t, a.WhatsApp(context.Background(), "entry-x"))
	assert.Contains(t, out.String(), `Nessun link WhatsApp per il numero "12"`)
	assert.False(t, storedEntry(t, deps, "entry-x").WhatsAppSent)
}

func TestApp_WhatsAppWithoutNumberCanStillBeMarked(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-n", Section: models.SectionAppuntamenti, EntryDate: day(10), EntryTime: "10:00",
		Nome: "Paolo"})
	a, out := newTestApp(t, deps, "s\n")

	require.NoError(t, a.WhatsApp(context.Background(), "entry-n"))
	assert.NotContains(t, out.String(), "https://wa.me/")
	assert.True(t, storedEntry(t, deps, "entry-n").WhatsAppSent)

	e, err := a.lookup("entry-n")
	require.NoError(t, err)
	assert.True(t, e.WhatsAppSent)
}

func TestApp_ContactedToggle(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "call-1", Section: models.SectionTelefonate, EntryDate: day(10), EntryTime: "12:00", Nome: "Sara"})
	a, out := newTestApp(t, deps, "")

	require.NoError(t, a.Contacted(context.Background(), "call-1"))
	assert.True(t, storedEntry(t, deps, "call-1").Contattato)
	assert.Contains(t, out.String(), "Sara contattato")
}

func TestApp_AddAndDelete(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	// section 2, today, 10:30, nome, cognome, telefono, no fonte, no note,
	// comeback, then the delete confirmation
	a, out := newTestApp(t, deps, "2\n\n10:30\nMario\nRossi\n333\n\n\ns\ns\n")

	require.NoError(t, a.Add(ctx))
	require.Len(t, a.outcomes.State().Entries, 1)
	created := a.outcomes.State().Entries[0]
	assert.Equal(t, models.SectionConsulenze, created.Section)
	assert.Equal(t, "10:30", created.EntryTime)
	assert.Equal(t, "Mario Rossi", created.FullName())
	assert.Equal(t, day(10), created.EntryDate)
	assert.True(t, created.Comeback)

	require.NoError(t, a.Delete(ctx, shortID(created.ID)))
	assert.Zero(t, countRows(t, deps, "entries"))
	assert.Contains(t, out.String(), "Eliminata")
}

func TestApp_EditKeepsEmptyAnswersAndClearsDash(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-a", Section: models.SectionAppuntamenti, EntryDate: day(10), EntryTime: "10:00",
		Nome: "Giulia", Cognome: "Rossi", Telefono: "333", Fonte: "instagram", Note: "porta amica"})
	// keep date, 11:15, keep nome, keep cognome, new telefono, clear fonte,
	// keep note, comeback yes
	a, out := newTestApp(t, deps, "\n11:15\n\n\n3471112222\n-\n\ns\n")

	require.NoError(t, a.Edit(ctx, "entry-a"))
	got := storedEntry(t, deps, "entry-a")
	assert.Equal(t, day(10), got.EntryDate)
	assert.Equal(t, "11:15", got.EntryTime)
	assert.Equal(t, "Giulia Rossi", got.FullName())
	assert.Equal(t, "3471112222", got.Telefono)
	assert.Empty(t, got.Fonte)
	assert.Equal(t, "porta amica", got.Note)
	assert.True(t, got.Comeback)
	assert.Contains(t, out.String(), "Nome [Giulia]")
	assert.Contains(t, out.String(), "Aggiornata entry-a")

	e, err := a.lookup("entry-a")
	require.NoError(t, err)
	assert.Equal(t, "11:15", e.EntryTime)
}

func TestApp_EditWalkInDoesNotStampTime(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "tour-1", Section: models.SectionTour, EntryDate: day(10), EntryTime: "08:30", Nome: "Ugo"})
	// clear the time, keep everything else and the comeback flag
	a, _ := newTestApp(t, deps, "\n-\n\n\n\n\n\n\n")

	require.NoError(t, a.Edit(ctx, "tour-1"))
	got := storedEntry(t, deps, "tour-1")
	assert.Empty(t, got.EntryTime)
	assert.False(t, got.Comeback)
}

func TestApp_EditRejectsInvalidTime(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-a", Section: models.SectionAppuntamenti, EntryDate: day(10), EntryTime: "10:00"})
	a, out := newTestApp(t, deps, "\n25:99\n\n\n\n\n\n\n")

	require.Error(t, a.Edit(context.Background(), "entry-a"))
	assert.Equal(t, "10:00", storedEntry(t, deps, "entry-a").EntryTime)
	assert.Contains(t, out.String(), "Errore")
}

func TestApp_ShowListsCalendarEvents(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-b", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "08:00",
		Nome: "Luca", Cognome: "Bianchi", Telefono: "3470000000", Comeback: true})
	// not present, reschedule yes, keep today's date, 19:00
	a, out := newTestApp(t, deps, "n\ns\n\n19:00\n")
	require.NoError(t, a.Outcome(ctx, "entry-b", "miss"))

	var derived string
	for _, e := range a.outcomes.State().Entries {
		if e.RescheduledFrom == "entry-b" {
			derived = e.ID
		}
	}
	require.NotEmpty(t, derived)

	require.NoError(t, a.Show(ctx, derived))
	assert.Contains(t, out.String(), "Richiamo di")
	assert.Contains(t, out.String(), "evento 10/03 19:00 Richiamo: Luca Bianchi")

	require.NoError(t, a.Show(ctx, "entry-b"))
	assert.Regexp(t, `Comeback\s+sì`, out.String())
}

func TestApp_PassFollowUps(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	old := models.Pass{ID: "pass-old", Nome: "Lia", Telefono: "333", DeliveredOn: day(5)}
	require.NoError(t, deps.Repos.Passes(deps.DB).Insert(ctx, &old))
	a, out := newTestApp(t, deps, "Eva\n347\n")

	require.NoError(t, a.AddPass(ctx))
	assert.Contains(t, out.String(), "Pass consegnato a Eva")

	require.NoError(t, a.Passes(ctx))
	assert.Contains(t, out.String(), "pass-old 05/03 Lia 333")
	assert.NotContains(t, out.String(), "Eva 347", "today's pass is not due yet")

	require.NoError(t, a.FollowUp(ctx, "pass-o"))
	assert.Contains(t, out.String(), "Pass di Lia richiamato")
	require.Error(t, a.FollowUp(ctx, "pass-old"), "followed-up passes are forgotten")

	out.Reset()
	require.NoError(t, a.Passes(ctx))
	assert.Contains(t, out.String(), "Nessun pass da richiamare")
}

func TestApp_RescheduleRequiresAbsentOrMiss(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "entry-a", Section: models.SectionConsulenze, EntryDate: day(10), EntryTime: "10:00"})
	a, _ := newTestApp(t, deps, "")

	require.Error(t, a.Reschedule(context.Background(), "entry-a"))
	assert.Equal(t, 1, countRows(t, deps, "entries"))
}

func TestApp_TasksListsAbsentees(t *testing.T) {
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "old-absent", Section: models.SectionConsulenze, EntryDate: day(3), EntryTime: "18:00",
		Nome: "Anna", Outcome: models.Outcome{Kind: models.Assente}})
	a, out := newTestApp(t, deps, "\n12:00\n")

	require.NoError(t, a.Tasks(context.Background()))
	assert.Contains(t, out.String(), "Assenti da recuperare: 1")

	// absentees from past days can be rescheduled once listed
	require.NoError(t, a.Reschedule(context.Background(), "old-absent"))
	assert.Equal(t, models.Miss, storedEntry(t, deps, "old-absent").Outcome.Kind)
	assert.Equal(t, 1, countRows(t, deps, "calendar_events"))
}

func TestApp_TickInterruptsOnceAndDismiss(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "call-1", Section: models.SectionTelefonate, EntryDate: day(10), EntryTime: "09:45", Nome: "Sara"})
	a, out := newTestApp(t, deps, "")

	require.NoError(t, a.tick(ctx))
	assert.Equal(t, 1, strings.Count(out.String(), ">>> Chiamata alle 09:45"))
	assert.Contains(t, a.status(), "*call*")

	require.NoError(t, a.tick(ctx))
	assert.Equal(t, 1, strings.Count(out.String(), ">>> Chiamata"))

	require.NoError(t, a.Dismiss(ctx))
	assert.NotContains(t, a.status(), "*call*")
	require.NoError(t, a.tick(ctx))
	assert.Equal(t, 1, strings.Count(out.String(), ">>> Chiamata"))
}

func TestApp_TickClearsStaleCallMarker(t *testing.T) {
	ctx := context.Background()
	deps := newTestDeps(t)
	seedEntry(t, deps, models.Entry{ID: "call-1", Section: models.SectionTelefonate, EntryDate: day(10), EntryTime: "09:45", Nome: "Sara"})
	a, _ := newTestApp(t, deps, "")

	require.NoError(t, a.tick(ctx))
	require.Contains(t, a.status(), "*call*")

	// calling back takes the entry out of the reminder
	require.NoError(t, a.Contacted(ctx, "call-1"))
	require.NoError(t, a.tick(ctx))
	assert.NotContains(t, a.status(), "*call*")
	require.NoError(t, a.Dismiss(ctx))
}

func TestApp_StartReminderWatcherDisabled(t *testing.T) {
	a, _ := newTestApp(t, newTestDeps(t), "")
	stop := a.StartReminderWatcher(context.Background(), 0)
	stop()
}
