package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/logging"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/reminders"
	"github.com/dmitrijs2005/frontdesk/internal/services"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// Options configure an App.
type Options struct {
	Rules            reminders.Rules
	Dismissals       reminders.DismissalStore
	PassFollowUpDays int
	TickInterval     time.Duration
	In               io.Reader
	Out              io.Writer
}

type App struct {
	deps         services.Deps
	entries      services.EntryService
	outcomes     services.OutcomeService
	reminders    services.ReminderService
	passes       services.PassService
	tickInterval time.Duration
	logger       logging.Logger

	reader      *bufio.Reader
	interactive bool

	out io.Writer

	mu          sync.Mutex
	known       map[string]models.Entry
	knownPasses map[string]models.Pass
	currentCall string
}

// NewApp builds the services on deps and returns the desk application.
func NewApp(deps services.Deps, opts Options) *App {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Dismissals == nil {
		opts.Dismissals = reminders.NewMemoryDismissals()
	}
	a := &App{
		deps:         deps,
		tickInterval: opts.TickInterval,
		logger:       deps.Logger.With("module", "cli"),
		reader:       bufio.NewReader(opts.In),
		out:          &syncWriter{w: opts.Out},
		known:        map[string]models.Entry{},
		knownPasses:  map[string]models.Pass{},
	}
	if f, ok := opts.In.(*os.File); ok {
		a.interactive = isTerminal(int(f.Fd()))
	}
	a.entries = services.NewEntryService(deps, a.rescheduled)
	a.outcomes = services.NewOutcomeService(deps, func(ctx context.Context) {
		if err := a.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "refresh after transition failed", "error", err)
		}
	})
	a.reminders = services.NewReminderService(deps, opts.Rules, opts.Dismissals, opts.PassFollowUpDays)
	a.passes = services.NewPassService(deps, opts.PassFollowUpDays)
	return a
}

// Run loads today's entries, starts the reminder watcher and blocks in the
// REPL until the operator exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.printf("Front desk (type 'help' for commands)\n")
	if err := a.Refresh(ctx); err != nil {
		return err
	}

	stop := a.StartReminderWatcher(ctx, a.tickInterval)
	defer stop()

	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// Refresh re-fetches today's entries and the subscription types and
// replaces the coordinator state with them.
func (a *App) Refresh(ctx context.Context) error {
	list, err := a.entries.Today(ctx)
	if err != nil {
		return err
	}
	products, err := a.entries.Products(ctx)
	if err != nil {
		return err
	}
	a.outcomes.Load(list, products)
	a.remember(list...)
	return nil
}

func (a *App) status() string {
	now := a.deps.Clock.Now().In(a.deps.Loc)
	s := now.Format("02/01 15:04")
	a.mu.Lock()
	if a.currentCall != "" {
		s += " *call*"
	}
	a.mu.Unlock()
	return s
}

// syncWriter serialises writes from the REPL and the reminder watcher.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) prompt(text string) (string, error) {
	return GetSimpleText(a.reader, text, a.out)
}

func (a *App) confirm(text string) (bool, error) {
	return GetConfirm(a.reader, text, a.out)
}

// fail reports err to the operator and returns it.
func (a *App) fail(ctx context.Context, action string, err error) error {
	a.logger.Debug(ctx, "command failed", "action", action, "error", err)
	a.printf("Errore: %v\n", err)
	return err
}

func (a *App) remember(list ...models.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range list {
		a.known[e.ID] = e
	}
}

// lookup resolves a full id or an unambiguous id prefix among the entries
// shown so far.
func (a *App) lookup(ref string) (models.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return byPrefix(a.known, ref)
}

func (a *App) lookupPass(ref string) (models.Pass, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return byPrefix(a.knownPasses, ref)
}

func byPrefix[T any](known map[string]T, ref string) (T, error) {
	if v, ok := known[ref]; ok {
		return v, nil
	}
	var (
		found T
		n     int
	)
	for id, v := range known {
		if strings.HasPrefix(id, ref) {
			found = v
			n++
		}
	}
	switch n {
	case 0:
		var zero T
		return zero, fmt.Errorf("nessun elemento con id %q", ref)
	case 1:
		return found, nil
	default:
		var zero T
		return zero, fmt.Errorf("id %q ambiguo", ref)
	}
}

func (a *App) rescheduled(e models.Entry) {
	a.remember(e)
	a.printf("Richiamo creato: %s %s %s\n", shortID(e.ID), e.EntryDate.Format("02/01"), e.EntryTime)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
