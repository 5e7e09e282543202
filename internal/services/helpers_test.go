package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/logging"
	"github.com/dmitrijs2005/frontdesk/internal/metrics"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/entries"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repomanager"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repotest"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
	"github.com/stretchr/testify/require"
)

var rome = repotest.Rome

// testClock is a settable clock.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newDeps(t *testing.T) (Deps, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 3, 10, 9, 41, 0, 0, rome)}
	return Deps{
		DB:      repotest.OpenSQLite(t),
		Repos:   repomanager.NewSQLiteRepositoryManager(rome),
		Clock:   clock,
		Loc:     rome,
		Logger:  logging.Discard(),
		Metrics: metrics.Nop(),
	}, clock
}

var _ timex.Clock = (*testClock)(nil)

func day(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, rome) }

// seed inserts e as-is, bypassing validation.
func seed(t *testing.T, deps Deps, e models.Entry) models.Entry {
	t.Helper()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, rome)
	}
	require.NoError(t, deps.Repos.Entries(deps.DB).Insert(context.Background(), &e))
	return e
}

func stored(t *testing.T, deps Deps, id string) *models.Entry {
	t.Helper()
	e, err := deps.Repos.Entries(deps.DB).GetByID(context.Background(), id)
	require.NoError(t, err)
	return e
}

// failingRepos returns an entries repository whose writes fail.
type failingRepos struct {
	repomanager.RepositoryManager
	err error
}

func (f failingRepos) Entries(db dbx.DBTX) entries.Repository {
	return failingEntries{Repository: f.RepositoryManager.Entries(db), err: f.err}
}

type failingEntries struct {
	entries.Repository
	err error
}

func (f failingEntries) Update(context.Context, string, *models.Entry) error { return f.err }
func (f failingEntries) Insert(context.Context, *models.Entry) error         { return f.err }
