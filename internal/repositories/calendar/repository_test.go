package calendar

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar_SQLite(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(repotest.OpenSQLite(t), repotest.Rome)

	starts := time.Date(2025, 3, 12, 10, 0, 0, 0, repotest.Rome)
	require.NoError(t, r.Insert(ctx, &models.CalendarEvent{ID: "ev1", EntryID: "e1", Title: "Richiamo: Giulia", StartsAt: starts}))
	require.NoError(t, r.Insert(ctx, &models.CalendarEvent{ID: "ev2", EntryID: "e2", Title: "Richiamo: Luca", StartsAt: starts}))

	evs, err := r.ListByEntry(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "Richiamo: Giulia", evs[0].Title)
	assert.True(t, starts.Equal(evs[0].StartsAt))

	n, err := r.DeleteByEntry(ctx, "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	evs, err = r.ListByEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, evs)

	n, err = r.DeleteByEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCalendar_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewPostgresRepository(db, repotest.Rome)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM calendar_events WHERE entry_id = $1`)).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := r.DeleteByEntry(context.Background(), "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
