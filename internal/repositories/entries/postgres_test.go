package entries

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var entryCols = []string{
	"id", "section", "entry_date", "entry_time", "created_at",
	"nome", "cognome", "telefono", "consulente_id", "tipo_abbonamento_id", "fonte",
	"presentato", "venduto", "negativo", "assente", "miss", "contattato",
	"whatsapp_sent", "whatsapp_sent_date", "comeback", "note", "rescheduled_from",
}

func TestPostgres_QueryUsesNumberedPlaceholders(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresRepository(db, rome)

	rows := sqlmock.NewRows(entryCols).AddRow(
		"e1", string(models.SectionTelefonate), "2025-03-10T00:00:00Z", "09:15", "2025-03-09T21:00:00Z",
		"Luca", "", "333", nil, nil, "",
		false, false, false, false, false, true,
		false, nil, false, "", nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE entry_date = $1 AND section = $2 ORDER BY`)).
		WithArgs("2025-03-10", string(models.SectionTelefonate)).
		WillReturnRows(rows)

	d := day(10)
	got, err := r.Query(context.Background(), Filter{Date: &d, Section: models.SectionTelefonate})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(10), got[0].EntryDate)
	assert.True(t, got[0].Contattato)
	assert.Equal(t, models.Pending, got[0].Outcome.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_HistoryFilter(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresRepository(db, rome)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE entry_date <= $1 AND assente = $2`)).
		WithArgs("2025-03-10", true).
		WillReturnRows(sqlmock.NewRows(entryCols))

	d10, absent := day(10), true
	got, err := r.Query(context.Background(), Filter{DateTo: &d10, Assente: &absent})
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresRepository(db, rome)

	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $22`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := sample("x", 10, "09:00")
	err := r.Update(context.Background(), "x", &e)
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertError(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresRepository(db, rome)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO entries`)).
		WillReturnError(errors.New("connection reset"))

	e := sample("x", 10, "09:00")
	err := r.Insert(context.Background(), &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert entry")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresRepository(db, rome)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM entries WHERE id = $1`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := r.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPostgres_ScanBadDate(t *testing.T) {
	db, mock := newMock(t)
	r := NewPostgresRepository(db, rome)

	rows := sqlmock.NewRows(entryCols).AddRow(
		"e1", "CONSULENZE", "not-a-date", "", "2025-03-09T21:00:00Z",
		"", "", "", nil, nil, "",
		false, false, false, false, false, false,
		false, nil, false, "", nil,
	)
	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	_, err := r.Query(context.Background(), Filter{})
	require.Error(t, err)
}
