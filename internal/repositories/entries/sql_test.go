package entries

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repotest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rome = repotest.Rome

func day(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, rome) }

func sample(id string, d int, hm string) models.Entry {
	return models.Entry{
		ID:        id,
		Section:   models.SectionAppuntamenti,
		EntryDate: day(d),
		EntryTime: hm,
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, rome),
		Nome:      "Giulia",
		Cognome:   "Rossi",
		Telefono:  "3331234567",
		Fonte:     "passaparola",
	}
}

func TestInsertGetByID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(repotest.OpenSQLite(t), rome)

	sent := time.Date(2025, 3, 9, 18, 0, 0, 0, rome)
	e := sample("e1", 10, "18:30")
	e.ConsulenteID = "c-1"
	e.TipoAbbonamentoID = "mensile"
	e.Outcome = models.Outcome{Kind: models.Venduto, Presented: true, Product: "mensile"}
	e.WhatsAppSent = true
	e.WhatsAppSentDate = &sent
	e.Comeback = true
	e.Note = "ok"
	e.RescheduledFrom = "e0"

	require.NoError(t, r.Insert(ctx, &e))

	got, err := r.GetByID(ctx, "e1")
	require.NoError(t, err)

	opt := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(e, *got, opt); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestOutcomeFlagsStored(t *testing.T) {
	ctx := context.Background()
	db := repotest.OpenSQLite(t)
	r := NewSQLiteRepository(db, rome)

	e := sample("e1", 10, "09:00")
	e.Outcome = models.Outcome{Kind: models.Negativo, Presented: true}
	require.NoError(t, r.Insert(ctx, &e))

	var p, v, n, a, m bool
	require.NoError(t, db.QueryRow(
		`SELECT presentato, venduto, negativo, assente, miss FROM entries WHERE id = ?`, "e1").
		Scan(&p, &v, &n, &a, &m))
	assert.Equal(t, []bool{true, false, true, false, false}, []bool{p, v, n, a, m})
}

func TestUpdate_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(repotest.OpenSQLite(t), rome)

	e := sample("e1", 10, "09:00")
	require.NoError(t, r.Insert(ctx, &e))

	first := e
	first.Note = "first"
	second := e
	second.Outcome = models.Outcome{Kind: models.Assente}

	require.NoError(t, r.Update(ctx, "e1", &first))
	require.NoError(t, r.Update(ctx, "e1", &second))

	got, err := r.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "", got.Note)
	assert.Equal(t, models.Assente, got.Outcome.Kind)

	err = r.Update(ctx, "missing", &second)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(repotest.OpenSQLite(t), rome)

	e := sample("e1", 10, "09:00")
	require.NoError(t, r.Insert(ctx, &e))
	require.NoError(t, r.Delete(ctx, "e1"))

	_, err := r.GetByID(ctx, "e1")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "e1"), common.ErrNotFound)
}

func TestQuery_Filters(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(repotest.OpenSQLite(t), rome)

	call := sample("call", 10, "08:00")
	call.Section = models.SectionTelefonate
	absent := sample("absent", 8, "10:00")
	absent.Outcome = models.Outcome{Kind: models.Assente}
	for _, e := range []models.Entry{
		sample("late", 10, "19:00"),
		sample("early", 10, "07:30"),
		call,
		absent,
		sample("future", 12, "10:00"),
	} {
		e := e
		require.NoError(t, r.Insert(ctx, &e))
	}

	ids := func(f Filter) []string {
		t.Helper()
		got, err := r.Query(ctx, f)
		require.NoError(t, err)
		out := []string{}
		for _, e := range got {
			out = append(out, e.ID)
		}
		return out
	}

	d10 := day(10)
	assert.Equal(t, []string{"early", "call", "late"}, ids(Filter{Date: &d10}))

	assert.Equal(t, []string{"call"}, ids(Filter{Date: &d10, Section: models.SectionTelefonate}))

	yes := true
	assert.Equal(t, []string{"absent"}, ids(Filter{Assente: &yes}))

	d8 := day(8)
	assert.Equal(t, []string{"absent"}, ids(Filter{DateTo: &d8}))
	assert.Equal(t, []string{"absent", "early", "call", "late"}, ids(Filter{DateTo: &d10}))
	assert.Len(t, ids(Filter{}), 5)
}
