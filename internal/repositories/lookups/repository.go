// Package lookups reads the staff and subscription type lists.
package lookups

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/models"
)

type Repository interface {
	Consulenti(ctx context.Context) ([]models.Consulente, error)
	TipiAbbonamento(ctx context.Context) ([]models.TipoAbbonamento, error)
	AddConsulente(ctx context.Context, c models.Consulente) error
	AddTipoAbbonamento(ctx context.Context, t models.TipoAbbonamento) error
}

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.SQLite}
}

func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.Postgres}
}

func (r *SQLRepository) Consulenti(ctx context.Context) ([]models.Consulente, error) {
	rows, err := r.list(ctx, "consulenti")
	if err != nil {
		return nil, err
	}
	out := make([]models.Consulente, 0, len(rows))
	for _, x := range rows {
		out = append(out, models.Consulente(x))
	}
	return out, nil
}

func (r *SQLRepository) TipiAbbonamento(ctx context.Context) ([]models.TipoAbbonamento, error) {
	rows, err := r.list(ctx, "tipi_abbonamento")
	if err != nil {
		return nil, err
	}
	out := make([]models.TipoAbbonamento, 0, len(rows))
	for _, x := range rows {
		out = append(out, models.TipoAbbonamento(x))
	}
	return out, nil
}

func (r *SQLRepository) AddConsulente(ctx context.Context, c models.Consulente) error {
	return r.insert(ctx, "consulenti", item(c))
}

func (r *SQLRepository) AddTipoAbbonamento(ctx context.Context, t models.TipoAbbonamento) error {
	return r.insert(ctx, "tipi_abbonamento", item(t))
}

// item is the shared row shape of both lookup tables.
type item struct {
	ID     string
	Nome   string
	Active bool
}

func (r *SQLRepository) list(ctx context.Context, table string) ([]item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, nome, active FROM `+table+` ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", table, err)
	}
	defer rows.Close()

	var result []item
	for rows.Next() {
		var x item
		if err := rows.Scan(&x.ID, &x.Nome, &x.Active); err != nil {
			return nil, err
		}
		result = append(result, x)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) insert(ctx context.Context, table string, x item) error {
	query := `INSERT INTO ` + table + ` (id, nome, active) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), x.ID, x.Nome, x.Active); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// Labels indexes lookup names by id for display.
type Labels struct {
	Consulenti map[string]string
	Tipi       map[string]string
}

// NewLabels builds the id to name maps.
func NewLabels(cs []models.Consulente, ts []models.TipoAbbonamento) Labels {
	l := Labels{Consulenti: make(map[string]string, len(cs)), Tipi: make(map[string]string, len(ts))}
	for _, c := range cs {
		l.Consulenti[c.ID] = c.Nome
	}
	for _, t := range ts {
		l.Tipi[t.ID] = t.Nome
	}
	return l
}

// Consulente returns the staff name for id, or id itself when unknown.
func (l Labels) Consulente(id string) string {
	if n, ok := l.Consulenti[id]; ok {
		return n
	}
	return id
}

// Tipo returns the subscription name for id, or id itself when unknown.
func (l Labels) Tipo(id string) string {
	if n, ok := l.Tipi[id]; ok {
		return n
	}
	return id
}
