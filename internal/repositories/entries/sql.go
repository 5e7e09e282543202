package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/models"
)

const columns = `id, section, entry_date, entry_time, created_at,
	nome, cognome, telefono, consulente_id, tipo_abbonamento_id, fonte,
	presentato, venduto, negativo, assente, miss, contattato,
	whatsapp_sent, whatsapp_sent_date, comeback, note, rescheduled_from`

// SQLRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx). The dialect only changes placeholders.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	loc     *time.Location
}

// NewSQLiteRepository returns a repository for the SQLite schema.
func NewSQLiteRepository(db dbx.DBTX, loc *time.Location) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.SQLite, loc: loc}
}

// NewPostgresRepository returns a repository for the PostgreSQL schema.
func NewPostgresRepository(db dbx.DBTX, loc *time.Location) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.Postgres, loc: loc}
}

func (r *SQLRepository) args(e *models.Entry) []any {
	f := e.Outcome.Flags()
	return []any{
		string(e.Section),
		dbx.FormatDate(e.EntryDate, r.loc),
		e.EntryTime,
		dbx.FormatInstant(e.CreatedAt),
		e.Nome, e.Cognome, e.Telefono,
		dbx.NullString(e.ConsulenteID),
		dbx.NullString(e.TipoAbbonamentoID),
		e.Fonte,
		f.Presentato, f.Venduto, f.Negativo, f.Assente, f.Miss,
		e.Contattato,
		e.WhatsAppSent,
		dbx.NullInstant(e.WhatsAppSentDate),
		e.Comeback,
		e.Note,
		dbx.NullString(e.RescheduledFrom),
	}
}

func (r *SQLRepository) Insert(ctx context.Context, e *models.Entry) error {
	query := `INSERT INTO entries (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := append([]any{e.ID}, r.args(e)...)
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, e *models.Entry) error {
	query := `UPDATE entries SET section = ?, entry_date = ?, entry_time = ?, created_at = ?,
		nome = ?, cognome = ?, telefono = ?, consulente_id = ?, tipo_abbonamento_id = ?, fonte = ?,
		presentato = ?, venduto = ?, negativo = ?, assente = ?, miss = ?, contattato = ?,
		whatsapp_sent = ?, whatsapp_sent_date = ?, comeback = ?, note = ?, rescheduled_from = ?
		WHERE id = ?`

	args := append(r.args(e), id)
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return expectOne(res, id)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM entries WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return expectOne(res, id)
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + columns + ` FROM entries WHERE id = ?`
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), id)

	e, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return e, nil
}

func (r *SQLRepository) Query(ctx context.Context, f Filter) ([]models.Entry, error) {
	where, args := r.where(f)
	query := `SELECT ` + columns + ` FROM entries` + where + ` ORDER BY entry_date, entry_time, created_at`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	var result []models.Entry
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) where(f Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Date != nil {
		conds = append(conds, "entry_date = ?")
		args = append(args, dbx.FormatDate(*f.Date, r.loc))
	}
	if f.DateTo != nil {
		conds = append(conds, "entry_date <= ?")
		args = append(args, dbx.FormatDate(*f.DateTo, r.loc))
	}
	if f.Section != "" {
		conds = append(conds, "section = ?")
		args = append(args, string(f.Section))
	}
	if f.Assente != nil {
		conds = append(conds, "assente = ?")
		args = append(args, *f.Assente)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLRepository) scan(s scanner) (*models.Entry, error) {
	var (
		e                               models.Entry
		section, date, created          string
		consulente, tipo, sent, resched sql.NullString
		f                               models.Flags
	)
	err := s.Scan(&e.ID, &section, &date, &e.EntryTime, &created,
		&e.Nome, &e.Cognome, &e.Telefono, &consulente, &tipo, &e.Fonte,
		&f.Presentato, &f.Venduto, &f.Negativo, &f.Assente, &f.Miss, &e.Contattato,
		&e.WhatsAppSent, &sent, &e.Comeback, &e.Note, &resched)
	if err != nil {
		return nil, err
	}

	e.Section = models.Section(section)
	if e.EntryDate, err = dbx.ParseDate(date, r.loc); err != nil {
		return nil, err
	}
	if e.CreatedAt, err = dbx.ParseInstant(created, r.loc); err != nil {
		return nil, err
	}
	if e.WhatsAppSentDate, err = dbx.ParseNullInstant(sent, r.loc); err != nil {
		return nil, err
	}
	e.ConsulenteID = consulente.String
	e.TipoAbbonamentoID = tipo.String
	e.RescheduledFrom = resched.String
	e.Outcome = models.OutcomeFromFlags(f, e.TipoAbbonamentoID)
	return &e, nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	return nil
}
