// Package passes stores trial passes handed to leads and counts the ones
// waiting for a follow-up.
package passes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, p *models.Pass) error
	// CountPendingFollowUps counts passes delivered on or before cutoff that
	// were neither activated nor followed up.
	CountPendingFollowUps(ctx context.Context, cutoff time.Time) (int, error)
	// ListPendingFollowUps returns the same passes, oldest delivery first.
	ListPendingFollowUps(ctx context.Context, cutoff time.Time) ([]models.Pass, error)
	MarkFollowUpSent(ctx context.Context, id string, on time.Time) error
}

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	loc     *time.Location
}

func NewSQLiteRepository(db dbx.DBTX, loc *time.Location) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.SQLite, loc: loc}
}

func NewPostgresRepository(db dbx.DBTX, loc *time.Location) *SQLRepository {
	return &SQLRepository{db: db, dialect: dbx.Postgres, loc: loc}
}

func (r *SQLRepository) Insert(ctx context.Context, p *models.Pass) error {
	query := `INSERT INTO passes (id, nome, telefono, delivered_on, activated_on, followup_sent_on)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		p.ID, p.Nome, p.Telefono,
		dbx.FormatDate(p.DeliveredOn, r.loc),
		dbx.NullDate(p.ActivatedOn, r.loc),
		dbx.NullDate(p.FollowUpSentOn, r.loc))
	if err != nil {
		return fmt.Errorf("failed to insert pass: %w", err)
	}
	return nil
}

func (r *SQLRepository) CountPendingFollowUps(ctx context.Context, cutoff time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM passes
		WHERE delivered_on <= ? AND activated_on IS NULL AND followup_sent_on IS NULL`

	var n int
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), dbx.FormatDate(cutoff, r.loc)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count passes: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) ListPendingFollowUps(ctx context.Context, cutoff time.Time) ([]models.Pass, error) {
	query := `SELECT id, nome, telefono, delivered_on, activated_on, followup_sent_on FROM passes
		WHERE delivered_on <= ? AND activated_on IS NULL AND followup_sent_on IS NULL
		ORDER BY delivered_on, id`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), dbx.FormatDate(cutoff, r.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to select passes: %w", err)
	}
	defer rows.Close()

	var result []models.Pass
	for rows.Next() {
		var (
			p                   models.Pass
			delivered           string
			activated, followUp sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Nome, &p.Telefono, &delivered, &activated, &followUp); err != nil {
			return nil, fmt.Errorf("pass row scan failed: %w", err)
		}
		if p.DeliveredOn, err = dbx.ParseDate(delivered, r.loc); err != nil {
			return nil, err
		}
		if p.ActivatedOn, err = dbx.ParseNullDate(activated, r.loc); err != nil {
			return nil, err
		}
		if p.FollowUpSentOn, err = dbx.ParseNullDate(followUp, r.loc); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) MarkFollowUpSent(ctx context.Context, id string, on time.Time) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`UPDATE passes SET followup_sent_on = ? WHERE id = ?`),
		dbx.FormatDate(on, r.loc), id)
	if err != nil {
		return fmt.Errorf("failed to update pass: %w", err)
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pass %s: %w", id, common.ErrNotFound)
	}
	return nil
}
