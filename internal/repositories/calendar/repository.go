// Package calendar stores the calendar events created for rescheduled
// entries.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, ev *models.CalendarEvent) error
	ListByEntry(ctx context.Context, entryID string) ([]models.CalendarEvent, error)
	// DeleteByEntry removes every event linked to entryID and reports how
	// many were removed.
	DeleteByEntry(ctx context.Context, entryID string) (int64, error)
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

func (r *SQLRepository) Insert(ctx context.Context, ev *models.CalendarEvent) error {
	query := `INSERT INTO calendar_events (id, entry_id, title, starts_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		ev.ID, ev.EntryID, ev.Title, dbx.FormatInstant(ev.StartsAt))
	if err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListByEntry(ctx context.Context, entryID string) ([]models.CalendarEvent, error) {
	query := `SELECT id, entry_id, title, starts_at FROM calendar_events WHERE entry_id = ? ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to select calendar events: %w", err)
	}
	defer rows.Close()

	var result []models.CalendarEvent
	for rows.Next() {
		var (
			ev     models.CalendarEvent
			starts string
		)
		if err := rows.Scan(&ev.ID, &ev.EntryID, &ev.Title, &starts); err != nil {
			return nil, err
		}
		if ev.StartsAt, err = dbx.ParseInstant(starts, r.loc); err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) DeleteByEntry(ctx context.Context, entryID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM calendar_events WHERE entry_id = ?`), entryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete calendar events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
