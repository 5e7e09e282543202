// Package repomanager vends dialect-specific repositories bound to a DBTX
// and runs the schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/filex"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/calendar"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/entries"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/lookups"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/migrations"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/passes"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(ctx context.Context, db *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Passes(db dbx.DBTX) passes.Repository
	Lookups(db dbx.DBTX) lookups.Repository
	Calendar(db dbx.DBTX) calendar.Repository
}

// SQLiteRepositoryManager backs the single-desk local database.
type SQLiteRepositoryManager struct {
	loc *time.Location
}

func NewSQLiteRepositoryManager(loc *time.Location) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{loc: loc}
}

func (m *SQLiteRepositoryManager) Dialect() dbx.Dialect { return dbx.SQLite }

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, dbx.SQLite.Name)
}

func (m *SQLiteRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewSQLiteRepository(db, m.loc)
}

func (m *SQLiteRepositoryManager) Passes(db dbx.DBTX) passes.Repository {
	return passes.NewSQLiteRepository(db, m.loc)
}

func (m *SQLiteRepositoryManager) Lookups(db dbx.DBTX) lookups.Repository {
	return lookups.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Calendar(db dbx.DBTX) calendar.Repository {
	return calendar.NewSQLiteRepository(db, m.loc)
}

// PostgresRepositoryManager backs a database shared by several desks.
type PostgresRepositoryManager struct {
	loc *time.Location
}

func NewPostgresRepositoryManager(loc *time.Location) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{loc: loc}
}

func (m *PostgresRepositoryManager) Dialect() dbx.Dialect { return dbx.Postgres }

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrateUp(ctx, db, dbx.Postgres.Name)
}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db, m.loc)
}

func (m *PostgresRepositoryManager) Passes(db dbx.DBTX) passes.Repository {
	return passes.NewPostgresRepository(db, m.loc)
}

func (m *PostgresRepositoryManager) Lookups(db dbx.DBTX) lookups.Repository {
	return lookups.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Calendar(db dbx.DBTX) calendar.Repository {
	return calendar.NewPostgresRepository(db, m.loc)
}

// migrateUp is a seam for tests.
var migrateUp = migrations.Up

// ForDialect returns the manager for d.
func ForDialect(d dbx.Dialect, loc *time.Location) RepositoryManager {
	if d == dbx.Postgres {
		return NewPostgresRepositoryManager(loc)
	}
	return NewSQLiteRepositoryManager(loc)
}

// Open connects to dsn, picks the matching manager and migrates the schema.
func Open(ctx context.Context, dsn string, loc *time.Location) (*sql.DB, RepositoryManager, error) {
	d := dbx.DialectFor(dsn)
	if d == dbx.SQLite {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, nil, fmt.Errorf("failed to prepare database directory: %w", err)
		}
	}
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if d == dbx.SQLite {
		// a single writer keeps SQLite from reporting SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	m := ForDialect(d, loc)
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, m, nil
}
