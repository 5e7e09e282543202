// Package repotest opens migrated in-memory databases for repository and
// service tests.
package repotest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/dbx"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/migrations"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// Rome is the fixed business zone used by tests.
var Rome = time.FixedZone("CET", 3600)

// OpenSQLite returns a single-connection in-memory SQLite database with the
// full schema applied. It is closed when the test ends.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(dbx.SQLite.Driver, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, dbx.SQLite.Name))
	return db
}
