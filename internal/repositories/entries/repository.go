// Package entries is the store adapter for Entry records.
package entries

import (
	"context"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/models"
)

// Filter selects entries. Zero fields do not filter.
type Filter struct {
	// Date selects a single calendar day.
	Date *time.Time
	// DateTo bounds entry_date inclusively.
	DateTo  *time.Time
	Section models.Section
	// Assente selects rows by the stored assente flag.
	Assente *bool
}

// Repository is the CRUD/query surface over entries. Every call is
// independently fallible; writes are last-write-wins.
type Repository interface {
	// Insert stores e. Its ID must already be assigned.
	Insert(ctx context.Context, e *models.Entry) error

	// Update replaces the record with id by e. It returns common.ErrNotFound
	// when no row matches.
	Update(ctx context.Context, id string, e *models.Entry) error

	// Delete removes the entry with id.
	Delete(ctx context.Context, id string) error

	// GetByID returns one entry or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Entry, error)

	// Query lists entries matching f, ordered by date and time.
	Query(ctx context.Context, f Filter) ([]models.Entry, error)
}
