// Package services orchestrates the desk use cases: outcome transitions
// through their popups, entry editing and derivation, and the reminder
// buckets. Persistence always happens before the in-memory state changes.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/logging"
	"github.com/dmitrijs2005/frontdesk/internal/metrics"
	"github.com/dmitrijs2005/frontdesk/internal/repositories/repomanager"
	"github.com/dmitrijs2005/frontdesk/internal/timex"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	DB      *sql.DB
	Repos   repomanager.RepositoryManager
	Clock   timex.Clock
	Loc     *time.Location
	Logger  logging.Logger
	Metrics *metrics.Metrics
}

func (d Deps) today() time.Time {
	return timex.StartOfDay(d.Clock.Now(), d.Loc)
}

// storeErr records a failed store call and wraps it with common.ErrStore.
func (d Deps) storeErr(ctx context.Context, op string, err error) error {
	d.Metrics.StoreError(op)
	d.Logger.Error(ctx, "store operation failed", "action", op, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrStore, op, err)
}
