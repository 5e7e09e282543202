package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/frontdesk/internal/common"
	"github.com/dmitrijs2005/frontdesk/internal/models"
	"github.com/google/uuid"
)

// PassService hands out trial passes and tracks their follow-up calls.
type PassService interface {
	// Add records a pass delivered today.
	Add(ctx context.Context, nome, telefono string) (models.Pass, error)
	// PendingFollowUps lists the passes delivered at least the configured
	// number of days ago that were neither activated nor followed up.
	PendingFollowUps(ctx context.Context) ([]models.Pass, error)
	MarkFollowUpSent(ctx context.Context, id string) error
}

type passService struct {
	Deps
	followUpDays int
}

func NewPassService(deps Deps, followUpDays int) PassService {
	deps.Logger = deps.Logger.With("module", "passes")
	return &passService{Deps: deps, followUpDays: followUpDays}
}

func (s *passService) Add(ctx context.Context, nome, telefono string) (models.Pass, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return models.Pass{}, fmt.Errorf("%w: pass without a name", common.ErrValidation)
	}
	p := models.Pass{
		ID:          uuid.NewString(),
		Nome:        nome,
		Telefono:    strings.TrimSpace(telefono),
		DeliveredOn: s.today(),
	}
	if err := s.Repos.Passes(s.DB).Insert(ctx, &p); err != nil {
		return models.Pass{}, s.storeErr(ctx, "pass_insert", err)
	}
	s.Logger.Info(ctx, "pass delivered", "pass_id", p.ID)
	return p, nil
}

func (s *passService) PendingFollowUps(ctx context.Context) ([]models.Pass, error) {
	cutoff := s.today().AddDate(0, 0, -s.followUpDays)
	list, err := s.Repos.Passes(s.DB).ListPendingFollowUps(ctx, cutoff)
	if err != nil {
		return nil, s.storeErr(ctx, "passes", err)
	}
	return list, nil
}

func (s *passService) MarkFollowUpSent(ctx context.Context, id string) error {
	if err := s.Repos.Passes(s.DB).MarkFollowUpSent(ctx, id, s.today()); err != nil {
		return s.storeErr(ctx, "pass_followup", err)
	}
	s.Logger.Info(ctx, "pass followed up", "pass_id", id)
	return nil
}
