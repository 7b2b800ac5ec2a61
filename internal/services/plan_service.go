package services

import (
	"context"

	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/biolinkbr/backend/internal/store"
	"github.com/google/uuid"
)

// PlanService applies explicit plan changes. Checkout is simulated:
// there is no billing provider behind this, only the plan column.
type PlanService struct {
	store *store.Store
}

func NewPlanService(st *store.Store) *PlanService {
	return &PlanService{store: st}
}

var selectablePlans = map[string]bool{
	models.PlanFree:    true,
	models.PlanStarter: true,
	models.PlanPro:     true,
	models.PlanPremium: true,
}

// Change moves the account to the requested tier. Any explicit change
// ends an active trial.
func (s *PlanService) Change(ctx context.Context, userID uuid.UUID, plan string) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, faults.Precondition("active session required")
	}
	if !selectablePlans[plan] {
		return nil, faults.Validation("unknown plan")
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateUserPlan(ctx, userID, plan, false); err != nil {
		return nil, err
	}
	user.Plan = plan
	user.TrialActive = false
	return user, nil
}
