package services

import (
	"context"
	"testing"

	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangePlanEndsTrial(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "ana", models.PlanTrial)
	require.NoError(t, db.Model(user).Update("teste_ativo", true).Error)
	svc := NewPlanService(st)
	ctx := context.Background()

	changed, err := svc.Change(ctx, user.ID, models.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, changed.Plan)
	assert.False(t, changed.TrialActive)

	stored, err := st.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, stored.Plan)
	assert.False(t, stored.TrialActive)
}

func TestChangePlanRejectsUnknownTier(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "bob", models.PlanFree)
	svc := NewPlanService(st)

	_, err := svc.Change(context.Background(), user.ID, "enterprise")
	assert.ErrorIs(t, err, faults.ErrValidation)

	// The trial tier is granted at sign-up only, never selected.
	_, err = svc.Change(context.Background(), user.ID, models.PlanTrial)
	assert.ErrorIs(t, err, faults.ErrValidation)
}
