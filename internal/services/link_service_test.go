package services

import (
	"context"
	"testing"

	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLinkOrdersStrictlyIncrease(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "ana", models.PlanPro)
	svc := NewLinkService(st, &spyCache{})
	ctx := context.Background()

	titles := []string{"Blog", "Loja", "YouTube", "Contato"}
	var orders []int
	for _, title := range titles {
		link, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: title, URL: "https://example.com"})
		require.NoError(t, err)
		orders = append(orders, link.Order)
	}

	assert.Equal(t, []int{0, 1, 2, 3}, orders)
}

func TestRemoveNeverReusesOrders(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "ana", models.PlanPro)
	svc := NewLinkService(st, &spyCache{})
	ctx := context.Background()

	first, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "a", URL: "https://a"})
	require.NoError(t, err)
	second, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "b", URL: "https://b"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, user.ID, first.ID))

	// The survivor keeps its order and the next append goes above it.
	links, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, second.Order, links[0].Order)

	third, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "c", URL: "https://c"})
	require.NoError(t, err)
	assert.Equal(t, second.Order+1, third.Order)
}

func TestAddLinkFreePlanCap(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "bob", models.PlanFree)
	svc := NewLinkService(st, &spyCache{})
	ctx := context.Background()

	for i := 0; i < models.FreeTierLinkLimit; i++ {
		_, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "t", URL: "https://x"})
		require.NoError(t, err)
	}

	_, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "extra", URL: "https://x"})
	assert.ErrorIs(t, err, faults.ErrPrecondition)

	// The refused request wrote nothing.
	links, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, links, models.FreeTierLinkLimit)
}

func TestAddLinkTrialIsNotCapped(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "carla", models.PlanTrial)
	svc := NewLinkService(st, &spyCache{})
	ctx := context.Background()

	for i := 0; i < models.FreeTierLinkLimit+3; i++ {
		_, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "t", URL: "https://x"})
		require.NoError(t, err)
	}
}

func TestAddLinkValidation(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "dora", models.PlanPro)
	svc := NewLinkService(st, &spyCache{})
	ctx := context.Background()

	_, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "", URL: "https://x"})
	assert.ErrorIs(t, err, faults.ErrValidation)

	_, err = svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "t", URL: "https://x", Style: "sparkly"})
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestUpdateLinkPartial(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "edu", models.PlanPro)
	svc := NewLinkService(st, &spyCache{})
	ctx := context.Background()

	link, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "old", URL: "https://old"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, link.ID, &dto.UpdateLinkRequest{Title: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "https://old", updated.URL, "unset fields stay untouched")
	assert.Equal(t, link.Order, updated.Order)
}

func TestUpdateLinkOfAnotherUser(t *testing.T) {
	db, st := newStore(t)
	owner := seedUser(t, db, "fia", models.PlanPro)
	intruder := seedUser(t, db, "gil", models.PlanPro)
	svc := NewLinkService(st, &spyCache{})
	ctx := context.Background()

	link, err := svc.Add(ctx, owner.ID, &dto.CreateLinkRequest{Title: "t", URL: "https://x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, intruder.ID, link.ID, &dto.UpdateLinkRequest{Title: ptr("stolen")})
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestLinkMutationsInvalidatePublicCache(t *testing.T) {
	db, st := newStore(t)
	user := seedUser(t, db, "hugo", models.PlanPro)
	cache := &spyCache{}
	svc := NewLinkService(st, cache)
	ctx := context.Background()

	link, err := svc.Add(ctx, user.ID, &dto.CreateLinkRequest{Title: "t", URL: "https://x"})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, user.ID, link.ID))

	assert.Equal(t, []string{"hugo", "hugo"}, cache.deletions())
}
