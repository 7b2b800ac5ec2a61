package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/google/uuid"
)

// SessionInfo is what the credential store knows about a session:
// the identity id plus whatever metadata was captured at sign-up.
type SessionInfo struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Name     string
}

// Account is a resolved account with its derived fields.
type Account struct {
	User            models.User
	Profile         *models.Profile
	NeedsOnboarding bool
	// TrialJustExpired is set only on the resolution that performed the
	// trial-to-free downgrade, so callers can surface a one-time notice.
	TrialJustExpired bool
}

type accountStore interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserPlan(ctx context.Context, id uuid.UUID, plan string, trialActive bool) error
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// Resolver turns a session into a resolved account, healing the case
// where the credential store has an identity but the row store has no
// matching users row yet.
type Resolver struct {
	store     accountStore
	trialDays int
	now       func() time.Time
}

func New(store accountStore, trialDays int) *Resolver {
	return &Resolver{store: store, trialDays: trialDays, now: time.Now}
}

// Resolve loads the account row for the session. A missing row is
// synthesized from session metadata and the load retried exactly once;
// a second miss is reported as ErrRowMissing rather than retried again.
func (r *Resolver) Resolve(ctx context.Context, session SessionInfo) (*Account, error) {
	user, err := r.store.UserByID(ctx, session.UserID)
	if errors.Is(err, faults.ErrNotFound) {
		slog.Warn("account row missing, synthesizing", "user_id", session.UserID)
		if synthErr := r.synthesize(ctx, session); synthErr != nil {
			return nil, fmt.Errorf("%w: synthesis failed: %v", faults.ErrRowMissing, synthErr)
		}
		user, err = r.store.UserByID(ctx, session.UserID)
		if errors.Is(err, faults.ErrNotFound) {
			return nil, fmt.Errorf("%w: row absent after synthesis", faults.ErrRowMissing)
		}
	}
	if err != nil {
		return nil, err
	}

	account := &Account{User: *user}

	if expired, err := r.downgradeExpiredTrial(ctx, account); err != nil {
		return nil, err
	} else {
		account.TrialJustExpired = expired
	}

	profile, err := r.store.ProfileByUserID(ctx, session.UserID)
	if err != nil && !errors.Is(err, faults.ErrNotFound) {
		return nil, err
	}
	account.Profile = profile
	account.NeedsOnboarding = !profile.Complete()

	return account, nil
}

// synthesize creates the users row the sign-up trigger should have
// written, deriving fields from session metadata.
func (r *Resolver) synthesize(ctx context.Context, session SessionInfo) error {
	username := strings.ToLower(session.Username)
	if username == "" {
		username = strings.ToLower(strings.Split(session.Email, "@")[0])
	}
	name := session.Name
	if name == "" {
		name = username
	}

	expires := r.now().AddDate(0, 0, r.trialDays)
	user := models.User{
		ID:             session.UserID,
		Username:       username,
		Email:          session.Email,
		Name:           name,
		Plan:           models.PlanTrial,
		TrialActive:    true,
		TrialExpiresAt: &expires,
	}
	return r.store.CreateUser(ctx, &user)
}

// downgradeExpiredTrial persists plan=free before the account is ever
// exposed, so every later resolution already observes free.
func (r *Resolver) downgradeExpiredTrial(ctx context.Context, account *Account) (bool, error) {
	if !account.User.TrialExpired(r.now()) {
		return false, nil
	}
	if err := r.store.UpdateUserPlan(ctx, account.User.ID, models.PlanFree, false); err != nil {
		return false, err
	}
	account.User.Plan = models.PlanFree
	account.User.TrialActive = false
	slog.Info("trial expired, downgraded to free", "user_id", account.User.ID)
	return true, nil
}
