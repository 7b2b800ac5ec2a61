package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan tiers. Trial accounts must always carry a TrialExpiresAt.
const (
	PlanFree    = "free"
	PlanStarter = "starter"
	PlanPro     = "pro"
	PlanPremium = "premium"
	PlanTrial   = "trial"
)

var PaidPlans = []string{PlanStarter, PlanPro, PlanPremium}

// FreeTierLinkLimit caps how many links a free account may hold.
const FreeTierLinkLimit = 2

// User mirrors the users table consumed by the web app. Usernames are
// stored lowercase; lookups are case-insensitive.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string         `gorm:"size:60;not null;uniqueIndex" json:"username"`
	Email          string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name           string         `gorm:"size:120" json:"name"`
	Password       string         `gorm:"not null" json:"-"`
	Plan           string         `gorm:"column:plano_atual;size:20;not null;default:'free'" json:"plano_atual"`
	TrialActive    bool           `gorm:"column:teste_ativo;default:false" json:"teste_ativo"`
	TrialExpiresAt *time.Time     `gorm:"column:teste_expira_em" json:"teste_expira_em"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// OnPaidPlan reports whether the account is on any paying tier.
func (u *User) OnPaidPlan() bool {
	for _, p := range PaidPlans {
		if u.Plan == p {
			return true
		}
	}
	return false
}

// TrialExpired reports whether a trial plan has run past its window.
func (u *User) TrialExpired(now time.Time) bool {
	return u.Plan == PlanTrial && u.TrialExpiresAt != nil && !now.Before(*u.TrialExpiresAt)
}
