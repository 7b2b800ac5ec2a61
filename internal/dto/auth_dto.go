package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Plan     string    `json:"plano_atual"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// SessionResponse is the resolved account state for the calling token.
type SessionResponse struct {
	User            UserResponse `json:"user"`
	NeedsOnboarding bool         `json:"needs_onboarding"`
	TrialActive     bool         `json:"teste_ativo"`
	TrialExpiresAt  *time.Time   `json:"teste_expira_em"`
	// TrialJustExpired is set exactly once, on the resolution that
	// downgraded an expired trial to free.
	TrialJustExpired bool `json:"trial_just_expired"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
