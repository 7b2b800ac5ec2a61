package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/biolinkbr/backend/internal/authstate"
	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/gate"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/biolinkbr/backend/internal/resolver"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, id uuid.UUID, username string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      id.String(),
		"email":    username + "@example.com",
		"username": username,
		"name":     username,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// apiStub serves login and session for one account.
func apiStub(t *testing.T, userID uuid.UUID, session dto.SessionResponse) *httptest.Server {
	t.Helper()
	token := signedToken(t, userID, session.User.Username)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "s3nh4-forte" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(dto.AuthResponse{
			AccessToken: token,
			User:        session.User,
		})
	})
	mux.HandleFunc("/api/auth/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(session)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func sessionFixture(userID uuid.UUID) dto.SessionResponse {
	expires := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	return dto.SessionResponse{
		User: dto.UserResponse{
			ID: userID, Username: "joana", Email: "joana@example.com",
			Name: "Joana", Plan: models.PlanTrial,
		},
		NeedsOnboarding: true,
		TrialActive:     true,
		TrialExpiresAt:  &expires,
	}
}

func TestLoginStoresTokenAndReturnsSession(t *testing.T) {
	userID := uuid.New()
	srv := apiStub(t, userID, sessionFixture(userID))
	c := New(srv.URL)

	info, err := c.Login(context.Background(), "joana@example.com", "s3nh4-forte")
	require.NoError(t, err)
	assert.Equal(t, userID, info.UserID)
	assert.Equal(t, "joana", info.Username)
	assert.NotEmpty(t, c.Token())

	_, err = c.Login(context.Background(), "joana@example.com", "errada")
	assert.ErrorIs(t, err, ErrLoginRejected)
}

func TestProbeFromStoredToken(t *testing.T) {
	userID := uuid.New()
	c := New("http://unused")

	info, err := c.Probe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, info, "no token means signed out")

	c.SetToken(signedToken(t, userID, "pedro"))
	info, err = c.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, userID, info.UserID)
	assert.Equal(t, "pedro", info.Username)
	assert.Equal(t, "pedro@example.com", info.Email)

	c.SetToken("not-a-jwt")
	info, err = c.Probe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, info, "an unreadable token counts as signed out")
}

func TestResolveMapsSessionResponse(t *testing.T) {
	userID := uuid.New()
	fixture := sessionFixture(userID)
	srv := apiStub(t, userID, fixture)
	c := New(srv.URL)
	c.SetToken(signedToken(t, userID, "joana"))

	account, err := c.Resolve(context.Background(), resolver.SessionInfo{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, userID, account.User.ID)
	assert.Equal(t, models.PlanTrial, account.User.Plan)
	assert.True(t, account.User.TrialActive)
	require.NotNil(t, account.User.TrialExpiresAt)
	assert.True(t, account.NeedsOnboarding)
}

func TestResolveRowMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL)
	c.SetToken("x")

	_, err := c.Resolve(context.Background(), resolver.SessionInfo{})
	assert.ErrorIs(t, err, faults.ErrRowMissing)
}

// The client, bootstrapper and gate work end to end over HTTP: a stored
// token probes into an authenticated snapshot, and the gate routes an
// incomplete profile to onboarding.
func TestGateOverHTTPSession(t *testing.T) {
	userID := uuid.New()
	srv := apiStub(t, userID, sessionFixture(userID))
	c := New(srv.URL)
	c.SetToken(signedToken(t, userID, "joana"))

	boot := authstate.NewBootstrapper(c, c.Probe)
	boot.Start(context.Background(), authstate.NewFeed())
	defer boot.Stop()

	decision := gate.Evaluate(context.Background(), boot, gate.PathDashboard, "", gate.Timeouts{
		Soft: 2 * time.Second,
		Hard: 4 * time.Second,
	})
	assert.Equal(t, gate.RedirectOnboarding, decision.Action)
	assert.Equal(t, gate.PathOnboarding, decision.Target)
}
