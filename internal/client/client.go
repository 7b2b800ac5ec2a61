package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/biolinkbr/backend/internal/resolver"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrLoginRejected = errors.New("invalid email or password")

// Client talks to the HTTP API on behalf of one signed-in user and
// adapts it to the auth-state engine: Resolve and Probe plug straight
// into authstate.NewBootstrapper.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs a previously issued access token, as a browser
// restores one from storage.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Login exchanges credentials for a token pair, stores the access token
// and returns the session the credential store now carries.
func (c *Client) Login(ctx context.Context, email, password string) (*resolver.SessionInfo, error) {
	body, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, faults.Remote(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrLoginRejected
	default:
		return nil, faults.Remote(fmt.Errorf("login returned %d", resp.StatusCode))
	}

	var auth dto.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, err
	}
	c.SetToken(auth.AccessToken)

	return &resolver.SessionInfo{
		UserID:   auth.User.ID,
		Email:    auth.User.Email,
		Username: auth.User.Username,
		Name:     auth.User.Name,
	}, nil
}

// Probe reports the locally stored session, if any, without a network
// round trip: the access token's claims carry the sign-up metadata. An
// unreadable token counts as signed out.
func (c *Client) Probe(context.Context) (*resolver.SessionInfo, error) {
	token := c.Token()
	if token == "" {
		return nil, nil
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, nil
	}

	info := &resolver.SessionInfo{UserID: id}
	if v, ok := claims["email"].(string); ok {
		info.Email = v
	}
	if v, ok := claims["username"].(string); ok {
		info.Username = v
	}
	if v, ok := claims["name"].(string); ok {
		info.Name = v
	}
	return info, nil
}

// Resolve asks the API for the resolved account behind the stored
// token. The server performs row synthesis and trial downgrade; this
// side only maps the response back into the fault taxonomy.
func (c *Client) Resolve(ctx context.Context, _ resolver.SessionInfo) (*resolver.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/session", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, faults.Remote(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return nil, faults.ErrRowMissing
	case http.StatusUnauthorized:
		return nil, faults.Precondition("session token rejected")
	default:
		return nil, faults.Remote(fmt.Errorf("session returned %d", resp.StatusCode))
	}

	var session dto.SessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}

	return &resolver.Account{
		User: models.User{
			ID:             session.User.ID,
			Username:       session.User.Username,
			Email:          session.User.Email,
			Name:           session.User.Name,
			Plan:           session.User.Plan,
			TrialActive:    session.TrialActive,
			TrialExpiresAt: session.TrialExpiresAt,
		},
		NeedsOnboarding:  session.NeedsOnboarding,
		TrialJustExpired: session.TrialJustExpired,
	}, nil
}
