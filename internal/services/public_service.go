package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/biolinkbr/backend/internal/cache"
	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/google/uuid"
)

type publicStore interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	ProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	LinksByUserID(ctx context.Context, userID uuid.UUID) ([]models.Link, error)
}

// PublicService resolves a raw path segment to the read-only page view.
// Resolution mutates nothing and is idempotent; the whole lookup runs
// under one timeout, and a retry re-runs it from the start.
type PublicService struct {
	store   publicStore
	cache   cache.ProfileCache
	timeout time.Duration
}

func NewPublicService(st publicStore, pc cache.ProfileCache, timeout time.Duration) *PublicService {
	return &PublicService{store: st, cache: pc, timeout: timeout}
}

func (s *PublicService) Resolve(ctx context.Context, rawUsername string) (*dto.PublicProfileResponse, error) {
	username := strings.ToLower(strings.TrimSpace(rawUsername))
	if username == "" {
		return nil, faults.NotFound("Perfil não encontrado")
	}

	if view, ok := s.cache.Get(ctx, username); ok {
		return view, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, faults.ErrNotFound) {
			return nil, faults.NotFound("Perfil não encontrado")
		}
		return nil, timeoutOr(ctx, err)
	}

	profile, err := s.store.ProfileByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, faults.ErrNotFound) {
		return nil, timeoutOr(ctx, err)
	}

	links, err := s.store.LinksByUserID(ctx, user.ID)
	if err != nil {
		return nil, timeoutOr(ctx, err)
	}

	view := assemble(user, profile, links)
	if err := s.cache.Set(ctx, username, view); err != nil {
		slog.Warn("public profile cache set failed", "username", username, "error", err)
	}
	return view, nil
}

// assemble builds the view model, filling each absent profile field
// with its documented default.
func assemble(user *models.User, profile *models.Profile, links []models.Link) *dto.PublicProfileResponse {
	view := &dto.PublicProfileResponse{
		Username:        user.Username,
		Name:            user.Name,
		BackgroundType:  models.BackgroundColor,
		BackgroundColor: models.DefaultBackgroundColor,
		Opacity:         models.DefaultOpacity,
		Theme:           models.DefaultTheme,
		Links:           make([]dto.PublicLink, 0, len(links)),
	}

	if profile != nil {
		view.Bio = profile.Bio
		view.AvatarURL = profile.AvatarURL
		view.Grayscale = profile.Grayscale
		if profile.BackgroundType != "" {
			view.BackgroundType = profile.BackgroundType
		}
		if profile.BackgroundColor != "" {
			view.BackgroundColor = profile.BackgroundColor
		}
		view.BackgroundImg = profile.BackgroundImg
		if profile.Opacity != nil {
			view.Opacity = *profile.Opacity
		}
		if profile.Theme != "" {
			view.Theme = profile.Theme
		}
	}

	for _, link := range links {
		view.Links = append(view.Links, dto.PublicLink{
			Title: link.Title,
			URL:   link.URL,
			Style: link.Style,
			Order: link.Order,
		})
	}
	return view
}

// timeoutOr maps a deadline hit to the TimedOut fault, keeping it
// distinct from NotFound so callers can offer a retry.
func timeoutOr(ctx context.Context, err error) error {
	if errors.Is(err, faults.ErrTimedOut) {
		return faults.ErrTimedOut
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return faults.ErrTimedOut
	}
	return err
}
