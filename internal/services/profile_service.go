package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/biolinkbr/backend/internal/cache"
	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/biolinkbr/backend/internal/store"
	"github.com/google/uuid"
)

var profileUsernameRe = regexp.MustCompile(`^[a-z0-9_]{3,}$`)

// ProfileService applies editor form edits to the row store. Each
// mutation is one remote write; on failure nothing local changes and
// the fault is surfaced for user-visible reporting.
type ProfileService struct {
	store *store.Store
	cache cache.ProfileCache
}

func NewProfileService(st *store.Store, pc cache.ProfileCache) *ProfileService {
	return &ProfileService{store: st, cache: pc}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, faults.Precondition("active session required")
	}
	return s.store.ProfileByUserID(ctx, userID)
}

// Update applies the non-nil fields of the request and re-reads nothing:
// the returned profile is the merged row that was written.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, faults.Precondition("active session required")
	}

	profile, err := s.store.ProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Theme != nil && !validTheme(*req.Theme) {
		return nil, faults.Validation("unknown theme")
	}
	if req.BackgroundType != nil &&
		*req.BackgroundType != models.BackgroundColor && *req.BackgroundType != models.BackgroundImage {
		return nil, faults.Validation("background_type must be color or image")
	}
	if req.Opacity != nil && (*req.Opacity < 0 || *req.Opacity > 1) {
		return nil, faults.Validation("opacity must be between 0 and 1")
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.BackgroundImg != nil {
		profile.BackgroundImg = *req.BackgroundImg
	}
	if req.BackgroundColor != nil {
		profile.BackgroundColor = *req.BackgroundColor
	}
	if req.BackgroundType != nil {
		profile.BackgroundType = *req.BackgroundType
	}
	if req.Opacity != nil {
		profile.Opacity = req.Opacity
	}
	if req.Grayscale != nil {
		profile.Grayscale = *req.Grayscale
	}
	if req.Theme != nil {
		profile.Theme = *req.Theme
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return profile, nil
}

// ChangeUsername re-validates pattern and case-insensitive uniqueness
// before committing; any failure leaves the prior username untouched.
func (s *ProfileService) ChangeUsername(ctx context.Context, userID uuid.UUID, requested string) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, faults.Precondition("active session required")
	}

	username := strings.ToLower(strings.TrimSpace(requested))
	if !profileUsernameRe.MatchString(username) {
		return nil, faults.Validation("username must be lowercase letters, digits or underscore, minimum 3 characters")
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Username == username {
		return user, nil
	}

	taken, err := s.store.UsernameTaken(ctx, username, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, faults.Validation("username already taken")
	}

	previous := user.Username
	if err := s.store.UpdateUsername(ctx, userID, username); err != nil {
		return nil, err
	}
	user.Username = username

	// Both the old and the new public URLs change meaning.
	if err := s.cache.Delete(ctx, previous); err != nil {
		slog.Warn("cache invalidation failed", "username", previous, "error", err)
	}
	if err := s.cache.Delete(ctx, username); err != nil {
		slog.Warn("cache invalidation failed", "username", username, "error", err)
	}

	return user, nil
}

func (s *ProfileService) invalidate(ctx context.Context, userID uuid.UUID) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return
	}
	if err := s.cache.Delete(ctx, user.Username); err != nil {
		slog.Warn("cache invalidation failed", "username", user.Username, "error", err)
	}
}

func validTheme(theme string) bool {
	for _, t := range models.ProfileThemes {
		if t == theme {
			return true
		}
	}
	return false
}
