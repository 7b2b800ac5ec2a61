package services

import (
	"context"
	"log/slog"

	"github.com/biolinkbr/backend/internal/cache"
	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/biolinkbr/backend/internal/store"
	"github.com/google/uuid"
)

// LinkService manages the ordered link list of an account. Orders only
// grow: AddLink appends at max+1 and removals never renumber survivors.
type LinkService struct {
	store *store.Store
	cache cache.ProfileCache
}

func NewLinkService(st *store.Store, pc cache.ProfileCache) *LinkService {
	return &LinkService{store: st, cache: pc}
}

func (s *LinkService) List(ctx context.Context, userID uuid.UUID) ([]models.Link, error) {
	if userID == uuid.Nil {
		return nil, faults.Precondition("active session required")
	}
	return s.store.LinksByUserID(ctx, userID)
}

// Add refuses over-cap requests before performing any write.
func (s *LinkService) Add(ctx context.Context, userID uuid.UUID, req *dto.CreateLinkRequest) (*models.Link, error) {
	if userID == uuid.Nil {
		return nil, faults.Precondition("active session required")
	}
	if req.Title == "" || req.URL == "" {
		return nil, faults.Validation("titulo and url are required")
	}
	style := req.Style
	if style == "" {
		style = "default"
	}
	if !models.ValidLinkStyle(style) {
		return nil, faults.Validation("unknown link style")
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Plan == models.PlanFree {
		count, err := s.store.CountLinks(ctx, userID)
		if err != nil {
			return nil, err
		}
		if count >= models.FreeTierLinkLimit {
			return nil, faults.Precondition("free plan link limit reached")
		}
	}

	order := 0
	if max, any, err := s.store.MaxLinkOrder(ctx, userID); err != nil {
		return nil, err
	} else if any {
		order = max + 1
	}

	link := models.Link{
		ID:     uuid.New(),
		UserID: userID,
		Title:  req.Title,
		URL:    req.URL,
		Style:  style,
		Order:  order,
	}
	if err := s.store.CreateLink(ctx, &link); err != nil {
		return nil, err
	}

	s.invalidate(ctx, user.Username)
	return &link, nil
}

func (s *LinkService) Update(ctx context.Context, userID, linkID uuid.UUID, req *dto.UpdateLinkRequest) (*models.Link, error) {
	if userID == uuid.Nil {
		return nil, faults.Precondition("active session required")
	}

	link, err := s.store.LinkByID(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	if req.Style != nil && !models.ValidLinkStyle(*req.Style) {
		return nil, faults.Validation("unknown link style")
	}
	if req.Title != nil {
		if *req.Title == "" {
			return nil, faults.Validation("titulo cannot be empty")
		}
		link.Title = *req.Title
	}
	if req.URL != nil {
		if *req.URL == "" {
			return nil, faults.Validation("url cannot be empty")
		}
		link.URL = *req.URL
	}
	if req.Style != nil {
		link.Style = *req.Style
	}

	if err := s.store.SaveLink(ctx, link); err != nil {
		return nil, err
	}

	s.invalidateByID(ctx, userID)
	return link, nil
}

func (s *LinkService) Remove(ctx context.Context, userID, linkID uuid.UUID) error {
	if userID == uuid.Nil {
		return faults.Precondition("active session required")
	}
	if err := s.store.DeleteLink(ctx, userID, linkID); err != nil {
		return err
	}
	s.invalidateByID(ctx, userID)
	return nil
}

func (s *LinkService) invalidateByID(ctx context.Context, userID uuid.UUID) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return
	}
	s.invalidate(ctx, user.Username)
}

func (s *LinkService) invalidate(ctx context.Context, username string) {
	if err := s.cache.Delete(ctx, username); err != nil {
		slog.Warn("cache invalidation failed", "username", username, "error", err)
	}
}
