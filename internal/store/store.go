package store

import (
	"context"
	"errors"
	"strings"

	"github.com/biolinkbr/backend/internal/faults"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the row-store boundary. Every method returns domain rows and
// faults from the internal taxonomy; GORM's error surface stops here.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return faults.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return faults.ErrTimedOut
	}
	return faults.Remote(err)
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// UserByUsername looks an account up case-insensitively. Usernames are
// stored lowercase, so lowering the input is enough.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&user).Error
	if err != nil {
		return nil, classify(err)
	}
	return &user, nil
}

// UsernameTaken checks case-insensitive uniqueness, ignoring the given
// account so it can keep its own name.
func (s *Store) UsernameTaken(ctx context.Context, username string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = ? AND id <> ?", strings.ToLower(username), exclude).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return classify(s.db.WithContext(ctx).Create(user).Error)
}

// UpdateUserPlan persists a plan change, clearing the trial flag.
func (s *Store) UpdateUserPlan(ctx context.Context, id uuid.UUID, plan string, trialActive bool) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"plano_atual": plan,
			"teste_ativo": trialActive,
		})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return faults.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("username", strings.ToLower(username))
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return faults.ErrNotFound
	}
	return nil
}

func (s *Store) ProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, classify(err)
	}
	return &profile, nil
}

func (s *Store) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return classify(s.db.WithContext(ctx).Create(profile).Error)
}

func (s *Store) SaveProfile(ctx context.Context, profile *models.Profile) error {
	return classify(s.db.WithContext(ctx).Save(profile).Error)
}

// LinksByUserID returns the user's links in render order.
func (s *Store) LinksByUserID(ctx context.Context, userID uuid.UUID) ([]models.Link, error) {
	var links []models.Link
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ordem ASC").
		Find(&links).Error
	if err != nil {
		return nil, classify(err)
	}
	return links, nil
}

func (s *Store) LinkByID(ctx context.Context, userID, linkID uuid.UUID) (*models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).
		First(&link, "id = ? AND user_id = ?", linkID, userID).Error
	if err != nil {
		return nil, classify(err)
	}
	return &link, nil
}

func (s *Store) CountLinks(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Link{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

// MaxLinkOrder returns the highest ordem for the user and whether any
// link exists at all.
func (s *Store) MaxLinkOrder(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	var link models.Link
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ordem DESC").
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify(err)
	}
	return link.Order, true, nil
}

func (s *Store) CreateLink(ctx context.Context, link *models.Link) error {
	return classify(s.db.WithContext(ctx).Create(link).Error)
}

func (s *Store) SaveLink(ctx context.Context, link *models.Link) error {
	return classify(s.db.WithContext(ctx).Save(link).Error)
}

func (s *Store) DeleteLink(ctx context.Context, userID, linkID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", linkID, userID).
		Delete(&models.Link{})
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return faults.ErrNotFound
	}
	return nil
}
