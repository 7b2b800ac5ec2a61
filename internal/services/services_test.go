package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/biolinkbr/backend/internal/dto"
	"github.com/biolinkbr/backend/internal/models"
	"github.com/biolinkbr/backend/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Profile{}, &models.Link{}, &models.RefreshToken{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, plan string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Password: "x",
		Plan:     plan,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProfile(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Profile {
	t.Helper()
	profile := &models.Profile{ID: uuid.New(), UserID: userID, Theme: models.DefaultTheme}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// spyCache records invalidations and otherwise behaves as an empty cache.
type spyCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *spyCache) Get(context.Context, string) (*dto.PublicProfileResponse, bool) { return nil, false }
func (c *spyCache) Set(context.Context, string, *dto.PublicProfileResponse) error { return nil }
func (c *spyCache) Close() error                                                  { return nil }

func (c *spyCache) Delete(_ context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, username)
	return nil
}

func (c *spyCache) deletions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.deleted...)
}

func newStore(t *testing.T) (*gorm.DB, *store.Store) {
	t.Helper()
	db := testDB(t)
	return db, store.New(db)
}

func ptr[T any](v T) *T { return &v }
