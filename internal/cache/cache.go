package cache

import (
	"context"

	"github.com/biolinkbr/backend/internal/dto"
)

// ProfileCache sits in front of public profile resolution. Entries are
// keyed by lowercase username and invalidated on any mutation that could
// change the rendered page.
type ProfileCache interface {
	Get(ctx context.Context, username string) (*dto.PublicProfileResponse, bool)
	Set(ctx context.Context, username string, view *dto.PublicProfileResponse) error
	Delete(ctx context.Context, username string) error
	Close() error
}
