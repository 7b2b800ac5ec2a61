package cache

import (
	"context"
	"time"

	"github.com/biolinkbr/backend/internal/dto"
	lru "github.com/hashicorp/golang-lru/v2"
)

type lruItem struct {
	view      *dto.PublicProfileResponse
	expiresAt time.Time
}

// LRUStore is the in-process fallback cache used when no Redis address
// is configured. Entries carry their own TTL on top of LRU eviction.
type LRUStore struct {
	cache *lru.Cache[string, lruItem]
	ttl   time.Duration
}

func NewLRUStore(size int, ttl time.Duration) (*LRUStore, error) {
	l, err := lru.New[string, lruItem](size)
	if err != nil {
		return nil, err
	}
	return &LRUStore{cache: l, ttl: ttl}, nil
}

func (s *LRUStore) Get(_ context.Context, username string) (*dto.PublicProfileResponse, bool) {
	item, ok := s.cache.Get(username)
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		s.cache.Remove(username)
		return nil, false
	}
	return item.view, true
}

func (s *LRUStore) Set(_ context.Context, username string, view *dto.PublicProfileResponse) error {
	s.cache.Add(username, lruItem{view: view, expiresAt: time.Now().Add(s.ttl)})
	return nil
}

func (s *LRUStore) Delete(_ context.Context, username string) error {
	s.cache.Remove(username)
	return nil
}

func (s *LRUStore) Close() error {
	return nil
}
