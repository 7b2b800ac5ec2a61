package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/biolinkbr/backend/internal/dto"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements ProfileCache on Redis so multiple instances
// share one view-model cache.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: rdb, ttl: ttl}, nil
}

func key(username string) string {
	return "public_profile:" + username
}

func (r *RedisStore) Get(ctx context.Context, username string) (*dto.PublicProfileResponse, bool) {
	data, err := r.client.Get(ctx, key(username)).Bytes()
	if err != nil {
		return nil, false
	}
	var view dto.PublicProfileResponse
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, false
	}
	return &view, true
}

func (r *RedisStore) Set(ctx context.Context, username string, view *dto.PublicProfileResponse) error {
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(username), data, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, username string) error {
	return r.client.Del(ctx, key(username)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
