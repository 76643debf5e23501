package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists the token as a plain redis string without expiry.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore creates a [RedisStore] using the key prefix+key ([DefaultKey] when key is empty).
func NewRedisStore(client redis.UniversalClient, prefix, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: prefix + key}
}

// Key returns the full redis key.
func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}
