package session

import (
	"context"
	"fmt"

	"github.com/desertthunder/wasaphoto/internal/repositories"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/redis/go-redis/v9"
)

// Open builds the [Store] selected by conf.Session.Backend.
//
// The returned close function releases the backend's connections and is never nil.
func Open(ctx context.Context, conf *shared.Config) (Store, func() error, error) {
	noop := func() error { return nil }

	switch conf.Session.Backend {
	case shared.BackendMemory:
		return NewMemoryStore(""), noop, nil

	case shared.BackendSQLite:
		db, err := shared.OpenDatabase(conf.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
		}
		repo := repositories.NewLocalStorageRepository(db)
		return NewSQLiteStore(repo, conf.Session.Key), db.Close, nil

	case shared.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("%w: redis %s: %v", shared.ErrStoreUnavailable, conf.Redis.Addr, err)
		}
		return NewRedisStore(client, conf.Redis.Prefix, conf.Session.Key), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, conf.Session.Backend)
	}
}
