package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/wasaphoto/internal/repositories"
	"github.com/desertthunder/wasaphoto/internal/shared"
)

// SQLiteStore persists the token in the local_storage table.
type SQLiteStore struct {
	repo *repositories.LocalStorageRepository
	key  string
}

// NewSQLiteStore creates a [SQLiteStore] writing under key, or [DefaultKey] when key is empty.
func NewSQLiteStore(repo *repositories.LocalStorageRepository, key string) *SQLiteStore {
	if key == "" {
		key = DefaultKey
	}
	return &SQLiteStore{repo: repo, key: key}
}

func (s *SQLiteStore) Get(ctx context.Context) (string, error) {
	item, err := s.repo.Get(s.key)
	if errors.Is(err, shared.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return item.Value(), nil
}

func (s *SQLiteStore) Set(ctx context.Context, token string) error {
	if err := s.repo.Put(s.key, token); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(s.key); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return nil
}
