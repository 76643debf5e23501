package session

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultKey is the storage key the token is persisted under.
const DefaultKey = "token"

// Store holds at most one bearer token.
//
// Get returns "" with a nil error when no token is stored.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Present reports whether token counts as a credential.
func Present(token string) bool {
	return strings.TrimSpace(token) != ""
}

// Bearer reads the token from store and returns it when it is present.
//
// Read errors and panics are logged and reported as no token.
func Bearer(ctx context.Context, store Store, logger *log.Logger) (token string, ok bool) {
	if logger == nil {
		logger = log.Default()
	}
	if store == nil {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("session store panicked, treating as logged out", "panic", r)
			token, ok = "", false
		}
	}()

	value, err := store.Get(ctx)
	if err != nil {
		logger.Warn("session store read failed, treating as logged out", "error", err)
		return "", false
	}

	value = strings.TrimSpace(value)
	if !Present(value) {
		return "", false
	}
	return value, true
}

// Authenticated reports whether store currently holds a credential. It never returns true on error.
func Authenticated(ctx context.Context, store Store, logger *log.Logger) bool {
	_, ok := Bearer(ctx, store, logger)
	return ok
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates a [MemoryStore] holding token ("" for none).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Get(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryStore) Set(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	return m.Set(ctx, "")
}
