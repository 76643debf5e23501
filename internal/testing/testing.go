// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"
)

// ErrStoreDown is returned by [FailingStore].
var ErrStoreDown = errors.New("storage backend unavailable")

// FailingStore is a session store whose every operation fails.
type FailingStore struct{}

func (FailingStore) Get(ctx context.Context) (string, error)     { return "", ErrStoreDown }
func (FailingStore) Set(ctx context.Context, token string) error { return ErrStoreDown }
func (FailingStore) Clear(ctx context.Context) error             { return ErrStoreDown }

// PanickingStore panics on Get, standing in for a backend that throws.
type PanickingStore struct{}

func (PanickingStore) Get(ctx context.Context) (string, error)     { panic("corrupted value") }
func (PanickingStore) Set(ctx context.Context, token string) error { return nil }
func (PanickingStore) Clear(ctx context.Context) error             { return nil }

// RecordingStore is an in-memory session store that counts calls, so tests can assert reads never write.
type RecordingStore struct {
	mu     sync.Mutex
	token  string
	Gets   int
	Sets   int
	Clears int
}

// NewRecordingStore creates a [RecordingStore] holding token.
func NewRecordingStore(token string) *RecordingStore {
	return &RecordingStore{token: token}
}

func (r *RecordingStore) Get(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Gets++
	return r.token, nil
}

func (r *RecordingStore) Set(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sets++
	r.token = token
	return nil
}

func (r *RecordingStore) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clears++
	r.token = ""
	return nil
}

// Writes returns the number of Set and Clear calls.
func (r *RecordingStore) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Sets + r.Clears
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustWriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
