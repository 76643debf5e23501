package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	tu "github.com/desertthunder/wasaphoto/internal/testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc, store session.Store) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient(ClientOpts{BaseURL: server.URL, Store: store, Logger: shared.NewLogger(&bytes.Buffer{})})
}

func TestNewClient(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c := NewClient(ClientOpts{})

		if c.baseURL != "http://localhost:3000" {
			t.Errorf("expected default baseURL, got %s", c.baseURL)
		}
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("expected 5s timeout, got %s", c.httpClient.Timeout)
		}
		if c.limiter != nil {
			t.Error("expected no limiter when RateLimit is 0")
		}
	})

	t.Run("Custom Options", func(t *testing.T) {
		custom := &http.Client{}
		c := NewClient(ClientOpts{BaseURL: "http://example.com/", HTTPClient: custom, RateLimit: 2})

		if c.baseURL != "http://example.com" {
			t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
		}
		if c.httpClient != custom {
			t.Error("expected custom client to be used")
		}
		if c.limiter == nil {
			t.Error("expected limiter")
		}
	})
}

func TestClientCredentials(t *testing.T) {
	tt := []struct {
		name  string
		store session.Store
		want  string
	}{
		{name: "token present", store: session.NewMemoryStore("42"), want: "Bearer 42"},
		{name: "token padded", store: session.NewMemoryStore(" 42 "), want: "Bearer 42"},
		{name: "no token", store: session.NewMemoryStore(""), want: ""},
		{name: "whitespace token", store: session.NewMemoryStore("  "), want: ""},
		{name: "no store", store: nil, want: ""},
		{name: "failing store", store: tu.FailingStore{}, want: ""},
		{name: "panicking store", store: tu.PanickingStore{}, want: ""},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}, tc.store)

			if err := c.Liveness(context.Background()); err != nil {
				t.Fatalf("Liveness() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Authorization = %q, want %q", got, tc.want)
			}
			if want := tc.want != ""; session.Authenticated(context.Background(), tc.store, shared.NewLogger(&bytes.Buffer{})) != want {
				t.Errorf("header and session.Authenticated disagree for %s", tc.name)
			}
		})
	}

	t.Run("Token Is Read Per Request", func(t *testing.T) {
		store := session.NewMemoryStore("")
		var headers []string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			headers = append(headers, r.Header.Get("Authorization"))
		}, store)

		ctx := context.Background()
		_ = c.Liveness(ctx)
		_ = store.Set(ctx, "7")
		_ = c.Liveness(ctx)
		_ = store.Clear(ctx)
		_ = c.Liveness(ctx)

		if strings.Join(headers, "|") != "|Bearer 7|" {
			t.Errorf("headers = %q", headers)
		}
	})
}

func TestClientEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("GetProfile", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/profiles/42" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(models.UserProfile{
				UserInfo:    models.User{ID: 42, Username: "alice"},
				Photos:      []models.Photo{{ID: 1, Owner: 42}},
				ProfileInfo: models.ProfileCounters{PhotosCounter: 1, FollowersCounter: 3},
			})
		}, session.NewMemoryStore("42"))

		p, err := c.GetProfile(ctx, "42")
		if err != nil {
			t.Fatalf("GetProfile() error = %v", err)
		}
		if p.UserInfo.Username != "alice" || len(p.Photos) != 1 || p.ProfileInfo.FollowersCounter != 3 {
			t.Errorf("unexpected profile %+v", p)
		}

		if _, err := c.GetProfile(ctx, " "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("GetProfile(blank) error = %v, want ErrMissingArgument", err)
		}
	})

	t.Run("GetStream", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/stream/42" {
				t.Errorf("expected path /stream/42, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("amount") != "10" || r.URL.Query().Get("offset") != "20" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			json.NewEncoder(w).Encode(models.Stream{Photos: []models.Photo{{ID: 1}, {ID: 2}}})
		}, session.NewMemoryStore("42"))

		s, err := c.GetStream(ctx, "42", 10, 20)
		if err != nil {
			t.Fatalf("GetStream() error = %v", err)
		}
		if len(s.Photos) != 2 {
			t.Errorf("expected 2 photos, got %d", len(s.Photos))
		}

		if _, err := c.GetStream(ctx, "42", 0, 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("GetStream(amount=0) error = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("Search", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("pattern") {
			case "al ice":
				w.Write([]byte(`{"users":[{"identifier":1,"username":"alice"}]}`))
			default:
				http.Error(w, "No users found", http.StatusNotFound)
			}
		}, session.NewMemoryStore("42"))

		users, err := c.Search(ctx, "al ice")
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(users.Users) != 1 || users.Users[0].Username != "alice" || users.Users[0].ID != 1 {
			t.Errorf("unexpected users %+v", users)
		}

		empty, err := c.Search(ctx, "zzz")
		if err != nil {
			t.Fatalf("Search() with no results error = %v", err)
		}
		if len(empty.Users) != 0 {
			t.Errorf("expected no users, got %d", len(empty.Users))
		}

		if _, err := c.Search(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Search(empty) error = %v, want ErrMissingArgument", err)
		}
	})

	t.Run("UploadPhoto", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/profiles/42/photos" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/octet-stream" {
				t.Errorf("expected octet-stream content type, got %s", ct)
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "\x89PNG" {
				t.Errorf("unexpected body %q", body)
			}
			w.Write([]byte("Photo uploaded successfully\n"))
		}, session.NewMemoryStore("42"))

		msg, err := c.UploadPhoto(ctx, "42", strings.NewReader("\x89PNG"))
		if err != nil {
			t.Fatalf("UploadPhoto() error = %v", err)
		}
		if msg != "Photo uploaded successfully" {
			t.Errorf("unexpected message %q", msg)
		}

		if _, err := c.UploadPhoto(ctx, "42", nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("UploadPhoto(nil) error = %v, want ErrMissingArgument", err)
		}
	})
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Status Mapping", func(t *testing.T) {
		tt := []struct {
			status int
			want   error
		}{
			{http.StatusUnauthorized, shared.ErrUnauthorized},
			{http.StatusForbidden, shared.ErrForbidden},
			{http.StatusNotFound, shared.ErrNotFound},
			{http.StatusConflict, shared.ErrConflict},
			{http.StatusServiceUnavailable, shared.ErrServiceUnavailable},
			{http.StatusBadRequest, shared.ErrAPIRequest},
			{http.StatusInternalServerError, shared.ErrAPIRequest},
		}

		for _, tc := range tt {
			t.Run(http.StatusText(tc.status), func(t *testing.T) {
				c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "nope", tc.status)
				}, nil)

				_, err := c.GetProfile(ctx, "1")
				if !errors.Is(err, tc.want) {
					t.Errorf("GetProfile() error = %v, want %v", err, tc.want)
				}
				if !strings.Contains(err.Error(), "nope") {
					t.Errorf("expected body in error, got %v", err)
				}
			})
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}, nil)

		if _, err := c.GetProfile(ctx, "1"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("GetProfile() error = %v, want ErrAPIRequest", err)
		}
	})

	t.Run("Failed HTTP Request", func(t *testing.T) {
		c := NewClient(ClientOpts{
			BaseURL:    "http://example.com",
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))},
			Logger:     shared.NewLogger(&bytes.Buffer{}),
		})

		if _, err := c.Get(ctx, "/liveness"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Get() error = %v, want ErrAPIRequest", err)
		}
		if err := c.Liveness(ctx); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("Liveness() error = %v, want ErrServiceUnavailable", err)
		}
	})

	t.Run("Failed Response Body Read", func(t *testing.T) {
		c := NewClient(ClientOpts{
			BaseURL: "http://example.com",
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     make(http.Header),
			}, nil)},
			Logger: shared.NewLogger(&bytes.Buffer{}),
		})

		if _, err := c.Get(ctx, "/liveness"); err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("expected read error, got %v", err)
		}
	})

	t.Run("With Canceled Context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if _, err := c.Get(cctx, "/liveness"); err == nil {
			t.Error("expected error for canceled context")
		}
	})

	t.Run("Rate Limiter Honors Context", func(t *testing.T) {
		c := NewClient(ClientOpts{BaseURL: "http://example.com", RateLimit: 0.001, Logger: shared.NewLogger(&bytes.Buffer{})})
		c.limiter.Allow()

		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		if _, err := c.Get(cctx, "/liveness"); err == nil || !strings.Contains(err.Error(), "rate limiter") {
			t.Errorf("expected rate limiter error, got %v", err)
		}
	})
}

func TestRawRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("Get Leaves Status Alone", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom", "v")
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte(`{"status":"brewing"}`))
		}, nil)

		resp, err := c.Get(ctx, "/anything")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if resp.StatusCode != http.StatusTeapot {
			t.Errorf("expected 418, got %d", resp.StatusCode)
		}
		if !resp.IsJSON || resp.JSONData == nil {
			t.Error("expected JSON body to be detected")
		}
		if resp.Headers.Get("X-Custom") != "v" {
			t.Error("expected headers to be preserved")
		}
	})

	t.Run("Post Sends JSON", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			w.Write(body)
		}, nil)

		resp, err := c.Post(ctx, "/echo", []byte(`{"a":1}`))
		if err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		if string(resp.Body) != `{"a":1}` {
			t.Errorf("unexpected body %s", resp.Body)
		}
	})

	t.Run("Non-JSON Body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("plain"))
		}, nil)

		resp, err := c.Get(ctx, "/plain")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if resp.IsJSON {
			t.Error("expected non-JSON body")
		}
	})
}
