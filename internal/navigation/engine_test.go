package navigation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	tu "github.com/desertthunder/wasaphoto/internal/testing"
)

func newEngine(t *testing.T, store session.Store) (*Engine, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := shared.NewLogger(buf)
	logger.SetLevel(log.DebugLevel)

	e, err := NewEngine(EngineOpts{Table: MustTable(DefaultRoutes()...), Store: store, Logger: logger})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, buf
}

func mustNavigate(t *testing.T, e *Engine, path string) Result {
	t.Helper()
	res, err := e.Navigate(context.Background(), path)
	if err != nil {
		t.Fatalf("Navigate(%s) error = %v", path, err)
	}
	return res
}

func currentPath(e *Engine) string {
	m, ok := e.Current()
	if !ok {
		return ""
	}
	return m.Path
}

func TestEngineScenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("Anonymous Visit To Profile Lands On Login", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore(""))

		res, err := e.Start(ctx, "/profiles/42")
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if res.Decision.Outcome != OutcomeRedirect || res.Decision.Target.Path != "/login" {
			t.Errorf("Decision = %s, want redirect /login", res.Decision)
		}
		if !res.Committed || !res.Redirected() {
			t.Errorf("expected a committed redirect, got %+v", res)
		}
		if got := currentPath(e); got != "/login" {
			t.Errorf("Current() = %s, want /login", got)
		}
	})

	t.Run("Authenticated Visit To Profile Is Allowed", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))

		res := mustNavigate(t, e, "/profiles/42")
		if res.Decision.Outcome != OutcomeAllow || res.Redirected() {
			t.Errorf("Decision = %s, want allow", res.Decision)
		}
		if res.Route.Param("id") != "42" {
			t.Errorf("Route.Param(id) = %q, want 42", res.Route.Param("id"))
		}
	})

	t.Run("Authenticated Visit To Login Is Cancelled", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))
		mustNavigate(t, e, "/stream")

		res := mustNavigate(t, e, "/login")
		if res.Decision.Outcome != OutcomeCancel || res.Committed {
			t.Errorf("Decision = %s committed=%v, want uncommitted cancel", res.Decision, res.Committed)
		}
		if got := currentPath(e); got != "/stream" {
			t.Errorf("Current() = %s, want /stream", got)
		}
		if res.Route.Path != "/stream" {
			t.Errorf("Result.Route = %s, want /stream", res.Route.Path)
		}
	})

	t.Run("Anonymous Visit To Login Is Allowed", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore(""))

		res := mustNavigate(t, e, "/login")
		if res.Decision.Outcome != OutcomeAllow || currentPath(e) != "/login" {
			t.Errorf("Decision = %s current=%s, want allow /login", res.Decision, currentPath(e))
		}
	})

	t.Run("Unreadable Store Redirects To Login", func(t *testing.T) {
		for name, store := range map[string]session.Store{
			"error": tu.FailingStore{},
			"panic": tu.PanickingStore{},
		} {
			for _, r := range DefaultRoutes() {
				if !r.RequiresAuth {
					continue
				}
				path := strings.Replace(r.Path, "{id}", "42", 1)

				t.Run(name+" "+path, func(t *testing.T) {
					e, buf := newEngine(t, store)

					res := mustNavigate(t, e, path)
					if res.Decision.Outcome != OutcomeRedirect || currentPath(e) != "/login" {
						t.Errorf("Decision = %s current=%s, want redirect to /login", res.Decision, currentPath(e))
					}
					if !strings.Contains(buf.String(), "treating as logged out") {
						t.Errorf("expected store failure to be logged, got %q", buf.String())
					}
				})
			}
		}
	})

	t.Run("Token Emptied Mid Session Redirects", func(t *testing.T) {
		store := session.NewMemoryStore("abc123")
		e, _ := newEngine(t, store)
		mustNavigate(t, e, "/stream")

		if err := store.Set(ctx, ""); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		res := mustNavigate(t, e, "/upload")
		if res.Decision.Outcome != OutcomeRedirect || currentPath(e) != "/login" {
			t.Errorf("Decision = %s current=%s, want redirect to /login", res.Decision, currentPath(e))
		}
		if !res.Redirected() {
			t.Errorf("expected a committed redirect, got %+v", res)
		}
	})

	t.Run("Unknown Path Decision Is Not Allow", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))

		res, err := e.Navigate(ctx, "/nowhere")
		if !errors.Is(err, shared.ErrRouteNotFound) {
			t.Fatalf("Navigate() error = %v, want ErrRouteNotFound", err)
		}
		if res.Decision.Outcome == OutcomeAllow || res.Committed {
			t.Errorf("failed navigation reported %s committed=%v", res.Decision, res.Committed)
		}

		res, err = e.NavigateTo(ctx, "nowhere")
		if err == nil || res.Decision.Outcome == OutcomeAllow {
			t.Errorf("NavigateTo(unknown) = %s, %v", res.Decision, err)
		}
	})

	t.Run("Guard Without Decision Cancels", func(t *testing.T) {
		e, err := NewEngine(EngineOpts{
			Table: MustTable(DefaultRoutes()...),
			Guard: GuardFunc(func(Route, bool) Decision { return Decision{} }),
			Store: session.NewMemoryStore("abc123"),
		})
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}

		res := mustNavigate(t, e, "/stream")
		if res.Committed || currentPath(e) != "" {
			t.Errorf("zero decision committed %s", currentPath(e))
		}
	})

	t.Run("Whitespace Token Is Anonymous", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("   "))
		res := mustNavigate(t, e, "/search")
		if res.Decision.Outcome != OutcomeRedirect {
			t.Errorf("Decision = %s, want redirect", res.Decision)
		}
	})
}

func TestEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("New Requires Table", func(t *testing.T) {
		if _, err := NewEngine(EngineOpts{}); !errors.Is(err, shared.ErrInvalidRouteTable) {
			t.Errorf("NewEngine() error = %v, want ErrInvalidRouteTable", err)
		}
	})

	t.Run("Navigation Never Writes The Store", func(t *testing.T) {
		for _, token := range []string{"", "abc123"} {
			store := tu.NewRecordingStore(token)
			e, _ := newEngine(t, store)

			for _, p := range []string{"/login", "/stream", "/profiles/1", "/upload", "/search", "/"} {
				mustNavigate(t, e, p)
			}
			_, _ = e.Back(ctx)
			_, _ = e.Reload(ctx)

			if store.Writes() != 0 {
				t.Errorf("token=%q: store written %d times", token, store.Writes())
			}
			if store.Gets == 0 {
				t.Errorf("token=%q: store never read", token)
			}
		}
	})

	t.Run("One Store Read Per Attempt", func(t *testing.T) {
		store := tu.NewRecordingStore("")
		e, _ := newEngine(t, store)

		mustNavigate(t, e, "/profiles/7")
		if store.Gets != 1 {
			t.Errorf("store read %d times for one redirected attempt, want 1", store.Gets)
		}
	})

	t.Run("Unknown Path Keeps Current Route", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))
		mustNavigate(t, e, "/stream")

		if _, err := e.Navigate(ctx, "/settings"); !errors.Is(err, shared.ErrRouteNotFound) {
			t.Errorf("Navigate() error = %v, want ErrRouteNotFound", err)
		}
		if got := currentPath(e); got != "/stream" {
			t.Errorf("Current() = %s, want /stream", got)
		}
	})

	t.Run("Initial Load Cancel Leaves No Current Route", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))

		res, err := e.Start(ctx, "/login")
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if res.Committed {
			t.Error("expected cancel on initial load")
		}
		if _, ok := e.Current(); ok {
			t.Error("expected no current route")
		}
	})

	t.Run("NavigateTo Builds Path", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))

		res, err := e.NavigateTo(ctx, "profile", "id", "99")
		if err != nil {
			t.Fatalf("NavigateTo() error = %v", err)
		}
		if res.Route.Path != "/profiles/99" {
			t.Errorf("Route.Path = %s, want /profiles/99", res.Route.Path)
		}
		if _, err := e.NavigateTo(ctx, "settings"); !errors.Is(err, shared.ErrRouteNotFound) {
			t.Errorf("NavigateTo(settings) error = %v, want ErrRouteNotFound", err)
		}
	})

	t.Run("Redirect Loop Is Cancelled", func(t *testing.T) {
		table := MustTable(DefaultRoutes()...)
		always := GuardFunc(func(target Route, authenticated bool) Decision {
			return RedirectTo(table.Login())
		})
		e, err := NewEngine(EngineOpts{Table: table, Guard: always, Logger: shared.NewLogger(&bytes.Buffer{})})
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}

		res, err := e.Navigate(ctx, "/stream")
		if !errors.Is(err, shared.ErrRedirectLoop) {
			t.Errorf("Navigate() error = %v, want ErrRedirectLoop", err)
		}
		if res.Committed || res.Redirects != defaultMaxRedirects+1 {
			t.Errorf("Result = %+v, want uncommitted after %d redirects", res, defaultMaxRedirects+1)
		}
		if _, ok := e.Current(); ok {
			t.Error("expected no current route")
		}
	})

	t.Run("Debug Log Carries Attempt Fields", func(t *testing.T) {
		e, buf := newEngine(t, session.NewMemoryStore(""))
		res := mustNavigate(t, e, "/stream")

		out := buf.String()
		for _, want := range []string{"guard decision", res.Attempt.ID, "to=/stream", "redirect /login"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected log to contain %q, got %q", want, out)
			}
		}
	})
}

func TestEngineHooks(t *testing.T) {
	ctx := context.Background()

	t.Run("Run Only After Commit", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))

		var seen []string
		e.AfterEach(func(ctx context.Context, from *Match, to Match) {
			cur, _ := e.Current()
			if cur.Path != to.Path {
				t.Errorf("hook saw current %s before commit of %s", cur.Path, to.Path)
			}
			seen = append(seen, to.Path)
		})

		mustNavigate(t, e, "/stream")
		mustNavigate(t, e, "/login")
		_, _ = e.Navigate(ctx, "/nope")
		mustNavigate(t, e, "/profiles/3")

		want := []string{"/stream", "/profiles/3"}
		if strings.Join(seen, ",") != strings.Join(want, ",") {
			t.Errorf("hooks saw %v, want %v", seen, want)
		}
	})

	t.Run("Receive Source Route", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))

		var froms []string
		e.AfterEach(func(ctx context.Context, from *Match, to Match) {
			if from == nil {
				froms = append(froms, "<nil>")
				return
			}
			froms = append(froms, from.Path)
		})

		if _, err := e.Start(ctx, "/stream"); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		mustNavigate(t, e, "/upload")

		if strings.Join(froms, ",") != "<nil>,/stream" {
			t.Errorf("from values = %v", froms)
		}
	})

	t.Run("Redirect Fires Hook For Substituted Route", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore(""))

		var to []string
		e.AfterEach(func(ctx context.Context, from *Match, m Match) { to = append(to, m.Route.Name) })
		mustNavigate(t, e, "/profiles/42")

		if len(to) != 1 || to[0] != "login" {
			t.Errorf("hooks saw %v, want [login]", to)
		}
	})

	t.Run("May Navigate Again", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))

		e.AfterEach(func(ctx context.Context, from *Match, to Match) {
			if to.Route.Name == "home" {
				if _, err := e.Navigate(ctx, "/stream"); err != nil {
					t.Errorf("nested Navigate() error = %v", err)
				}
			}
		})

		mustNavigate(t, e, "/")
		if got := currentPath(e); got != "/stream" {
			t.Errorf("Current() = %s, want /stream", got)
		}
	})
}

func TestEngineHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("Back Returns To Previous Route", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))
		mustNavigate(t, e, "/stream")
		mustNavigate(t, e, "/search?pattern=bob")
		mustNavigate(t, e, "/profiles/5")

		res, err := e.Back(ctx)
		if err != nil {
			t.Fatalf("Back() error = %v", err)
		}
		if !res.Committed || res.Route.Path != "/search" || res.Route.Query.Get("pattern") != "bob" {
			t.Errorf("Back() = %+v, want /search?pattern=bob", res.Route)
		}

		res, _ = e.Back(ctx)
		if res.Route.Path != "/stream" {
			t.Errorf("second Back() = %s, want /stream", res.Route.Path)
		}

		res, _ = e.Back(ctx)
		if res.Committed || currentPath(e) != "/stream" {
			t.Errorf("Back() with empty history committed %s", res.Route.Path)
		}
	})

	t.Run("Back Goes Through The Guard", func(t *testing.T) {
		store := session.NewMemoryStore("abc123")
		e, _ := newEngine(t, store)
		mustNavigate(t, e, "/stream")
		mustNavigate(t, e, "/upload")

		_ = store.Clear(ctx)
		res, err := e.Back(ctx)
		if err != nil {
			t.Fatalf("Back() error = %v", err)
		}
		if res.Decision.Outcome != OutcomeRedirect || currentPath(e) != "/login" {
			t.Errorf("Back() after logout = %s current=%s, want redirect to /login", res.Decision, currentPath(e))
		}
	})

	t.Run("Cancelled Back Keeps History", func(t *testing.T) {
		store := session.NewMemoryStore("")
		e, _ := newEngine(t, store)
		mustNavigate(t, e, "/login")
		_ = store.Set(ctx, "abc123")
		mustNavigate(t, e, "/stream")

		res, _ := e.Back(ctx)
		if res.Committed {
			t.Fatalf("Back() to /login while authenticated committed")
		}

		_ = store.Clear(ctx)
		res, _ = e.Back(ctx)
		if !res.Committed || res.Route.Path != "/login" {
			t.Errorf("Back() after logout = %+v, want /login", res)
		}
	})

	t.Run("Same Path Is Not Pushed", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore("abc123"))
		mustNavigate(t, e, "/stream")
		mustNavigate(t, e, "/stream")

		res, _ := e.Back(ctx)
		if res.Committed {
			t.Errorf("Back() committed %s, want empty history", res.Route.Path)
		}
	})

	t.Run("Reload After Logout Redirects", func(t *testing.T) {
		store := session.NewMemoryStore("abc123")
		e, _ := newEngine(t, store)
		mustNavigate(t, e, "/profiles/42")

		_ = store.Clear(ctx)
		res, err := e.Reload(ctx)
		if err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
		if res.Decision.Outcome != OutcomeRedirect || currentPath(e) != "/login" {
			t.Errorf("Reload() = %s current=%s, want redirect to /login", res.Decision, currentPath(e))
		}
	})

	t.Run("Reload Without Current Route", func(t *testing.T) {
		e, _ := newEngine(t, session.NewMemoryStore(""))
		res, err := e.Reload(ctx)
		if err != nil || res.Committed {
			t.Errorf("Reload() = %+v, %v, want uncommitted no-op", res, err)
		}
	})
}

func TestEngineConcurrentNavigation(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore("abc123")
	e, _ := newEngine(t, store)

	paths := []string{"/stream", "/upload", "/search", "/profiles/1", "/login"}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				_ = store.Clear(ctx)
				_ = store.Set(ctx, "abc123")
			}
			if _, err := e.Navigate(ctx, paths[i%len(paths)]); err != nil {
				t.Errorf("Navigate() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if _, ok := e.Current(); !ok {
		t.Error("expected a committed route")
	}
}
