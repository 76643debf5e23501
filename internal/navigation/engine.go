package navigation

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
)

const (
	defaultMaxRedirects = 3
	maxHistory          = 50
)

// Attempt is one navigation request. It only lives for the duration of the call that created it.
type Attempt struct {
	ID     string
	Target Match
	Source *Match
}

// Result reports what the engine did with an [Attempt].
type Result struct {
	Attempt Attempt
	// Decision is the guard's verdict on the requested target, before any redirect was followed.
	Decision Decision
	// Committed is false when the attempt was cancelled; Route is then the unchanged current route, if any.
	Committed bool
	Route     Match
	Redirects int
}

// Redirected reports whether the committed route differs from the requested one because of a redirect.
func (r Result) Redirected() bool {
	return r.Committed && r.Redirects > 0
}

// AfterFunc is called after a transition commits. from is nil on the initial load.
type AfterFunc func(ctx context.Context, from *Match, to Match)

// EngineOpts configures an [Engine].
type EngineOpts struct {
	Table        *Table
	Guard        Guard // defaults to a LoginGate for Table.Login()
	Store        session.Store
	Logger       *log.Logger
	MaxRedirects int
}

// Engine applies guard decisions to navigation requests.
//
// Calls are serialized; hooks run after the engine's lock is released so they may navigate again.
type Engine struct {
	mu           sync.Mutex
	table        *Table
	guard        Guard
	store        session.Store
	logger       *log.Logger
	maxRedirects int

	current *Match
	history []Match
	hooks   []AfterFunc
}

// NewEngine creates an [Engine]. Table is required.
func NewEngine(opts EngineOpts) (*Engine, error) {
	if opts.Table == nil {
		return nil, fmt.Errorf("%w: engine needs a route table", shared.ErrInvalidRouteTable)
	}
	if opts.Guard == nil {
		opts.Guard = NewLoginGate(opts.Table.Login())
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = defaultMaxRedirects
	}

	return &Engine{
		table:        opts.Table,
		guard:        opts.Guard,
		store:        opts.Store,
		logger:       shared.WithLogger(opts.Logger, "component", "navigation"),
		maxRedirects: opts.MaxRedirects,
	}, nil
}

// Table returns the engine's route table.
func (e *Engine) Table() *Table { return e.table }

// AfterEach registers fn to run after every committed transition.
func (e *Engine) AfterEach(fn AfterFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, fn)
}

// Current returns the committed route, if any.
func (e *Engine) Current() (Match, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Match{}, false
	}
	return *e.current, true
}

// Start performs the initial load: history is discarded and path is navigated to with no source route.
func (e *Engine) Start(ctx context.Context, path string) (Result, error) {
	e.mu.Lock()
	e.current = nil
	e.history = nil
	e.mu.Unlock()

	return e.Navigate(ctx, path)
}

// Navigate asks the guard about path and applies its decision.
//
// Unknown paths return [shared.ErrRouteNotFound] and change nothing.
func (e *Engine) Navigate(ctx context.Context, path string) (Result, error) {
	return e.run(ctx, path, true)
}

// NavigateTo navigates to the named route, filling its parameter from key/value pairs.
func (e *Engine) NavigateTo(ctx context.Context, name string, pairs ...string) (Result, error) {
	path, err := e.table.URL(name, pairs...)
	if err != nil {
		return Result{Decision: Cancel()}, err
	}
	return e.Navigate(ctx, path)
}

// Back navigates to the previously committed route. The guard still decides; with no history the call is a
// cancelled no-op.
func (e *Engine) Back(ctx context.Context) (Result, error) {
	e.mu.Lock()
	if len(e.history) == 0 {
		res := Result{Decision: Cancel()}
		if e.current != nil {
			res.Route = *e.current
		}
		e.mu.Unlock()
		return res, nil
	}
	prev := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.mu.Unlock()

	res, err := e.run(ctx, prev.Path+encodeQuery(prev), false)
	if err != nil || !res.Committed {
		e.mu.Lock()
		e.history = append(e.history, prev)
		e.mu.Unlock()
	}
	return res, err
}

// Reload re-evaluates the current route against the current session, e.g. after logout.
func (e *Engine) Reload(ctx context.Context) (Result, error) {
	e.mu.Lock()
	cur := e.current
	e.mu.Unlock()

	if cur == nil {
		return Result{Decision: Cancel()}, nil
	}
	return e.run(ctx, cur.Path+encodeQuery(*cur), false)
}

func (e *Engine) run(ctx context.Context, path string, push bool) (Result, error) {
	e.mu.Lock()

	target, err := e.table.Match(path)
	if err != nil {
		e.mu.Unlock()
		e.logger.Debug("navigation rejected", "path", path, "error", err)
		return Result{Decision: Cancel()}, err
	}

	var source *Match
	if e.current != nil {
		src := *e.current
		source = &src
	}

	attempt := Attempt{ID: shared.GenerateID(), Target: target, Source: source}
	res := Result{Attempt: attempt}
	authenticated := session.Authenticated(ctx, e.store, e.logger)

	for {
		decision := e.guard.Decide(target.Route, authenticated)
		if res.Redirects == 0 {
			res.Decision = decision
		}

		e.logger.Debug("guard decision",
			"attempt", attempt.ID,
			"from", pathOf(source),
			"to", target.Path,
			"authenticated", authenticated,
			"decision", decision.String(),
		)

		switch decision.Outcome {
		case OutcomeAllow:
			hooks := e.commit(target, push)
			e.mu.Unlock()

			res.Committed = true
			res.Route = target
			for _, fn := range hooks {
				fn(ctx, source, target)
			}
			return res, nil

		case OutcomeRedirect:
			res.Redirects++
			if res.Redirects > e.maxRedirects {
				e.mu.Unlock()
				e.logger.Warn("navigation cancelled", "attempt", attempt.ID, "to", attempt.Target.Path, "error", shared.ErrRedirectLoop)
				if source != nil {
					res.Route = *source
				}
				return res, fmt.Errorf("%w: %s", shared.ErrRedirectLoop, attempt.Target.Path)
			}

			next, err := e.resolve(decision.Target)
			if err != nil {
				e.mu.Unlock()
				return res, err
			}
			target = next

		default:
			// cancel, or a guard that returned no decision
			e.mu.Unlock()
			if source != nil {
				res.Route = *source
			}
			return res, nil
		}
	}
}

// commit makes target current. Callers hold e.mu.
func (e *Engine) commit(target Match, push bool) []AfterFunc {
	if push && e.current != nil && e.current.Path != target.Path {
		e.history = append(e.history, *e.current)
		if len(e.history) > maxHistory {
			e.history = e.history[len(e.history)-maxHistory:]
		}
	}
	e.current = &target

	hooks := make([]AfterFunc, len(e.hooks))
	copy(hooks, e.hooks)
	return hooks
}

// resolve turns a redirect target into a match. Routes with parameters cannot be redirect targets.
func (e *Engine) resolve(r Route) (Match, error) {
	path, err := e.table.URL(r.Name)
	if err != nil {
		return Match{}, fmt.Errorf("cannot redirect to %s: %w", r.Name, err)
	}
	return e.table.Match(path)
}

func pathOf(m *Match) string {
	if m == nil {
		return ""
	}
	return m.Path
}

func encodeQuery(m Match) string {
	if len(m.Query) == 0 {
		return ""
	}
	return "?" + m.Query.Encode()
}
