package navigation

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/gorilla/mux"
)

// View identifies the screen a route renders.
type View string

const (
	ViewLogin   View = "login"
	ViewProfile View = "profile"
	ViewUpload  View = "upload"
	ViewStream  View = "stream"
	ViewSearch  View = "search"
)

// Route is a named, path-addressable destination.
type Route struct {
	Name         string
	Path         string
	View         View
	RequiresAuth bool
}

// Match is a route resolved against a concrete path.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
	Query  url.Values
}

// Param returns the value of a path parameter, or "".
func (m Match) Param(key string) string {
	return m.Params[key]
}

// DefaultRoutes returns the client's route table configuration.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "login", Path: "/login", View: ViewLogin},
		{Name: "home", Path: "/", View: ViewStream, RequiresAuth: true},
		{Name: "stream", Path: "/stream", View: ViewStream, RequiresAuth: true},
		{Name: "profile", Path: "/profiles/{id}", View: ViewProfile, RequiresAuth: true},
		{Name: "upload", Path: "/upload", View: ViewUpload, RequiresAuth: true},
		{Name: "search", Path: "/search", View: ViewSearch, RequiresAuth: true},
	}
}

// Table is an immutable, ordered set of routes. Earlier routes win when two patterns match the same path.
type Table struct {
	routes []Route
	byName map[string]Route
	router *mux.Router
	login  Route
}

// NewTable validates routes and builds a [Table].
//
// Route names must be unique and non-empty, each path may hold at most one {parameter}, and exactly one route must
// have RequiresAuth=false. That login route is the guard's redirect target, so its path cannot hold a parameter.
func NewTable(routes ...Route) (*Table, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("%w: no routes", shared.ErrInvalidRouteTable)
	}

	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byName: make(map[string]Route, len(routes)),
		router: mux.NewRouter(),
	}

	logins := 0
	for _, r := range routes {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: route %q has no name", shared.ErrInvalidRouteTable, r.Path)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate route name %q", shared.ErrInvalidRouteTable, r.Name)
		}
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: route %q path %q must start with /", shared.ErrInvalidRouteTable, r.Name, r.Path)
		}
		if n := strings.Count(r.Path, "{"); n > 1 {
			return nil, fmt.Errorf("%w: route %q has %d parameters, at most one is supported", shared.ErrInvalidRouteTable, r.Name, n)
		}
		if !r.RequiresAuth {
			if strings.Contains(r.Path, "{") {
				return nil, fmt.Errorf("%w: login route %q is a redirect target and cannot have parameters", shared.ErrInvalidRouteTable, r.Name)
			}
			logins++
			t.login = r
		}

		mr := t.router.Path(r.Path).Name(r.Name)
		if err := mr.GetError(); err != nil {
			return nil, fmt.Errorf("%w: route %q: %v", shared.ErrInvalidRouteTable, r.Name, err)
		}

		t.routes = append(t.routes, r)
		t.byName[r.Name] = r
	}

	if logins != 1 {
		return nil, fmt.Errorf("%w: want exactly one route without auth, got %d", shared.ErrInvalidRouteTable, logins)
	}
	return t, nil
}

// MustTable is [NewTable] for static configuration; it panics on an invalid table.
func MustTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Login returns the login route.
func (t *Table) Login() Route {
	return t.login
}

// Lookup returns the route called name.
func (t *Table) Lookup(name string) (Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// URL builds the path of the named route from key/value parameter pairs.
func (t *Table) URL(name string, pairs ...string) (string, error) {
	mr := t.router.Get(name)
	if mr == nil {
		return "", fmt.Errorf("%w: %s", shared.ErrRouteNotFound, name)
	}
	u, err := mr.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("failed to build %s path: %w", name, err)
	}
	return u.Path, nil
}

// Match resolves raw against the table.
//
// raw may carry a query string and may use the hash form "#/profiles/42" or "/#/profiles/42".
func (t *Table) Match(raw string) (Match, error) {
	u, err := normalize(raw)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %q: %v", shared.ErrRouteNotFound, raw, err)
	}

	req := &http.Request{Method: http.MethodGet, URL: u, Header: http.Header{}}
	var rm mux.RouteMatch
	if !t.router.Match(req, &rm) || rm.Route == nil {
		return Match{}, fmt.Errorf("%w: %s", shared.ErrRouteNotFound, u.Path)
	}

	route, ok := t.byName[rm.Route.GetName()]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", shared.ErrRouteNotFound, u.Path)
	}

	params := make(map[string]string, len(rm.Vars))
	for k, v := range rm.Vars {
		params[k] = v
	}
	return Match{Route: route, Path: u.Path, Params: params, Query: u.Query()}, nil
}

func normalize(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/#")
	raw = strings.TrimPrefix(raw, "#")
	if raw == "" {
		raw = "/"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() || u.Host != "" {
		return nil, fmt.Errorf("absolute URLs are not routes")
	}
	if u.Path == "" {
		u.Path = "/"
	}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	u.Fragment = ""
	return u, nil
}
