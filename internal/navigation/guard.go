package navigation

// Outcome is the kind of a [Decision]. The zero value is [OutcomeUnknown], which the engine treats as a cancel.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeAllow
	OutcomeRedirect
	OutcomeCancel
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnknown:
		return "unknown"
	case OutcomeAllow:
		return "allow"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Decision is the guard's verdict on one navigation attempt.
//
// Target is only meaningful for [OutcomeRedirect]. A zero Decision allows nothing.
type Decision struct {
	Outcome Outcome
	Target  Route
}

// Allow lets the navigation proceed.
func Allow() Decision { return Decision{Outcome: OutcomeAllow} }

// RedirectTo replaces the navigation with one to r.
func RedirectTo(r Route) Decision { return Decision{Outcome: OutcomeRedirect, Target: r} }

// Cancel aborts the navigation and keeps the current route.
func Cancel() Decision { return Decision{Outcome: OutcomeCancel} }

func (d Decision) String() string {
	if d.Outcome == OutcomeRedirect {
		return "redirect " + d.Target.Path
	}
	return d.Outcome.String()
}

// Guard decides whether a navigation to target may proceed.
type Guard interface {
	Decide(target Route, authenticated bool) Decision
}

// GuardFunc adapts a function to [Guard].
type GuardFunc func(target Route, authenticated bool) Decision

func (f GuardFunc) Decide(target Route, authenticated bool) Decision {
	return f(target, authenticated)
}

// LoginGate keeps unauthenticated sessions on the login route and authenticated ones off it.
type LoginGate struct {
	login Route
}

var _ Guard = LoginGate{}

// NewLoginGate creates a [LoginGate] that redirects to login.
func NewLoginGate(login Route) LoginGate {
	return LoginGate{login: login}
}

// Decide implements [Guard]. A route is the login route when it does not require auth.
func (g LoginGate) Decide(target Route, authenticated bool) Decision {
	switch {
	case !target.RequiresAuth && authenticated:
		return Cancel()
	case !target.RequiresAuth:
		return Allow()
	case !authenticated:
		return RedirectTo(g.login)
	default:
		return Allow()
	}
}
