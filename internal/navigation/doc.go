// Package navigation decides which view the client may show.
//
// # Route table
//
// A [Table] is the ordered, immutable list of [Route] definitions supplied at startup. Paths are gorilla/mux
// templates and may carry one positional segment such as "/profiles/{id}". Exactly one route is tagged
// RequiresAuth=false: the login route. Authorization reads that tag and never compares names or paths, so a second
// login-like route cannot slip past the gate.
//
// # Guard
//
// A [Guard] maps (target route, authenticated) to a [Decision]. [LoginGate] is the table the client ships with:
//
//	target        authenticated   decision
//	login         yes             cancel (stay where you are)
//	login         no              allow
//	other         no              redirect to login
//	other         yes             allow
//
// Guards are pure: no I/O, no clock, no state. Parameter values never influence a decision.
//
// # Engine
//
// [Engine] owns the table, reads the session store once per attempt and asks the guard before committing anything,
// including the initial load ([Engine.Start]). Redirects are themselves guarded; cancellations leave the current
// route untouched. Hooks registered with [Engine.AfterEach] run only after a transition has committed, which is
// where views start their data fetches.
//
// A store that cannot be read counts as logged out (see session.Authenticated), so the worst a broken store can do
// is send the user to the login view.
package navigation
