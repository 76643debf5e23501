// Package services implements the HTTP client for the photo service backend.
//
// # Client
//
// [Client] wraps [http.Client] with the settings of the original web client: a base URL, a five second timeout and
// an optional [rate.Limiter]. It implements [PhotoService] and the rest of the backend:
//
//   - GET    /liveness
//   - GET    /profiles/{id}
//   - PUT    /profiles/{id}/name
//   - GET    /stream/{id}?amount=&offset=
//   - GET    /search?pattern=
//   - POST   /profiles/{id}/photos
//   - GET    /profiles/{id}/photos/{photo}
//   - DELETE /profiles/{id}/photos/{photo}
//   - PUT    /profiles/{id}/following/{target} (and DELETE, GET .../following/)
//   - PUT    /profiles/{id}/ban/{target} (and DELETE, GET .../ban/)
//   - PUT    /profiles/{owner}/photos/{photo}/likes/{me} (and DELETE)
//   - POST   /profiles/{owner}/photos/{photo}/comments (and GET, DELETE .../comments/{comment})
//
// Logging in (POST /session) is not implemented; the token is stored by hand.
//
// # Credentials
//
// The client never logs in. It reads the bearer token from a [session.Store] on every request through
// [session.Bearer] and sets the Authorization header only when the token is present. A store that cannot be read
// sends the request without credentials. The backend identifies users by that token, so the token doubles as the
// caller's own user id for stream and upload calls.
//
// # Error Handling
//
// Non-2xx responses map to shared errors:
//   - 401 : [shared.ErrUnauthorized]
//   - 403 : [shared.ErrForbidden]
//   - 404 : [shared.ErrNotFound] (an empty search is returned as an empty list)
//   - 409 : [shared.ErrConflict] (following or banning twice)
//   - 503 : [shared.ErrServiceUnavailable]
//   - other : [shared.ErrAPIRequest]
//
// [Client.Get] and [Client.Post] return the raw [APIResponse] for the api command and leave the status alone.
package services
