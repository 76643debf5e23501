// Package session holds the client's bearer token.
//
// # Store
//
// [Store] is the narrow get/set/clear contract for the single process-wide token. Writes are last-write-wins and are
// visible to the next read in the same process. Three backends implement it:
//   - [MemoryStore] : in-process only, used by tests and the "memory" backend
//   - [SQLiteStore] : the local_storage table, under a well-known key (default "token")
//   - [RedisStore] : a redis key, for terminals that share one login
//
// # Authentication predicate
//
// [Authenticated] and [Bearer] are the only places that turn a stored value into an authenticated/unauthenticated
// judgment. The navigation engine and the HTTP client both call them, so a view can never be reachable while its
// requests go out without a credential (or the reverse).
//
// A value is a credential when it is non-empty after trimming whitespace. Nothing else is checked: expiry and
// signature are the backend's business. Any failure to read the store, including a panic inside a backend, counts
// as unauthenticated.
package session
