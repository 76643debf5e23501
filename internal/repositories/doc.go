// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [LocalStorageRepository] : key/value items, the on-disk equivalent of a browser's local storage
//
// Repositories implement [models.Repository] and report missing rows with [shared.ErrNotFound] so callers can
// distinguish "absent" from a failing database.
package repositories
