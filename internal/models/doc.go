// Package models defines domain entities and persistence interfaces for the wasaphoto client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs decoded from the photo service API
//   - [User] : identifier and username
//   - [UserProfile] : user info, photos and follower counters
//   - [Photo] : photo metadata with like/comment counters
//   - [Stream] : photos from followed users
//   - [UserList] : search results
//
// 2. Persistent Entities: database-backed models with lifecycle management
//   - [StorageItem] : a key/value pair in the client's local storage (the bearer token lives here)
//
// Persistent entities implement the [Model] interface; [Repository] defines the CRUD surface used by the repositories package.
package models
