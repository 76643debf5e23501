// package services defines the interface the views use to reach the photo service backend
package services

import (
	"context"
	"io"

	"github.com/desertthunder/wasaphoto/internal/models"
)

// PhotoService is the backend surface the client needs.
type PhotoService interface {
	// Liveness returns nil when the backend answers its health check.
	Liveness(ctx context.Context) error

	// GetProfile retrieves the profile and photos of a user.
	GetProfile(ctx context.Context, id string) (*models.UserProfile, error)

	// GetStream retrieves recent photos of the users followed by id.
	GetStream(ctx context.Context, id string, amount, offset int) (*models.Stream, error)

	// Search returns the users matching pattern.
	Search(ctx context.Context, pattern string) (*models.UserList, error)

	// UploadPhoto stores a new photo for id.
	UploadPhoto(ctx context.Context, id string, r io.Reader) (string, error)

	// FollowUser and the other relation calls return the backend's confirmation message.
	FollowUser(ctx context.Context, id, target string) (string, error)
	UnfollowUser(ctx context.Context, id, target string) (string, error)
	BanUser(ctx context.Context, id, target string) (string, error)
	UnbanUser(ctx context.Context, id, target string) (string, error)

	// LikePhoto likes the photo of owner on behalf of me.
	LikePhoto(ctx context.Context, owner, photo, me string) (string, error)
	UnlikePhoto(ctx context.Context, owner, photo, me string) (string, error)

	// DeletePhoto removes one of the logged in user's photos.
	DeletePhoto(ctx context.Context, owner, photo string) (string, error)
}

var _ PhotoService = (*Client)(nil)
