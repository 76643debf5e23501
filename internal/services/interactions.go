package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/shared"
)

// usernamePattern mirrors the backend's rule: 1 to 15 letters or digits.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{1,15}$`)

// relation is a user-to-user list kept by the backend under /profiles/{id}/{relation}/.
type relation string

const (
	relationFollowing relation = "following"
	relationBan       relation = "ban"
)

// profilePath joins escaped path segments under /profiles/{id}.
func profilePath(id string, parts ...string) string {
	var b strings.Builder
	b.WriteString("/profiles/")
	b.WriteString(url.PathEscape(id))
	for _, p := range parts {
		b.WriteString("/")
		b.WriteString(url.PathEscape(p))
	}
	return b.String()
}

// required returns ErrMissingArgument naming the first blank value. Pairs are name, value.
func required(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s", shared.ErrMissingArgument, pairs[i])
		}
	}
	return nil
}

func (c *Client) relate(ctx context.Context, method string, rel relation, id, target string) (string, error) {
	if err := required("user id", id, "target user id", target); err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == strings.TrimSpace(target) {
		return "", fmt.Errorf("%w: cannot target yourself", shared.ErrInvalidArgument)
	}
	return c.send(ctx, method, profilePath(id, string(rel), target), nil, "")
}

// FollowUser adds target to the users id follows. Following someone twice is [shared.ErrConflict].
//
// Calls PUT /profiles/{id}/following/{target}.
func (c *Client) FollowUser(ctx context.Context, id, target string) (string, error) {
	return c.relate(ctx, http.MethodPut, relationFollowing, id, target)
}

// UnfollowUser removes target from the users id follows.
//
// Calls DELETE /profiles/{id}/following/{target}.
func (c *Client) UnfollowUser(ctx context.Context, id, target string) (string, error) {
	return c.relate(ctx, http.MethodDelete, relationFollowing, id, target)
}

// BanUser bans target for id. A banned user can no longer like or comment on id's photos.
//
// Calls PUT /profiles/{id}/ban/{target}.
func (c *Client) BanUser(ctx context.Context, id, target string) (string, error) {
	return c.relate(ctx, http.MethodPut, relationBan, id, target)
}

// UnbanUser lifts a ban.
//
// Calls DELETE /profiles/{id}/ban/{target}.
func (c *Client) UnbanUser(ctx context.Context, id, target string) (string, error) {
	return c.relate(ctx, http.MethodDelete, relationBan, id, target)
}

func (c *Client) relationList(ctx context.Context, rel relation, id string) (*models.UserList, error) {
	if err := required("user id", id); err != nil {
		return nil, err
	}

	var users models.UserList
	if err := c.getJSON(ctx, profilePath(id, string(rel))+"/", &users); err != nil {
		return nil, err
	}
	return &users, nil
}

// GetFollowed lists the users id follows.
//
// Calls GET /profiles/{id}/following/.
func (c *Client) GetFollowed(ctx context.Context, id string) (*models.UserList, error) {
	return c.relationList(ctx, relationFollowing, id)
}

// GetBanned lists the users id has banned.
//
// Calls GET /profiles/{id}/ban/.
func (c *Client) GetBanned(ctx context.Context, id string) (*models.UserList, error) {
	return c.relationList(ctx, relationBan, id)
}

// LikePhoto records a like by me on a photo of owner.
//
// Calls PUT /profiles/{owner}/photos/{photo}/likes/{me}. The backend rejects a me that differs from the token.
func (c *Client) LikePhoto(ctx context.Context, owner, photo, me string) (string, error) {
	if err := required("photo owner id", owner, "photo id", photo, "user id", me); err != nil {
		return "", err
	}
	return c.send(ctx, http.MethodPut, profilePath(owner, "photos", photo, "likes", me), nil, "")
}

// UnlikePhoto removes a like by me.
//
// Calls DELETE /profiles/{owner}/photos/{photo}/likes/{me}.
func (c *Client) UnlikePhoto(ctx context.Context, owner, photo, me string) (string, error) {
	if err := required("photo owner id", owner, "photo id", photo, "user id", me); err != nil {
		return "", err
	}
	return c.send(ctx, http.MethodDelete, profilePath(owner, "photos", photo, "likes", me), nil, "")
}

// CommentPhoto adds a comment to a photo of owner as the logged in user.
//
// Calls POST /profiles/{owner}/photos/{photo}/comments with {"content": ...}.
func (c *Client) CommentPhoto(ctx context.Context, owner, photo, content string) (string, error) {
	if err := required("photo owner id", owner, "photo id", photo, "comment", content); err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return "", fmt.Errorf("failed to encode comment: %w", err)
	}
	return c.send(ctx, http.MethodPost, profilePath(owner, "photos", photo, "comments"), bytes.NewReader(body), "application/json")
}

// DeleteComment removes a comment from a photo of owner.
//
// Calls DELETE /profiles/{owner}/photos/{photo}/comments/{comment}.
func (c *Client) DeleteComment(ctx context.Context, owner, photo, comment string) (string, error) {
	if err := required("photo owner id", owner, "photo id", photo, "comment id", comment); err != nil {
		return "", err
	}
	return c.send(ctx, http.MethodDelete, profilePath(owner, "photos", photo, "comments", comment), nil, "")
}

// GetComments lists the comments on a photo of owner.
//
// Calls GET /profiles/{owner}/photos/{photo}/comments.
func (c *Client) GetComments(ctx context.Context, owner, photo string) (*models.CommentList, error) {
	if err := required("photo owner id", owner, "photo id", photo); err != nil {
		return nil, err
	}

	var comments models.CommentList
	if err := c.getJSON(ctx, profilePath(owner, "photos", photo, "comments"), &comments); err != nil {
		return nil, err
	}
	return &comments, nil
}

// SetUsername renames the user with id and returns the updated user.
//
// Calls PUT /profiles/{id}/name with {"username": ...}.
func (c *Client) SetUsername(ctx context.Context, id, name string) (*models.User, error) {
	if err := required("user id", id, "username", name); err != nil {
		return nil, err
	}
	if !usernamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: username must be 1 to 15 letters or digits", shared.ErrInvalidArgument)
	}

	body, err := json.Marshal(map[string]string{"username": name})
	if err != nil {
		return nil, fmt.Errorf("failed to encode username: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, profilePath(id, "name"), bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return &user, nil
}

// GetImage downloads the image bytes of a photo of owner.
//
// Calls GET /profiles/{owner}/photos/{photo}.
func (c *Client) GetImage(ctx context.Context, owner, photo string) ([]byte, error) {
	if err := required("photo owner id", owner, "photo id", photo); err != nil {
		return nil, err
	}

	resp, err := c.Get(ctx, profilePath(owner, "photos", photo))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DeletePhoto removes a photo of owner together with its likes and comments.
//
// Calls DELETE /profiles/{owner}/photos/{photo}.
func (c *Client) DeletePhoto(ctx context.Context, owner, photo string) (string, error) {
	if err := required("photo owner id", owner, "photo id", photo); err != nil {
		return "", err
	}
	return c.send(ctx, http.MethodDelete, profilePath(owner, "photos", photo), nil, "")
}
