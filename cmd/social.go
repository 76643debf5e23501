package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/wasaphoto/internal/formatter"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/urfave/cli/v3"
)

// actAs runs the login gate for path and returns the logged in user's id.
//
// Every command that changes state on the backend goes through here, so a logged out session never sends a request.
func (r *Runner) actAs(ctx context.Context, path string) (string, error) {
	if _, err := r.visit(ctx, path); err != nil {
		return "", err
	}
	id, ok := r.ownID(ctx)
	if !ok {
		return "", shared.ErrNotAuthenticated
	}
	return id, nil
}

// positional returns the first n positional arguments, failing on the first blank one.
func positional(cmd *cli.Command, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = strings.TrimSpace(cmd.Args().Get(i))
		if values[i] == "" {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
		}
	}
	return values, nil
}

func profileRoute(id string) string {
	return "/profiles/" + url.PathEscape(id)
}

func (r *Runner) relationAction(ctx context.Context, cmd *cli.Command, call func(ctx context.Context, id, target string) (string, error)) error {
	target := strings.TrimSpace(cmd.StringArg("id"))
	if target == "" {
		return fmt.Errorf("%w: user id", shared.ErrMissingArgument)
	}

	me, err := r.actAs(ctx, profileRoute(target))
	if err != nil {
		return err
	}

	msg, err := call(ctx, me, target)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", msg)
}

// Follow follows the user given as argument.
func (r *Runner) Follow(ctx context.Context, cmd *cli.Command) error {
	return r.relationAction(ctx, cmd, r.api.FollowUser)
}

// Unfollow stops following the user given as argument.
func (r *Runner) Unfollow(ctx context.Context, cmd *cli.Command) error {
	return r.relationAction(ctx, cmd, r.api.UnfollowUser)
}

// Ban bans the user given as argument.
func (r *Runner) Ban(ctx context.Context, cmd *cli.Command) error {
	return r.relationAction(ctx, cmd, r.api.BanUser)
}

// Unban lifts the ban on the user given as argument.
func (r *Runner) Unban(ctx context.Context, cmd *cli.Command) error {
	return r.relationAction(ctx, cmd, r.api.UnbanUser)
}

// Following lists the users the logged in user follows.
func (r *Runner) Following(ctx context.Context, cmd *cli.Command) error {
	return r.ownList(ctx, cmd, false)
}

// Banned lists the users the logged in user has banned.
func (r *Runner) Banned(ctx context.Context, cmd *cli.Command) error {
	return r.ownList(ctx, cmd, true)
}

func (r *Runner) ownList(ctx context.Context, cmd *cli.Command, banned bool) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	own, ok := r.ownID(ctx)
	if !ok {
		own = "me"
	}
	me, err := r.actAs(ctx, profileRoute(own))
	if err != nil {
		return err
	}

	list := r.api.GetFollowed
	if banned {
		list = r.api.GetBanned
	}
	users, err := list(ctx, me)
	if err != nil {
		return err
	}

	data, err := formatter.RenderUsers(users, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// Like likes a photo: like <owner> <photo>.
func (r *Runner) Like(ctx context.Context, cmd *cli.Command) error {
	return r.likeAction(ctx, cmd, r.api.LikePhoto)
}

// Unlike removes a like: unlike <owner> <photo>.
func (r *Runner) Unlike(ctx context.Context, cmd *cli.Command) error {
	return r.likeAction(ctx, cmd, r.api.UnlikePhoto)
}

func (r *Runner) likeAction(ctx context.Context, cmd *cli.Command, call func(ctx context.Context, owner, photo, me string) (string, error)) error {
	args, err := positional(cmd, "photo owner id", "photo id")
	if err != nil {
		return err
	}

	me, err := r.actAs(ctx, profileRoute(args[0]))
	if err != nil {
		return err
	}

	msg, err := call(ctx, args[0], args[1], me)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", msg)
}

// CommentAdd comments on a photo: comment add <owner> <photo> <text...>.
func (r *Runner) CommentAdd(ctx context.Context, cmd *cli.Command) error {
	args, err := positional(cmd, "photo owner id", "photo id")
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(cmd.Args().Slice()[2:], " "))
	if text == "" {
		return fmt.Errorf("%w: comment text", shared.ErrMissingArgument)
	}

	if _, err := r.actAs(ctx, profileRoute(args[0])); err != nil {
		return err
	}

	msg, err := r.api.CommentPhoto(ctx, args[0], args[1], text)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", msg)
}

// CommentDelete removes a comment: comment delete <owner> <photo> <comment>.
func (r *Runner) CommentDelete(ctx context.Context, cmd *cli.Command) error {
	args, err := positional(cmd, "photo owner id", "photo id", "comment id")
	if err != nil {
		return err
	}

	if _, err := r.actAs(ctx, profileRoute(args[0])); err != nil {
		return err
	}

	msg, err := r.api.DeleteComment(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", msg)
}

// CommentList prints the comments on a photo: comment list <owner> <photo>.
func (r *Runner) CommentList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	args, err := positional(cmd, "photo owner id", "photo id")
	if err != nil {
		return err
	}

	if _, err := r.actAs(ctx, profileRoute(args[0])); err != nil {
		return err
	}

	comments, err := r.api.GetComments(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	data, err := formatter.RenderComments(comments, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// Username renames the logged in user.
func (r *Runner) Username(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	own, ok := r.ownID(ctx)
	if !ok {
		own = "me"
	}
	me, err := r.actAs(ctx, profileRoute(own))
	if err != nil {
		return err
	}

	user, err := r.api.SetUsername(ctx, me, name)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Username changed to %s (#%d)\n", user.Username, user.ID)
}

// PhotoGet downloads a photo: photo get <owner> <photo> [--output file].
func (r *Runner) PhotoGet(ctx context.Context, cmd *cli.Command) error {
	args, err := positional(cmd, "photo owner id", "photo id")
	if err != nil {
		return err
	}

	if _, err := r.actAs(ctx, profileRoute(args[0])); err != nil {
		return err
	}

	img, err := r.api.GetImage(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" {
		path = fmt.Sprintf("photo-%s-%s.png", args[0], args[1])
	}
	if err := formatter.WriteFile(path, img); err != nil {
		return err
	}
	return r.writePlain("✓ Saved %d bytes to %s\n", len(img), path)
}

// PhotoDelete removes one of the logged in user's photos: photo delete <photo>.
func (r *Runner) PhotoDelete(ctx context.Context, cmd *cli.Command) error {
	photo := strings.TrimSpace(cmd.StringArg("photo"))
	if photo == "" {
		return fmt.Errorf("%w: photo id", shared.ErrMissingArgument)
	}

	own, ok := r.ownID(ctx)
	if !ok {
		own = "me"
	}
	me, err := r.actAs(ctx, profileRoute(own))
	if err != nil {
		return err
	}

	msg, err := r.api.DeletePhoto(ctx, me, photo)
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s\n", msg)
}
