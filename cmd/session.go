package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionShow reports whether a token is stored.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	token, ok := session.Bearer(ctx, r.store, r.logger)
	if !ok {
		return r.writePlain("Not logged in\n")
	}
	return r.writePlain("Logged in as user %s\n", token)
}

// SessionSet stores a token. Blank tokens are rejected since the login gate would ignore them.
func (r *Runner) SessionSet(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.StringArg("token"))
	if !session.Present(token) {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}
	if r.store == nil {
		return shared.ErrStoreUnavailable
	}

	if err := r.store.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	r.logger.Info("token stored", "backend", r.config.Session.Backend)
	return r.writePlain("✓ Logged in as user %s\n", token)
}

// SessionClear removes the stored token.
func (r *Runner) SessionClear(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return shared.ErrStoreUnavailable
	}

	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	r.logger.Info("token cleared", "backend", r.config.Session.Backend)
	return r.writePlain("✓ Logged out\n")
}
