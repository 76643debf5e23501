package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/desertthunder/wasaphoto/internal/formatter"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/desertthunder/wasaphoto/internal/tasks"
	"github.com/urfave/cli/v3"
)

// emit writes data to the --output file when set, otherwise to the runner's output.
func (r *Runner) emit(cmd *cli.Command, data []byte) error {
	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, data); err != nil {
			return err
		}
		r.logger.Info("output written", "path", path)
		return nil
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Profile shows the profile view for the given user, or the logged in user when no id is given.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		if own, ok := r.ownID(ctx); ok {
			id = own
		} else {
			id = "me"
		}
	}

	match, err := r.visit(ctx, "/profiles/"+url.PathEscape(id))
	if err != nil {
		return err
	}

	profile, err := r.api.GetProfile(ctx, match.Param("id"))
	if err != nil {
		return err
	}

	data, err := formatter.RenderProfile(profile, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// Stream shows the logged in user's stream.
func (r *Runner) Stream(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if _, err := r.visit(ctx, "/stream"); err != nil {
		return err
	}

	id, ok := r.ownID(ctx)
	if !ok {
		return shared.ErrNotAuthenticated
	}

	stream, err := r.api.GetStream(ctx, id, int(cmd.Int("amount")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	data, err := formatter.RenderStream(stream, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// Search lists users whose username matches the pattern.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	pattern := strings.TrimSpace(cmd.StringArg("pattern"))
	if pattern == "" {
		return fmt.Errorf("%w: pattern", shared.ErrMissingArgument)
	}

	match, err := r.visit(ctx, "/search?pattern="+url.QueryEscape(pattern))
	if err != nil {
		return err
	}

	users, err := r.api.Search(ctx, match.Query.Get("pattern"))
	if err != nil {
		return err
	}

	data, err := formatter.RenderUsers(users, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// Upload posts every file argument as a photo of the logged in user.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: no files to upload", shared.ErrMissingArgument)
	}

	if _, err := r.visit(ctx, "/upload"); err != nil {
		return err
	}

	id, ok := r.ownID(ctx)
	if !ok {
		return shared.ErrNotAuthenticated
	}

	progress := make(chan tasks.ProgressUpdate, len(paths)*2+1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.uploads.BulkUpload(ctx, progress, id, paths, tasks.BulkUploadOpts{
		NumWorkers: int(cmd.Int("workers")),
	})
	close(progress)
	wg.Wait()
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Uploaded %d of %d photos", result.Succeeded, result.Total))
	for _, res := range result.Results {
		if res.Success {
			r.writePlain("✓ %s\n", res.Path)
		} else {
			r.writePlain("✗ %s: %v\n", res.Path, res.Error)
		}
	}

	if result.Failed > 0 {
		return fmt.Errorf("%w: %d of %d uploads failed", shared.ErrAPIRequest, result.Failed, result.Total)
	}
	return nil
}
