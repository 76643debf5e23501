package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/wasaphoto/internal/formatter"
	"github.com/desertthunder/wasaphoto/internal/navigation"
	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/urfave/cli/v3"
)

type navigationReport struct {
	Attempt   string `json:"attempt"`
	Target    string `json:"target"`
	Decision  string `json:"decision"`
	Committed bool   `json:"committed"`
	Route     string `json:"route,omitempty"`
	Redirects int    `json:"redirects"`
}

func reportOf(res navigation.Result) navigationReport {
	report := navigationReport{
		Attempt:   res.Attempt.ID,
		Target:    res.Attempt.Target.Path,
		Decision:  res.Decision.String(),
		Committed: res.Committed,
		Redirects: res.Redirects,
	}
	if res.Committed {
		report.Route = res.Route.Path
	}
	return report
}

// Navigate runs one navigation from a fresh start and prints the login gate's decision.
func (r *Runner) Navigate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	res, err := r.engine.Start(ctx, path)
	if err != nil {
		return err
	}

	report := reportOf(res)
	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	r.writePlain("decision: %s\n", report.Decision)
	if res.Committed {
		r.writePlain("route:    %s (%s)\n", res.Route.Route.Name, res.Route.Path)
	} else {
		r.writePlain("route:    unchanged\n")
	}
	return nil
}

// Routes prints the route table.
func (r *Runner) Routes(ctx context.Context, cmd *cli.Command) error {
	_, err := r.output.Write(formatter.RoutesToText(r.table.Routes()))
	return err
}

// visit navigates to path the way the TUI's initial load would and returns the committed route.
//
// A redirect to the login route prints a hint and returns [shared.ErrNotAuthenticated]; callers must not fetch
// anything in that case.
func (r *Runner) visit(ctx context.Context, path string) (navigation.Match, error) {
	res, err := r.engine.Start(ctx, path)
	if err != nil {
		return navigation.Match{}, err
	}

	if !res.Committed {
		return navigation.Match{}, fmt.Errorf("%w: navigation to %s was cancelled", shared.ErrInvalidArgument, path)
	}
	if res.Redirected() {
		r.writePlain("Not logged in. Run 'wasaphoto session set <user id>' first.\n")
		return navigation.Match{}, fmt.Errorf("%w: redirected to %s", shared.ErrNotAuthenticated, res.Route.Path)
	}
	return res.Route, nil
}

// ownID returns the logged in user's identifier, which is the bearer token itself.
func (r *Runner) ownID(ctx context.Context) (string, bool) {
	return session.Bearer(ctx, r.store, r.logger)
}
