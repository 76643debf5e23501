package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/desertthunder/wasaphoto/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI. The initial path goes through the login gate like any other navigation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: cannot log in without a session store", shared.ErrStoreUnavailable)
	}

	startPath := cmd.StringArg("path")
	if startPath == "" {
		startPath = r.config.UI.StartPath
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.ModelOpts{
		Engine:    r.engine,
		Store:     r.store,
		API:       r.api,
		Uploads:   r.uploads,
		Logger:    r.logger,
		StartPath: startPath,
	})
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
