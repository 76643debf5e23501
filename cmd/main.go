package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/wasaphoto/internal/session"
	"github.com/desertthunder/wasaphoto/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if level, err := shared.ParseLogLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, level)
	} else {
		logger.Warn("ignoring log level", "error", err)
	}

	ctx := context.Background()

	store, closeStore, err := session.Open(ctx, config)
	if err != nil {
		logger.Warn("session store unavailable, continuing logged out", "backend", config.Session.Backend, "error", err)
		store = nil
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Store:  store,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "wasaphoto",
		Usage:    "Browse and share photos from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(ctx, os.Args)
	if cerr := closeStore(); cerr != nil {
		logger.Warn("failed to close session store", "error", cerr)
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Warn("not logged in")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
