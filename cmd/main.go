package main

import (
	"context"
	"errors"
	"os"

	"github.com/sciencehub/shx/internal/api"
	"github.com/sciencehub/shx/internal/favorites"
	"github.com/sciencehub/shx/internal/session"
	"github.com/sciencehub/shx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	// Rehydrate before anything that reads the session.
	store := session.NewStore(session.NewFilePersister(config.Session.Path))
	client := api.NewClient(config.ResolveBaseURL(), nil, store)
	toggler := favorites.NewToggler(client, store)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Store:   store,
		Client:  client,
		Toggler: toggler,
		Logger:  logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "shx",
		Usage:    "Browse, download, and manage the ScienceHub digital archive",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
