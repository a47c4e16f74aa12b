package main

import (
	"context"

	"github.com/sciencehub/shx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes an example config file and initializes the cache database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.writePlain("✓ Wrote %s\n", path)

	if _, err := r.database(); err != nil {
		return err
	}
	r.writePlain("✓ Initialized cache database at %s\n", r.config.Database.Path)

	r.writePlain("Edit %s, then run 'shx auth login'\n", path)
	return nil
}
