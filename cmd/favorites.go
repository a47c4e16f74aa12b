package main

import (
	"context"
	"fmt"

	"github.com/sciencehub/shx/internal/session"
	"github.com/sciencehub/shx/internal/shared"
	"github.com/urfave/cli/v3"
)

// FavoritesList shows the authenticated user's favorite books.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard(session.RequireAuthenticated); err != nil {
		return err
	}

	favs, err := r.client.ListFavorites(ctx)
	if err != nil {
		return r.apiErr(err)
	}

	// keep local flags in sync with what we just displayed
	if err := r.toggler.Refresh(ctx); err != nil {
		r.logger.Warnf("failed to sync favorite flags: %v", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(favs, true)
	}

	if len(favs) == 0 {
		return r.writePlain("No favorites yet\n")
	}

	for _, fav := range favs {
		r.writePlain("♥ %s by %s (%s)\n", fav.Book.Title, fav.Book.Author, fav.Book.ID)
	}
	return nil
}

// FavoritesToggle flips the favorite relation for one book.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard(session.RequireAuthenticated); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	nowFavorite, err := r.toggler.Toggle(ctx, id)
	if err != nil {
		return r.apiErr(err)
	}

	if nowFavorite {
		return r.writePlain("✓ Added %s to favorites\n", id)
	}
	return r.writePlain("✓ Removed %s from favorites\n", id)
}
