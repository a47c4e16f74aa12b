package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
)

// ToggleFavorite flips the favorite relation between the authenticated user
// and a book. The backend treats every call as a flip, so sequencing is the
// caller's job; [favorites.Toggler] provides it.
func (c *Client) ToggleFavorite(ctx context.Context, bookID string) error {
	if bookID == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	payload := map[string]string{"bookId": bookID}
	return c.do(ctx, http.MethodPost, "/favorites/toggle", payload, true, nil)
}

// ListFavorites fetches the authenticated user's canonical favorites list.
func (c *Client) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := c.do(ctx, http.MethodGet, "/favorites", nil, true, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}
