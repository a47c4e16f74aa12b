// Package favorites implements the favorite-toggle interaction shared by
// every surface that displays a book.
//
// The backend's toggle endpoint treats each call as a flip, so two calls in
// flight for the same book would silently cancel each other. [Toggler] keys
// an in-flight call per book ID with [singleflight.Group]: concurrent
// toggles for one book share exactly one HTTP call and its result. The local
// flag for a book flips only after the backend confirms, and a response that
// lands after the session changed is discarded instead of applied.
package favorites

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
)

// Client is the slice of the API client the toggler needs.
type Client interface {
	ToggleFavorite(ctx context.Context, bookID string) error
	ListFavorites(ctx context.Context) ([]models.Favorite, error)
}

// Sessions is the slice of the session store the toggler needs.
type Sessions interface {
	Current() models.Session
	Epoch() uint64
}

// Toggler tracks per-book favorite flags and serializes toggle calls.
type Toggler struct {
	client  Client
	session Sessions
	group   singleflight.Group

	mu    sync.Mutex
	flags map[string]bool
	epoch uint64 // session epoch the flags belong to
}

// NewToggler creates a Toggler over the given client and session store.
func NewToggler(client Client, session Sessions) *Toggler {
	return &Toggler{
		client:  client,
		session: session,
		flags:   make(map[string]bool),
		epoch:   session.Epoch(),
	}
}

// syncLocked drops flags that belong to a previous session.
func (t *Toggler) syncLocked() {
	if current := t.session.Epoch(); current != t.epoch {
		t.flags = make(map[string]bool)
		t.epoch = current
	}
}

// IsFavorite reports the locally known favorite flag for a book. It reflects
// confirmed toggles and the last Refresh; unknown books report false.
func (t *Toggler) IsFavorite(bookID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncLocked()
	return t.flags[bookID]
}

// Toggle flips the favorite relation for a book and returns the new flag.
//
// Preconditions and guarantees:
//   - An unauthenticated caller gets [shared.ErrNotAuthenticated] and no HTTP
//     call is issued.
//   - Concurrent calls for the same book share one HTTP call and one result.
//   - The flag changes only after the backend confirms; failures leave it
//     untouched.
//   - A confirmation arriving after a SetAuth or Logout is discarded with
//     [shared.ErrSessionChanged].
func (t *Toggler) Toggle(ctx context.Context, bookID string) (bool, error) {
	if bookID == "" {
		return false, fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}
	if !t.session.Current().Authenticated() {
		return false, shared.ErrNotAuthenticated
	}

	issued := t.session.Epoch()

	v, err, _ := t.group.Do(bookID, func() (any, error) {
		if err := t.client.ToggleFavorite(ctx, bookID); err != nil {
			return false, err
		}

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.session.Epoch() != issued {
			return false, shared.ErrSessionChanged
		}
		t.syncLocked()
		t.flags[bookID] = !t.flags[bookID]
		return t.flags[bookID], nil
	})
	if err != nil {
		return false, err
	}

	return v.(bool), nil
}

// Refresh reconciles local flags against the backend's canonical favorites
// list. Cheap enough to call after login and on favorites-page loads; it is
// the authoritative answer to "is this book already a favorite".
func (t *Toggler) Refresh(ctx context.Context) error {
	if !t.session.Current().Authenticated() {
		return shared.ErrNotAuthenticated
	}

	issued := t.session.Epoch()
	favorites, err := t.client.ListFavorites(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session.Epoch() != issued {
		return shared.ErrSessionChanged
	}

	t.flags = make(map[string]bool, len(favorites))
	t.epoch = issued
	for _, fav := range favorites {
		t.flags[fav.Book.ID] = true
	}
	return nil
}
