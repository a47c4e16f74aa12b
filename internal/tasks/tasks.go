// package tasks implements catalog operations composed from API calls.
//
// The core abstraction is Engine, which orchestrates downloads and catalog
// refreshes. Long operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/sciencehub/shx/internal/models"
)

// Backend is the slice of the API client the engine needs.
type Backend interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	DownloadPDF(ctx context.Context, book models.Book, w io.Writer) (int64, error)
}

// Recorder persists download history. Implemented by
// [repositories.DownloadRepository]; nil disables history.
type Recorder interface {
	Record(book models.Book, path string, size int64) error
}

// Cache mirrors fetched book records locally. Implemented by
// [repositories.BookCacheRepository]; nil disables caching.
type Cache interface {
	UpsertAll(books []models.Book) error
	List() ([]models.Book, error)
}

// Phase identifies the stage of a long-running operation.
type Phase int

const (
	FetchCatalog Phase = iota
	DownloadFiles
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchCatalog:
		return "fetch"
	case DownloadFiles:
		return "download"
	case WriteManifest:
		return "manifest"
	}
	return "unknown"
}

// ProgressUpdate reports progress through a channel without blocking the
// operation when nobody is listening.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
}

// Engine orchestrates catalog and download operations.
type Engine struct {
	api      Backend
	recorder Recorder
	cache    Cache
}

// NewEngine creates an engine over the backend client. recorder and cache
// may be nil.
func NewEngine(api Backend, recorder Recorder, cache Cache) *Engine {
	return &Engine{api: api, recorder: recorder, cache: cache}
}

// FetchCatalogBooks fetches the catalog and refreshes the local cache. When
// the backend is unreachable it falls back to cached books, reporting the
// fallback through the second return value.
func (e *Engine) FetchCatalogBooks(ctx context.Context) ([]models.Book, bool, error) {
	books, err := e.api.ListBooks(ctx)
	if err != nil {
		if e.cache != nil {
			if cached, cacheErr := e.cache.List(); cacheErr == nil && len(cached) > 0 {
				return cached, true, nil
			}
		}
		return nil, false, err
	}

	if e.cache != nil {
		if err := e.cache.UpsertAll(books); err != nil {
			return books, false, fmt.Errorf("fetched but failed to cache: %w", err)
		}
	}

	return books, false, nil
}

// sendProgress delivers an update without blocking a slow or absent listener.
func (e *Engine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
