package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
)

// BulkDownloadOpts contains configuration for bulk PDF downloads.
type BulkDownloadOpts struct {
	OutputDir  string  // Base output directory (default: sciencehub_books_{epoch})
	NumWorkers int     // Concurrent workers (default: 3)
	RateLimit  float64 // Requests per second (default: 2)
}

// BookDownloadResult is the outcome for a single book.
type BookDownloadResult struct {
	BookID  string
	Title   string
	Path    string
	Bytes   int64
	Success bool
	Error   error
}

// BulkDownloadResult summarizes a bulk download run.
type BulkDownloadResult struct {
	TotalBooks      int
	SuccessCount    int
	FailedCount     int
	OutputDirectory string
	Results         []BookDownloadResult
}

type downloadJob struct {
	book models.Book
}

// DownloadBook fetches one book's PDF into dir and records it in history.
// Returns the written path and byte count.
func (e *Engine) DownloadBook(ctx context.Context, book models.Book, dir string) (string, int64, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, pdfFilename(book))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := e.api.DownloadPDF(ctx, book, f)
	closeErr := f.Close()
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	if closeErr != nil {
		return "", 0, fmt.Errorf("failed to finalize output file: %w", closeErr)
	}

	if e.recorder != nil {
		if err := e.recorder.Record(book, path, n); err != nil {
			return path, n, fmt.Errorf("downloaded but failed to record history: %w", err)
		}
	}

	return path, n, nil
}

// BulkDownload downloads multiple books concurrently with rate limiting and
// progress tracking.
//
// This method implements a worker pool: a producer fetches book metadata
// under a rate limiter and feeds workers that stream PDFs to disk. Partial
// failures are collected rather than aborting the run, and a manifest file
// summarizes the results.
func (e *Engine) BulkDownload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkDownloadOpts,
) (*BulkDownloadResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrInvalidConfig)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("sciencehub_books_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 3
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkDownloadResult{
		TotalBooks:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]BookDownloadResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan downloadJob, len(ids))
	results := make(chan BookDownloadResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range ids {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, ProgressUpdate{
				Phase:   FetchCatalog,
				Step:    i + 1,
				Total:   len(ids),
				Message: fmt.Sprintf("fetching book %s", id),
			})

			book, err := e.api.GetBook(ctx, id)
			if err != nil {
				results <- BookDownloadResult{
					BookID:  id,
					Title:   fmt.Sprintf("Unknown (%s)", id),
					Success: false,
					Error:   fmt.Errorf("failed to fetch book: %w", err),
				}
				continue
			}

			jobs <- downloadJob{book: *book}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		result.Results = append(result.Results, res)
		if res.Success {
			result.SuccessCount++
		} else {
			result.FailedCount++
		}
		e.sendProgress(prog, ProgressUpdate{
			Phase:   DownloadFiles,
			Step:    len(result.Results),
			Total:   len(ids),
			Message: res.Title,
		})
	}

	e.sendProgress(prog, ProgressUpdate{Phase: WriteManifest, Message: "writing manifest"})
	if err := writeManifest(opts.OutputDir, result); err != nil {
		return result, err
	}

	return result, nil
}

func (e *Engine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan downloadJob,
	results chan<- BookDownloadResult,
	opts BulkDownloadOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- BookDownloadResult{
				BookID:  job.book.ID,
				Title:   job.book.Title,
				Success: false,
				Error:   ctx.Err(),
			}
			continue
		default:
		}

		path, n, err := e.DownloadBook(ctx, job.book, opts.OutputDir)
		results <- BookDownloadResult{
			BookID:  job.book.ID,
			Title:   job.book.Title,
			Path:    path,
			Bytes:   n,
			Success: err == nil,
			Error:   err,
		}
	}
}

// pdfFilename derives a filesystem-safe filename for a book's PDF.
func pdfFilename(book models.Book) string {
	name := book.Title
	if name == "" {
		name = book.ID
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "-", "?", "", "\"", "", "<", "", ">", "", "|", "-")
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		name = book.ID
	}
	return name + ".pdf"
}

type manifestEntry struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Path   string `json:"path,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeManifest(dir string, result *BulkDownloadResult) error {
	entries := make([]manifestEntry, 0, len(result.Results))
	for _, res := range result.Results {
		entry := manifestEntry{
			BookID: res.BookID,
			Title:  res.Title,
			Path:   res.Path,
			Bytes:  res.Bytes,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		entries = append(entries, entry)
	}

	manifest := struct {
		Total     int             `json:"total"`
		Succeeded int             `json:"succeeded"`
		Failed    int             `json:"failed"`
		Books     []manifestEntry `json:"books"`
	}{
		Total:     result.TotalBooks,
		Succeeded: result.SuccessCount,
		Failed:    result.FailedCount,
		Books:     entries,
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
