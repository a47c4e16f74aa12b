package tasks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sciencehub/shx/internal/models"
	tu "github.com/sciencehub/shx/internal/testing"
)

type fakeBackend struct {
	books      []models.Book
	listErr    error
	getErr     error
	pdfContent string
	pdfErr     error
}

func (f *fakeBackend) ListBooks(ctx context.Context) ([]models.Book, error) {
	return f.books, f.listErr
}

func (f *fakeBackend) GetBook(ctx context.Context, id string) (*models.Book, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, b := range f.books {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, errors.New("book not found")
}

func (f *fakeBackend) DownloadPDF(ctx context.Context, book models.Book, w io.Writer) (int64, error) {
	if f.pdfErr != nil {
		return 0, f.pdfErr
	}
	n, err := io.WriteString(w, f.pdfContent)
	return int64(n), err
}

type fakeCache struct {
	books     []models.Book
	upsertErr error
}

func (f *fakeCache) UpsertAll(books []models.Book) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.books = books
	return nil
}

func (f *fakeCache) List() ([]models.Book, error) { return f.books, nil }

type fakeRecorder struct {
	records int
	err     error
}

func (f *fakeRecorder) Record(models.Book, string, int64) error {
	if f.err != nil {
		return f.err
	}
	f.records++
	return nil
}

func catalog() []models.Book {
	return []models.Book{
		{ID: "b1", Title: "Linear Algebra Done Right", PDFURL: "/uploads/b1.pdf"},
		{ID: "b2", Title: "Organic Chemistry", PDFURL: "/uploads/b2.pdf"},
	}
}

func TestFetchCatalogBooks(t *testing.T) {
	t.Run("Fetches And Caches", func(t *testing.T) {
		cache := &fakeCache{}
		engine := NewEngine(&fakeBackend{books: catalog()}, nil, cache)

		books, fromCache, err := engine.FetchCatalogBooks(context.Background())

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fromCache {
			t.Error("expected a live fetch")
		}
		if len(books) != 2 {
			t.Errorf("expected 2 books, got %d", len(books))
		}
		if len(cache.books) != 2 {
			t.Errorf("expected cache to hold 2 books, got %d", len(cache.books))
		}
	})

	t.Run("Falls Back To Cache When Backend Is Down", func(t *testing.T) {
		cache := &fakeCache{books: catalog()}
		engine := NewEngine(&fakeBackend{listErr: errors.New("connection refused")}, nil, cache)

		books, fromCache, err := engine.FetchCatalogBooks(context.Background())

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !fromCache {
			t.Error("expected cached books")
		}
		if len(books) != 2 {
			t.Errorf("expected 2 cached books, got %d", len(books))
		}
	})

	t.Run("Empty Cache Surfaces The Fetch Error", func(t *testing.T) {
		boom := errors.New("connection refused")
		engine := NewEngine(&fakeBackend{listErr: boom}, nil, &fakeCache{})

		_, _, err := engine.FetchCatalogBooks(context.Background())

		if !errors.Is(err, boom) {
			t.Errorf("expected fetch error, got %v", err)
		}
	})

	t.Run("Nil Cache Disables Fallback", func(t *testing.T) {
		boom := errors.New("connection refused")
		engine := NewEngine(&fakeBackend{listErr: boom}, nil, nil)

		if _, _, err := engine.FetchCatalogBooks(context.Background()); !errors.Is(err, boom) {
			t.Errorf("expected fetch error, got %v", err)
		}
	})
}

func TestDownloadBook(t *testing.T) {
	t.Run("Writes The PDF And Records History", func(t *testing.T) {
		recorder := &fakeRecorder{}
		backend := &fakeBackend{books: catalog(), pdfContent: "%PDF-1.4 content"}
		engine := NewEngine(backend, recorder, nil)

		dir := t.TempDir()
		path, n, err := engine.DownloadBook(context.Background(), catalog()[0], dir)

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != int64(len(backend.pdfContent)) {
			t.Errorf("expected %d bytes, got %d", len(backend.pdfContent), n)
		}
		tu.AssertFileExists(t, path)
		if recorder.records != 1 {
			t.Errorf("expected 1 history record, got %d", recorder.records)
		}
	})

	t.Run("Removes Partial File On Failure", func(t *testing.T) {
		backend := &fakeBackend{books: catalog(), pdfErr: errors.New("stream reset")}
		engine := NewEngine(backend, nil, nil)

		dir := t.TempDir()
		_, _, err := engine.DownloadBook(context.Background(), catalog()[0], dir)

		if err == nil {
			t.Fatal("expected error")
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected no leftover files, found %d", len(entries))
		}
	})
}

func TestBulkDownload(t *testing.T) {
	t.Run("Downloads All Books And Writes Manifest", func(t *testing.T) {
		backend := &fakeBackend{books: catalog(), pdfContent: "%PDF-1.4 content"}
		engine := NewEngine(backend, nil, nil)

		dir := t.TempDir()
		result, err := engine.BulkDownload(context.Background(), nil, []string{"b1", "b2"}, BulkDownloadOpts{
			OutputDir:  dir,
			NumWorkers: 2,
			RateLimit:  100,
		})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SuccessCount != 2 || result.FailedCount != 0 {
			t.Errorf("expected 2 successes, got %+v", result)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "manifest.json"))

		manifest := tu.MustReadFile(t, filepath.Join(dir, "manifest.json"))
		if !strings.Contains(manifest, "Linear Algebra Done Right") {
			t.Error("expected manifest to list downloaded books")
		}
	})

	t.Run("Collects Partial Failures", func(t *testing.T) {
		backend := &fakeBackend{books: catalog(), pdfContent: "%PDF-1.4 content"}
		engine := NewEngine(backend, nil, nil)

		dir := t.TempDir()
		result, err := engine.BulkDownload(context.Background(), nil, []string{"b1", "missing"}, BulkDownloadOpts{
			OutputDir:  dir,
			NumWorkers: 1,
			RateLimit:  100,
		})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.SuccessCount != 1 || result.FailedCount != 1 {
			t.Errorf("expected 1 success and 1 failure, got %+v", result)
		}
	})

	t.Run("Reports Progress", func(t *testing.T) {
		backend := &fakeBackend{books: catalog(), pdfContent: "x"}
		engine := NewEngine(backend, nil, nil)

		prog := make(chan ProgressUpdate, 16)
		_, err := engine.BulkDownload(context.Background(), prog, []string{"b1"}, BulkDownloadOpts{
			OutputDir:  t.TempDir(),
			NumWorkers: 1,
			RateLimit:  100,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(prog)

		var phases []Phase
		for update := range prog {
			phases = append(phases, update.Phase)
		}
		if len(phases) == 0 {
			t.Fatal("expected progress updates")
		}
		if phases[len(phases)-1] != WriteManifest {
			t.Errorf("expected final phase to be manifest, got %s", phases[len(phases)-1])
		}
	})
}
