package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sciencehub/shx/internal/formatter"
	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/repositories"
	"github.com/sciencehub/shx/internal/shared"
	"github.com/sciencehub/shx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// BooksList fetches the catalog, applies client-side filters, and renders it
// in the requested format.
func (r *Runner) BooksList(ctx context.Context, cmd *cli.Command) error {
	var books []models.Book
	var fromCache bool
	var err error

	if cmd.Bool("offline") {
		books, err = r.cachedBooks()
		fromCache = true
	} else {
		books, fromCache, err = r.taskEngine().FetchCatalogBooks(ctx)
	}
	if err != nil {
		return r.apiErr(err)
	}

	if fromCache {
		r.logger.Warn("showing cached catalog, data may be stale")
	}

	filter := models.BookFilter{
		Query:      cmd.String("query"),
		Category:   cmd.String("category"),
		Difficulty: cmd.String("difficulty"),
		Language:   cmd.String("language"),
	}
	books = models.FilterBooks(books, filter)

	data, err := r.renderBooks(books, cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.SaveToFile(path, data); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d books to %s\n", len(books), path)
	}

	return r.writePlain("%s", data)
}

func (r *Runner) renderBooks(books []models.Book, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "table", "text", "":
		return formatter.ExportToText(books), nil
	case "json":
		data, err := json.MarshalIndent(books, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case "csv":
		return formatter.ExportToCSV(books)
	case "markdown", "md":
		return formatter.ExportToMarkdown("ScienceHub Catalog", books), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

func (r *Runner) cachedBooks() ([]models.Book, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewBookCacheRepository(db).List()
}

// BooksShow displays a single book by ID.
func (r *Runner) BooksShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	book, err := r.client.GetBook(ctx, id)
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(book, true)
	}

	r.writePlain("%s\n", book.Title)
	r.writePlain("Author: %s\n", book.Author)
	r.writePlain("Category: %s\n", book.Category.Name)
	r.writePlain("Difficulty: %s\n", book.Difficulty)
	r.writePlain("Language: %s\n", book.Language)
	r.writePlain("Size: %s\n", formatter.FormatFileSize(book.FileSize))
	r.writePlain("Downloads: %d\n", book.DownloadCount)
	if book.CoverImageURL != "" {
		r.writePlain("Cover: %s\n", r.client.ResolveAssetURL(book.CoverImageURL))
	}
	if book.Description != "" {
		r.writePlainln("%s", book.Description)
	}
	return nil
}

// BooksCategories lists the backend's categories.
func (r *Runner) BooksCategories(ctx context.Context, cmd *cli.Command) error {
	categories, err := r.client.ListCategories(ctx)
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, true)
	}

	for _, c := range categories {
		r.writePlain("%s\t%s\n", c.ID, c.Name)
	}
	return nil
}

// BooksDownload fetches a single book's PDF into the output directory.
func (r *Runner) BooksDownload(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	book, err := r.client.GetBook(ctx, id)
	if err != nil {
		return r.apiErr(err)
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = r.config.Downloads.Dir
	}

	r.logger.Infof("downloading %q to %s", book.Title, dir)

	path, n, err := r.taskEngine().DownloadBook(ctx, *book, dir)
	if err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Saved %s (%s)\n", path, formatter.FormatFileSize(n))
}

// BooksBulkDownload downloads several books through the worker pool and
// prints a summary. Per-book failures are reported but do not abort the run.
func (r *Runner) BooksBulkDownload(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one book ID", shared.ErrMissingArgument)
	}

	opts := tasks.BulkDownloadOpts{
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = r.config.Downloads.Workers
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.Downloads.RateLimit
	}

	prog := make(chan tasks.ProgressUpdate, len(ids)*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Infof("[%s] %s", update.Phase, update.Message)
		}
	}()

	result, err := r.taskEngine().BulkDownload(ctx, prog, ids, opts)
	close(prog)
	<-done
	if err != nil {
		return r.apiErr(err)
	}

	r.writePlain("✓ Downloaded %d/%d books to %s\n",
		result.SuccessCount, result.TotalBooks, result.OutputDirectory)
	for _, br := range result.Results {
		if !br.Success {
			r.writePlain("  ✗ %s: %v\n", br.BookID, br.Error)
		}
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("%d downloads failed", result.FailedCount)
	}
	return nil
}

// BooksHistory prints local download history from the cache database.
func (r *Runner) BooksHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	records, err := repositories.NewDownloadRepository(db).List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return r.writePlain("No downloads recorded\n")
	}

	for _, rec := range records {
		r.writePlain("%s\t%s\t%s\t%s\n",
			rec.DownloadedAt.Format("2006-01-02 15:04"),
			rec.Title,
			formatter.FormatFileSize(rec.FileSize),
			rec.Path)
	}
	return nil
}
