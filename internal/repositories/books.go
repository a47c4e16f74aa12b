package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
)

// BookCacheRepository persists backend book records locally.
type BookCacheRepository struct {
	db *sql.DB
}

// NewBookCacheRepository creates a new [BookCacheRepository] with the given database connection
func NewBookCacheRepository(db *sql.DB) *BookCacheRepository {
	return &BookCacheRepository{db: db}
}

// Upsert inserts or replaces a cached book, keeping its sequence stable.
func (r *BookCacheRepository) Upsert(book models.Book) error {
	if book.ID == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	var sequence int
	err := r.db.QueryRow("SELECT sequence FROM books WHERE id = ?", book.ID).Scan(&sequence)
	if err == sql.ErrNoRows {
		sequence, err = NextSequence(r.db, "books")
	}
	if err != nil {
		return fmt.Errorf("failed to resolve sequence: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO books (
			id, sequence, title, author, category_id, category_name,
			difficulty, language, cover_image_url, pdf_url,
			download_count, file_size, description, created_at, cached_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		book.ID, sequence, book.Title, book.Author,
		book.Category.ID, book.Category.Name,
		book.Difficulty, book.Language, book.CoverImageURL, book.PDFURL,
		book.DownloadCount, book.FileSize, book.Description,
		book.CreatedAt, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache book: %w", err)
	}

	return nil
}

// UpsertAll caches a fetched catalog.
func (r *BookCacheRepository) UpsertAll(books []models.Book) error {
	for _, book := range books {
		if err := r.Upsert(book); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a cached book by ID.
func (r *BookCacheRepository) Get(id string) (*models.Book, error) {
	query := `
		SELECT id, title, author, category_id, category_name,
		       difficulty, language, cover_image_url, pdf_url,
		       download_count, file_size, description, created_at
		FROM books
		WHERE id = ?
	`

	book, err := scanBook(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrBookNotCached, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return book, nil
}

// List retrieves all cached books in cache order.
func (r *BookCacheRepository) List() ([]models.Book, error) {
	query := `
		SELECT id, title, author, category_id, category_name,
		       difficulty, language, cover_image_url, pdf_url,
		       download_count, file_size, description, created_at
		FROM books
		ORDER BY sequence
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

// Clear removes all cached books.
func (r *BookCacheRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM books"); err != nil {
		return fmt.Errorf("failed to clear book cache: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*models.Book, error) {
	var (
		book      models.Book
		cover     sql.NullString
		desc      sql.NullString
		createdAt sql.NullTime
	)

	err := row.Scan(
		&book.ID, &book.Title, &book.Author,
		&book.Category.ID, &book.Category.Name,
		&book.Difficulty, &book.Language, &cover, &book.PDFURL,
		&book.DownloadCount, &book.FileSize, &desc, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	book.CoverImageURL = cover.String
	book.Description = desc.String
	if createdAt.Valid {
		book.CreatedAt = createdAt.Time
	}

	return &book, nil
}
