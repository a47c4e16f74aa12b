package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
)

// DownloadRecord is one row of local download history.
type DownloadRecord struct {
	ID           string
	BookID       string
	Title        string
	Path         string
	FileSize     int64
	DownloadedAt time.Time
}

// DownloadRepository persists download history.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new [DownloadRepository] with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Record inserts a download history row with a generated ID.
func (r *DownloadRepository) Record(book models.Book, path string, size int64) error {
	sequence, err := NextSequence(r.db, "downloads")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO downloads (id, sequence, book_id, title, path, file_size, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, shared.GenerateID(), sequence, book.ID, book.Title, path, size, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert download record: %w", err)
	}

	return nil
}

// List retrieves download history, most recent last.
func (r *DownloadRepository) List() ([]DownloadRecord, error) {
	query := `
		SELECT id, book_id, title, path, file_size, downloaded_at
		FROM downloads
		ORDER BY sequence
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var records []DownloadRecord
	for rows.Next() {
		var rec DownloadRecord
		var downloadedAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.BookID, &rec.Title, &rec.Path, &rec.FileSize, &downloadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download record: %w", err)
		}
		if downloadedAt.Valid {
			rec.DownloadedAt = downloadedAt.Time
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate downloads: %w", err)
	}

	return records, nil
}
