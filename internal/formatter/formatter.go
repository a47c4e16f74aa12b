// package formatter provides functions to export book listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sciencehub/shx/internal/models"
)

// ExportToCSV converts a book list to CSV with columns: ID, Title, Author, Category, Difficulty, Language, Downloads, Size
func ExportToCSV(books []models.Book) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Category", "Difficulty", "Language", "Downloads", "Size"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, book := range books {
		record := []string{
			book.ID,
			book.Title,
			book.Author,
			book.Category.Name,
			book.Difficulty,
			book.Language,
			strconv.Itoa(book.DownloadCount),
			strconv.FormatInt(book.FileSize, 10),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a book list to a Markdown document.
func ExportToMarkdown(title string, books []models.Book) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Books**: %d\n\n", len(books)))

	for i, book := range books {
		buf.WriteString(fmt.Sprintf("%d. **%s** by %s\n", i+1, book.Title, book.Author))
		buf.WriteString(fmt.Sprintf("   %s · %s · %s · %s\n",
			book.Category.Name, book.Difficulty, book.Language, FormatFileSize(book.FileSize)))
		if book.Description != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", book.Description))
		}
	}

	return buf.Bytes()
}

// ExportToText converts a book list to plain text, one book per line.
func ExportToText(books []models.Book) []byte {
	var buf bytes.Buffer

	for _, book := range books {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\n",
			book.ID, book.Title, book.Author, book.Category.Name, book.Difficulty))
	}

	return buf.Bytes()
}

// FormatFileSize renders a byte count as a human-readable size.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// SaveToFile writes formatted output to the specified path.
func SaveToFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
