package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
)

// ListBooks fetches the full catalog. Filtering happens client-side.
func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, false, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches a single book by ID.
func (c *Client) GetBook(ctx context.Context, id string) (*models.Book, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	var book models.Book
	if err := c.do(ctx, http.MethodGet, "/books/"+id, nil, false, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBookInput carries the fields and file paths for a new book record.
type CreateBookInput struct {
	Title       string
	Author      string
	CategoryID  string
	Difficulty  string
	Language    string
	Description string
	PDFPath     string
	CoverPath   string
}

// CreateBook uploads a new book record as multipart form data. Requires an
// elevated role on the backend.
func (c *Client) CreateBook(ctx context.Context, input CreateBookInput) (*models.Book, error) {
	token := c.token()
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if input.PDFPath == "" {
		return nil, fmt.Errorf("%w: pdf path", shared.ErrMissingArgument)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       input.Title,
		"author":      input.Author,
		"categoryId":  input.CategoryID,
		"difficulty":  input.Difficulty,
		"language":    input.Language,
		"description": input.Description,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if err := attachFile(writer, "pdf", input.PDFPath); err != nil {
		return nil, err
	}
	if input.CoverPath != "" {
		if err := attachFile(writer, "cover", input.CoverPath); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/books", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var book models.Book
	if err := c.send(req, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func attachFile(writer *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s file: %w", field, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create %s form part: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s file: %w", field, err)
	}
	return nil
}

// UpdateBookInput carries the mutable book fields for a PATCH. Nil pointers
// are omitted so the backend leaves those fields untouched.
type UpdateBookInput struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	Language    *string `json:"language,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateBook patches an existing book record. Requires an elevated role.
func (c *Client) UpdateBook(ctx context.Context, id string, input UpdateBookInput) (*models.Book, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}

	var book models.Book
	if err := c.do(ctx, http.MethodPatch, "/books/"+id, input, true, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteBook removes a book record. Requires an elevated role.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: book ID", shared.ErrMissingArgument)
	}
	return c.do(ctx, http.MethodDelete, "/books/"+id, nil, true, nil)
}

// ListCategories fetches all book categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, false, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category. Requires an elevated role.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name", shared.ErrMissingArgument)
	}

	var category models.Category
	payload := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/categories", payload, true, &category); err != nil {
		return nil, err
	}
	return &category, nil
}
