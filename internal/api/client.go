package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
)

const defaultBaseURL = "http://localhost:3004"

// SessionSource provides the current session for attaching credentials.
// Implemented by [session.Store].
type SessionSource interface {
	Current() models.Session
}

// Client performs authenticated requests against the ScienceHub backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionSource
}

// NewClient creates a backend client. An empty baseURL falls back to the
// fixed local default; a nil httpClient gets a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client, sess SessionSource) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    sess,
	}
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveAssetURL resolves a cover or PDF path against the client's base URL.
func (c *Client) ResolveAssetURL(path string) string {
	return ResolveAssetURL(c.baseURL, path)
}

// ResolveAssetURL resolves a relative asset path against base. Empty paths
// stay empty and absolute URLs pass through unchanged.
func ResolveAssetURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// token returns the bearer credential, or "" when logged out.
func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	return c.session.Current().Token
}

// do performs a JSON request. authRequired calls fail with
// [shared.ErrNotAuthenticated] before any I/O when no token is held.
func (c *Client) do(ctx context.Context, method, path string, body any, authRequired bool, out any) error {
	token := c.token()
	if authRequired && token == "" {
		return shared.ErrNotAuthenticated
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

// send executes the request and decodes the response into out.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrNetworkFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// DownloadPDF streams a book's PDF into w, resolving relative asset paths.
// Returns the number of bytes written.
func (c *Client) DownloadPDF(ctx context.Context, book models.Book, w io.Writer) (int64, error) {
	if book.PDFURL == "" {
		return 0, fmt.Errorf("%w: book %s has no PDF", shared.ErrNotFound, book.ID)
	}

	url := c.ResolveAssetURL(book.PDFURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, classifyStatus(resp.StatusCode, body)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: download interrupted: %v", shared.ErrNetworkFailure, err)
	}
	return n, nil
}
