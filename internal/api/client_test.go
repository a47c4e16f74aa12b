package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sciencehub/shx/internal/models"
	"github.com/sciencehub/shx/internal/shared"
	tu "github.com/sciencehub/shx/internal/testing"
)

func authedSessions() *tu.FakeSessions {
	f := &tu.FakeSessions{}
	f.SetAuth(models.User{ID: "u1", Email: "ada@example.com", Role: models.RoleUser}, "tok")
	return f
}

// countingTransport fails the test if any request goes out.
type countingTransport struct {
	t     *testing.T
	calls int
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.calls++
	c.t.Error("expected no HTTP request to be issued")
	return nil, errors.New("unexpected request")
}

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewClient("", nil, nil)

			if c.baseURL != "http://localhost:3004" {
				t.Errorf("expected default baseURL, got %s", c.baseURL)
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			c := NewClient("http://example.com/", nil, nil)

			if c.baseURL != "http://example.com" {
				t.Errorf("expected trimmed baseURL, got %s", c.baseURL)
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			c := NewClient("http://example.com", nil, nil)

			if c.httpClient == nil {
				t.Fatal("expected a default http client")
			}
			if c.httpClient.Timeout == 0 {
				t.Error("expected default client to carry a timeout")
			}
		})
	})

	t.Run("Authenticated Call Without Token", func(t *testing.T) {
		transport := &countingTransport{t: t}
		c := NewClient("http://example.com", &http.Client{Transport: transport}, &tu.FakeSessions{})

		_, err := c.Profile(context.Background())

		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if transport.calls != 0 {
			t.Errorf("expected 0 requests, got %d", transport.calls)
		}
	})

	t.Run("Attaches Bearer Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("expected 'Bearer tok', got %q", got)
			}
			json.NewEncoder(w).Encode(models.User{ID: "u1"})
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, authedSessions())
		if _, err := c.Profile(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Public Call Omits Authorization When Logged Out", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("expected no Authorization header, got %q", got)
			}
			json.NewEncoder(w).Encode([]models.Book{})
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, &tu.FakeSessions{})
		if _, err := c.ListBooks(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Network Failure", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}
		c := NewClient("http://example.com", client, nil)

		_, err := c.ListBooks(context.Background())

		if !errors.Is(err, shared.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
	})

	t.Run("Status Mapping", func(t *testing.T) {
		cases := []struct {
			name   string
			status int
			want   error
		}{
			{"401 Is Unauthorized", 401, shared.ErrUnauthorized},
			{"403 Is Forbidden", 403, shared.ErrForbidden},
			{"404 Is NotFound", 404, shared.ErrNotFound},
			{"400 Is Validation", 400, shared.ErrValidation},
			{"422 Is Validation", 422, shared.ErrValidation},
			{"500 Is ServerError", 500, shared.ErrServerError},
			{"502 Is ServerError", 502, shared.ErrServerError},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				client := &http.Client{
					Transport: tu.NewMockRoundTripper(
						tu.JSONResponse(tc.status, `{"message":"nope"}`),
						nil,
					),
				}
				c := NewClient("http://example.com", client, authedSessions())

				_, err := c.ListBooks(context.Background())

				if !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})
}

func TestResolveAssetURL(t *testing.T) {
	base := "http://localhost:3004"

	t.Run("Empty Path Stays Empty", func(t *testing.T) {
		if got := ResolveAssetURL(base, ""); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("Absolute URL Passes Through", func(t *testing.T) {
		for _, url := range []string{
			"http://cdn.example.com/covers/1.jpg",
			"https://cdn.example.com/covers/1.jpg",
		} {
			if got := ResolveAssetURL(base, url); got != url {
				t.Errorf("expected %q unchanged, got %q", url, got)
			}
		}
	})

	t.Run("Relative Path Joins Base", func(t *testing.T) {
		if got := ResolveAssetURL(base, "/uploads/covers/1.jpg"); got != base+"/uploads/covers/1.jpg" {
			t.Errorf("unexpected resolved URL %q", got)
		}
	})

	t.Run("Missing Leading Slash Is Added", func(t *testing.T) {
		if got := ResolveAssetURL(base, "uploads/covers/1.jpg"); got != base+"/uploads/covers/1.jpg" {
			t.Errorf("unexpected resolved URL %q", got)
		}
	})

	t.Run("Trailing Slash On Base Does Not Double", func(t *testing.T) {
		if got := ResolveAssetURL(base+"/", "/uploads/1.pdf"); got != base+"/uploads/1.pdf" {
			t.Errorf("unexpected resolved URL %q", got)
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("Returns User And Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/login" {
				t.Errorf("expected path '/auth/login', got %s", r.URL.Path)
			}

			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			if payload["email"] != "ada@example.com" {
				t.Errorf("expected email in payload, got %q", payload["email"])
			}

			json.NewEncoder(w).Encode(map[string]any{
				"user":         models.User{ID: "u1", Email: "ada@example.com", Role: models.RoleAdmin},
				"access_token": "issued-token",
			})
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, nil)
		user, token, err := c.Login(context.Background(), "ada@example.com", "hunter2")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID != "u1" {
			t.Errorf("expected user u1, got %s", user.ID)
		}
		if token != "issued-token" {
			t.Errorf("expected token 'issued-token', got %s", token)
		}
	})

	t.Run("Missing Access Token Is An Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"user": models.User{ID: "u1"}})
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, nil)
		if _, _, err := c.Login(context.Background(), "a@b.c", "pw"); err == nil {
			t.Error("expected error for response without token")
		}
	})

	t.Run("Bad Credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"message": "Invalid credentials", "statusCode": 401})
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, nil)
		_, _, err := c.Login(context.Background(), "a@b.c", "wrong")

		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestToggleFavorite(t *testing.T) {
	t.Run("Posts Book ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/favorites/toggle" {
				t.Errorf("expected POST /favorites/toggle, got %s %s", r.Method, r.URL.Path)
			}

			var payload map[string]string
			json.NewDecoder(r.Body).Decode(&payload)
			if payload["bookId"] != "b1" {
				t.Errorf("expected bookId 'b1', got %q", payload["bookId"])
			}

			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, authedSessions())
		if err := c.ToggleFavorite(context.Background(), "b1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Empty Book ID", func(t *testing.T) {
		c := NewClient("http://example.com", nil, authedSessions())

		if err := c.ToggleFavorite(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestDownloadPDF(t *testing.T) {
	t.Run("Streams Bytes And Resolves Relative Path", func(t *testing.T) {
		content := []byte("%PDF-1.4 test content")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/uploads/pdfs/b1.pdf" {
				t.Errorf("expected resolved PDF path, got %s", r.URL.Path)
			}
			w.Write(content)
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, nil)
		book := models.Book{ID: "b1", PDFURL: "/uploads/pdfs/b1.pdf"}

		var buf bytes.Buffer
		n, err := c.DownloadPDF(context.Background(), book, &buf)

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != int64(len(content)) {
			t.Errorf("expected %d bytes, got %d", len(content), n)
		}
		if !bytes.Equal(buf.Bytes(), content) {
			t.Error("expected downloaded bytes to match")
		}
	})

	t.Run("Book Without PDF", func(t *testing.T) {
		c := NewClient("http://example.com", nil, nil)

		var buf bytes.Buffer
		_, err := c.DownloadPDF(context.Background(), models.Book{ID: "b1"}, &buf)

		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
