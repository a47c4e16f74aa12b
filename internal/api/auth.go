package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sciencehub/shx/internal/models"
)

// authResponse is the backend's login/registration envelope.
type authResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

// Login exchanges credentials for an identity and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, false, &resp); err != nil {
		return models.User{}, "", err
	}
	if resp.AccessToken == "" {
		return models.User{}, "", fmt.Errorf("login response missing access token")
	}

	return resp.User, resp.AccessToken, nil
}

// Register creates an account. The response has the same shape as Login so
// callers populate the session store identically.
func (c *Client) Register(ctx context.Context, fullName, email, password string) (models.User, string, error) {
	payload := map[string]string{
		"fullName": fullName,
		"email":    email,
		"password": password,
	}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", payload, false, &resp); err != nil {
		return models.User{}, "", err
	}
	if resp.AccessToken == "" {
		return models.User{}, "", fmt.Errorf("registration response missing access token")
	}

	return resp.User, resp.AccessToken, nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
