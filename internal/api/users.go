package api

import (
	"context"
	"net/http"

	"plantshop/internal/models"
)

type registerResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

// Register creates a new account. The returned user never carries the
// password.
func (c *Client) Register(ctx context.Context, user models.User) (*models.User, error) {
	var resp registerResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", user, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// Login authenticates and returns the bearer token plus profile.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var resp loginResponse
	body := loginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &LoginResult{Token: resp.Token, User: resp.User}, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile replaces mutable profile fields and returns the result.
func (c *Client) UpdateProfile(ctx context.Context, user models.User) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, http.MethodPut, "/api/v1/users/profile", user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SaveAddress persists a shipping address to the user's profile.
func (c *Client) SaveAddress(ctx context.Context, addr models.ShippingAddress) error {
	return c.do(ctx, http.MethodPut, "/api/v1/users/profile/address", addr, nil)
}
