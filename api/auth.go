package api

import (
	"context"
	"fmt"
	"net/http"
)

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp AuthResponse
	if err := c.send(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return AuthResponse{}, err
	}
	if resp.AccessToken == "" {
		return AuthResponse{}, fmt.Errorf("login failed: missing access_token")
	}

	c.AccessToken = resp.AccessToken
	if c.TenantID == "" {
		c.TenantID = resp.User.TenantID
	}
	return resp, nil
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
