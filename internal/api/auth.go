package api

import (
	"context"
	"net/http"
	"net/url"

	"spendbook/internal/core"
)

// AuthService talks to the /auth endpoints. Login and register are the only
// calls in the client that go out without a bearer token.
type AuthService struct {
	c *Client
}

// AuthResponse is the token minted by a successful login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterResponse acknowledges a new account.
type RegisterResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token. The endpoint expects a
// form-encoded body, unlike the rest of the API.
func (s *AuthService) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out AuthResponse
	if err := s.c.doForm(ctx, "/auth/login", form, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Register creates a new account.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (RegisterResponse, error) {
	var out RegisterResponse
	err := s.c.doJSON(ctx, http.MethodPost, "/auth/register", nil, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return RegisterResponse{}, err
	}
	return out, nil
}

// CurrentUser resolves the identity behind the current token.
func (s *AuthService) CurrentUser(ctx context.Context) (core.User, error) {
	var out core.User
	if err := s.c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return core.User{}, err
	}
	return out, nil
}
