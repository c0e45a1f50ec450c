package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/mobilecore/internal/client/models"
)

const (
	LoginPath    = "/api/auth/login"
	RegisterPath = "/api/auth/register"
	MePath       = "/api/auth/me"
	HealthPath   = "/api/health"
)

type AuthAPI struct {
	c *HTTPClient
}

func NewAuthAPI(c *HTTPClient) *AuthAPI {
	return &AuthAPI{c: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := a.c.Do(ctx, http.MethodPost, LoginPath, loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *AuthAPI) Register(ctx context.Context, name, email, password string) (*models.AuthResult, error) {
	var res models.AuthResult
	req := registerRequest{Name: name, Email: email, Password: password}
	if err := a.c.Do(ctx, http.MethodPost, RegisterPath, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the user the current token belongs to.
func (a *AuthAPI) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.c.Do(ctx, http.MethodGet, MePath, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ping succeeds when the backend answers its health endpoint.
func (a *AuthAPI) Ping(ctx context.Context) error {
	return a.c.Do(ctx, http.MethodGet, HealthPath, nil, nil)
}
