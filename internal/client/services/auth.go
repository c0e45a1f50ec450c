// Package services holds the application services the CLI drives: account
// operations on top of the session, and request submission with offline
// queueing and replay.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
)

// AuthClient is the backend surface the auth service needs.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*models.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
}

// SessionManager is implemented by *session.Manager.
type SessionManager interface {
	Login(ctx context.Context, token string, user models.User) error
	Logout(ctx context.Context)
	Current() *models.Session
}

// AuthService defines the account operations of the CLI.
//
//   - Login: validate the form, authenticate, start a session.
//   - Register: validate, create the account, start a session with the returned token.
//   - Logout: end the session (never fails).
//   - Profile: fetch the current user from the backend.
//   - Ping: backend liveness.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Register(ctx context.Context, name, email, password string) (*models.Session, error)
	Logout(ctx context.Context)
	Profile(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
}

type authService struct {
	api     AuthClient
	session SessionManager
	log     logging.Logger
}

func NewAuthService(api AuthClient, s SessionManager, l logging.Logger) AuthService {
	return &authService{api: api, session: s, log: logging.OrNop(l).With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := validateForm(LoginForm{Email: email, Password: password}); err != nil {
		return nil, err
	}

	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.start(ctx, res)
}

func (a *authService) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	if err := validateForm(RegisterForm{Name: name, Email: email, Password: password}); err != nil {
		return nil, err
	}

	res, err := a.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return a.start(ctx, res)
}

func (a *authService) start(ctx context.Context, res *models.AuthResult) (*models.Session, error) {
	if res.Token == "" || res.User.ID == "" {
		return nil, fmt.Errorf("auth response missing token or user")
	}
	if err := a.session.Login(ctx, res.Token, res.User); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return a.session.Current(), nil
}

func (a *authService) Logout(ctx context.Context) {
	a.session.Logout(ctx)
}

func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	return a.api.Me(ctx)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.api.Ping(ctx)
}
