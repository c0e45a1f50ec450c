// Package services contains the backend business logic: accounts with
// password verifiers and JWT access tokens, and per-user notes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/dmitrijs2005/mobilecore/internal/cryptox"
	"github.com/dmitrijs2005/mobilecore/internal/server/auth"
	"github.com/dmitrijs2005/mobilecore/internal/server/config"
	"github.com/dmitrijs2005/mobilecore/internal/server/models"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AuthResult is what a successful register or login hands back.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService provides authentication-related operations:
// - Register: create users and log them in
// - Login: verify credentials and mint an access token
// - Get / Authenticate: resolve users and tokens
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration

	// dummy verifier checked for unknown emails so both paths cost the same
	dummySalt, dummyVerifier []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	dummy, _ := common.MakeRandHexString(16)
	salt, verifier := cryptox.NewPasswordVerifier(dummy)
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		dummySalt:                   salt,
		dummyVerifier:               verifier,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a fresh salt and password verifier and
// returns it together with an access token. A taken email yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	salt, verifier := cryptox.NewPasswordVerifier(password)
	user := &models.User{
		ID:       uuid.NewString(),
		Email:    normalizeEmail(email),
		Name:     strings.TrimSpace(name),
		Salt:     salt,
		Verifier: verifier,
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(u)
}

// Login checks password against the stored verifier. Unknown users and
// wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword(password, s.dummySalt, s.dummyVerifier)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !cryptox.CheckPassword(password, user.Salt, user.Verifier) {
		return nil, common.ErrorUnauthorized
	}
	return s.issue(user)
}

// Get returns the user with id, or common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// Authenticate validates an access token and returns its claims.
func (s *UserService) Authenticate(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

func (s *UserService) issue(u *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(u.ID, u.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: token, User: u}, nil
}
