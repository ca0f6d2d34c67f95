package service

import (
	"context"
	"log/slog"
	"strings"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService implements registration, login and bearer-token resolution.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// NewAuthService creates an AuthService backed by the given repositories.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo}
}

// Register creates a new user with a hashed password and issues its token.
// Duplicate usernames and emails are rejected with a CONFLICT error.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Token, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, nil, models.NewValidationError("Username, email, and password are required")
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, models.NewConflictError("Username already taken")
	}

	existing, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, models.NewConflictError("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	token := &models.Token{
		Key:    newTokenKey(),
		UserID: user.ID,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// Login verifies credentials and returns the user's existing token.
// Registration guarantees a token exists; if the row is somehow missing the
// token is re-issued rather than failing the login, with a warning logged.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *models.Token, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, models.NewUnauthorizedError("Invalid credentials")
	}

	token, err := s.tokenRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	if token == nil {
		middleware.Logger.Warn("token missing for user at login, re-issuing",
			slog.Uint64("user_id", uint64(user.ID)))
		token = &models.Token{Key: newTokenKey(), UserID: user.ID}
		if err := s.tokenRepo.Create(ctx, token); err != nil {
			return nil, nil, err
		}
	}

	return user, token, nil
}

// ResolveToken maps a bearer token to its user. An unknown token yields
// (nil, nil); callers decide how to report the missing identity.
func (s *AuthService) ResolveToken(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, nil
	}
	token, err := s.tokenRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	return s.userRepo.GetByID(ctx, token.UserID)
}

// newTokenKey generates an opaque 32-character token key.
func newTokenKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
