package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salonpro-api/models"
	"salonpro-api/utils"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Session is an issued session token and the user it belongs to.
type Session struct {
	Token     string            `json:"-"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      utils.SessionUser `json:"user"`
}

// AuthService is the single authentication component: it issues and
// validates session tokens for admin users.
type AuthService struct {
	users  UserStore
	tokens *utils.TokenManager
	logger *slog.Logger
}

func NewAuthService(users UserStore, tokens *utils.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validationError("username and password are required")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Warn("failed login", "username", username)
		return nil, ErrInvalidCredentials
	}

	sessionUser := utils.SessionUser{
		ID:       user.ID.String(),
		Username: user.Username,
		Name:     user.Name,
		Role:     user.Role,
	}
	token, expiresAt, err := s.tokens.Generate(sessionUser)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &Session{Token: token, ExpiresAt: expiresAt, User: sessionUser}, nil
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

// ValidateSession satisfies utils.SessionValidator.
func (s *AuthService) ValidateSession(token string) (*utils.SessionUser, error) {
	user, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin when no user with that username
// exists yet. Existing users are never modified.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, name string) error {
	if username == "" || password == "" {
		s.logger.Debug("no bootstrap admin configured")
		return nil
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if name == "" {
		name = username
	}
	admin := &models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", "username", username)
	return nil
}
