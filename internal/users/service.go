// Package users handles account registration and credential checks.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gameboxd/internal/logging"
	"gameboxd/internal/store"
)

var (
	// ErrInvalidUsername marks a username shorter than three characters
	// after trimming.
	ErrInvalidUsername = errors.New("username must be at least 3 characters")
	// ErrInvalidPassword marks a password shorter than six characters.
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
	// ErrUsernameTaken marks a registration against an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password, indistinguishably.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// Service registers accounts and authenticates credentials.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService wires a user service over the given store.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:  st,
		logger: logging.NewComponentLogger(logger, "users"),
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*store.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLength {
		return nil, ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, username, string(hash))
	if err != nil {
		if store.IsConstraintViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", logging.String("username", username))
	return user, nil
}

// Authenticate checks a username/password pair against the stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*store.User, error) {
	user, err := s.store.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
