package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidUsername is returned when a username is empty or whitespace-only.
var ErrInvalidUsername = errors.New("username is required")

// MaxUsernameLength bounds the stored username.
const MaxUsernameLength = 255

// Service implements the user directory: a username maps to exactly one User.
type Service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LoginOrCreate returns the User with the given username, creating it on
// first sight. No credential is checked. Surrounding whitespace is trimmed
// before lookup, so " alice" and "alice" are the same identity.
func (s *Service) LoginOrCreate(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if len(username) > MaxUsernameLength {
		return nil, fmt.Errorf("%w: at most %d characters", ErrInvalidUsername, MaxUsernameLength)
	}

	u, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	u = &User{Username: username}
	if err := s.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, ErrDuplicateUsername) {
			return nil, fmt.Errorf("creating user: %w", err)
		}
		// Lost a race with a concurrent login for the same name.
		existing, getErr := s.repo.GetByUsername(ctx, username)
		if getErr != nil {
			return nil, fmt.Errorf("looking up user after conflict: %w", getErr)
		}
		return existing, nil
	}

	slog.Info("user created", "userId", u.ID, "username", u.Username)
	return u, nil
}

// Get returns the User with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every known user in creation order.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
