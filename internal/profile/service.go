package profile

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Common errors
var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrUsernameLength    = errors.New("username must be 2 to 32 characters")
	ErrUsernameCharacter = errors.New("username can only contain letters, numbers, underscore and hyphen")
	ErrUsernameTaken     = errors.New("username is already taken")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Store is the persistence the service needs
type Store interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	SaveUsername(ctx context.Context, userID, username string) (*Profile, error)
}

// Service handles profile business logic
type Service struct {
	repo Store
}

// NewService creates a new profile service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// ValidateUsername trims a username and checks its length and characters
func ValidateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < 2 || n > 32 {
		return "", ErrUsernameLength
	}
	if !usernamePattern.MatchString(username) {
		return "", ErrUsernameCharacter
	}
	return username, nil
}

// Get returns the caller's profile
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// SetUsername validates and stores the caller's username, creating the
// profile on first use
func (s *Service) SetUsername(ctx context.Context, userID, username string) (*Profile, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.SaveUsername(ctx, userID, username)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "username updated", "user_id", userID)
	return p, nil
}
