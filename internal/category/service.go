package category

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Common errors
var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrNotAuthorized         = errors.New("not authorized to access this category")
	ErrNameRequired          = errors.New("name is required")
	ErrInvalidClassification = errors.New("classification must be fixed, variable or essential")
	ErrDuplicateName         = errors.New("a category with this name already exists")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, ownerID, name string, classification *Classification) (*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Category, error)
	Update(ctx context.Context, id string, name *string, setClassification bool, classification *Classification) (*Category, error)
	Delete(ctx context.Context, id string) (bool, error)
	SeedDefaults(ctx context.Context, ownerID string, defaults []Default) (int, error)
}

// Service handles category business logic
type Service struct {
	repo Store
}

// NewService creates a new category service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create creates a new category
func (s *Service) Create(ctx context.Context, ownerID string, req *CreateCategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	classification, err := parseClassification(req.Classification)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, ownerID, name, classification)
}

// GetOwned retrieves a category and checks that userID owns it
func (s *Service) GetOwned(ctx context.Context, userID, id string) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	if c.OwnerID != userID {
		return nil, ErrNotAuthorized
	}
	return c, nil
}

// List retrieves the user's categories ordered by name
func (s *Service) List(ctx context.Context, userID string) ([]*Category, error) {
	return s.repo.ListByOwnerID(ctx, userID)
}

// Update renames or reclassifies a category
func (s *Service) Update(ctx context.Context, userID, id string, req *UpdateCategoryRequest) (*Category, error) {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, ErrNameRequired
		}
		name = &trimmed
	}
	classification, err := parseClassification(req.Classification)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Update(ctx, id, name, req.Classification != nil, classification)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// Delete removes a category
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}

// SeedDefaults adds the default categories the user is missing and returns
// the full list
func (s *Service) SeedDefaults(ctx context.Context, userID string) ([]*Category, error) {
	added, err := s.repo.SeedDefaults(ctx, userID, Defaults)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "default categories seeded", "owner_id", userID, "added", added)
	return s.repo.ListByOwnerID(ctx, userID)
}
