package currency

import (
	"context"
	"strings"
)

// Store is the persistence the service needs
type Store interface {
	List(ctx context.Context) ([]*Currency, error)
	GetByCode(ctx context.Context, code string) (*Currency, error)
}

// Service exposes the currency catalog
type Service struct {
	repo Store
}

// NewService creates a new currency service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// List returns the catalog ordered by code
func (s *Service) List(ctx context.Context) ([]*Currency, error) {
	return s.repo.List(ctx)
}

// Supported reports whether code is in the catalog
func (s *Service) Supported(ctx context.Context, code string) (bool, error) {
	c, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return false, err
	}
	return c != nil, nil
}
