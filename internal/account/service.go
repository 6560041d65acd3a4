package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fkhayef/fintrack/internal/money"
)

// Common errors
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrNotAuthorized       = errors.New("not authorized to access this account")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidCurrency     = errors.New("currency code must be 3 to 5 letters")
	ErrUnsupportedCurrency = errors.New("currency is not supported")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, ownerID string, req *CreateAccountRequest) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Account, error)
	Update(ctx context.Context, id string, req *UpdateAccountRequest) (*Account, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CurrencyChecker tells whether a currency code is in the catalog
type CurrencyChecker interface {
	Supported(ctx context.Context, code string) (bool, error)
}

// Service handles account business logic
type Service struct {
	repo       Store
	currencies CurrencyChecker
}

// NewService creates a new account service with repository dependency injected
func NewService(repo Store, currencies CurrencyChecker) *Service {
	return &Service{repo: repo, currencies: currencies}
}

// Create creates a new account owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID string, req *CreateAccountRequest) (*Account, error) {
	req.Normalize()
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if err := s.checkCurrency(ctx, req.CurrencyCode); err != nil {
		return nil, err
	}

	a, err := s.repo.Create(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "account created", "account_id", a.ID, "currency", a.CurrencyCode)
	return a, nil
}

// GetOwned retrieves an account and checks that userID owns it
func (s *Service) GetOwned(ctx context.Context, userID, id string) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	if a.OwnerID != userID {
		return nil, ErrNotAuthorized
	}
	return a, nil
}

// List retrieves all of the user's accounts
func (s *Service) List(ctx context.Context, userID string) ([]*Account, error) {
	return s.repo.ListByOwnerID(ctx, userID)
}

// Update modifies an existing account
func (s *Service) Update(ctx context.Context, userID, id string, req *UpdateAccountRequest) (*Account, error) {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		req.Name = &name
	}
	if req.CurrencyCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.CurrencyCode))
		if err := s.checkCurrency(ctx, code); err != nil {
			return nil, err
		}
		req.CurrencyCode = &code
	}

	a, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

// Delete removes an account
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAccountNotFound
	}

	slog.InfoContext(ctx, "account deleted", "account_id", id)
	return nil
}

func (s *Service) checkCurrency(ctx context.Context, code string) error {
	if !money.ValidCurrencyCode(code) {
		return ErrInvalidCurrency
	}
	ok, err := s.currencies.Supported(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnsupportedCurrency
	}
	return nil
}
