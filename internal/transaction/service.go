package transaction

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fkhayef/fintrack/internal/account"
	"github.com/fkhayef/fintrack/internal/category"
)

// Common errors
var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrNotAuthorized        = errors.New("not authorized to access this transaction")
	ErrInvalidType          = errors.New("type must be income, expense or transfer")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidDate          = errors.New("date must be formatted as YYYY-MM-DD")
	ErrToAccountRequired    = errors.New("transfers need a destination account")
	ErrToAccountNotAllowed  = errors.New("only transfers have a destination account")
	ErrSameAccount          = errors.New("cannot transfer to the same account")
	ErrExchangeRateRequired = errors.New("transfers between currencies need an exchange rate")
	ErrInvalidExchangeRate  = errors.New("exchange rate must be greater than zero")
)

// AccountReader resolves accounts owned by a user
type AccountReader interface {
	GetOwned(ctx context.Context, userID, id string) (*account.Account, error)
}

// CategoryReader resolves categories owned by a user
type CategoryReader interface {
	GetOwned(ctx context.Context, userID, id string) (*category.Category, error)
}

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, ownerID string, f Filter) ([]*Transaction, int, error)
	Update(ctx context.Context, id string, t *Transaction) (*Transaction, error)
	Delete(ctx context.Context, id string) (*Transaction, error)
}

// Service handles transaction business logic
type Service struct {
	repo       Store
	accounts   AccountReader
	categories CategoryReader
	now        func() time.Time
}

// NewService creates a new transaction service
func NewService(repo Store, accounts AccountReader, categories CategoryReader) *Service {
	return &Service{
		repo:       repo,
		accounts:   accounts,
		categories: categories,
		now:        time.Now,
	}
}

// ParseDate reads a YYYY-MM-DD date
func ParseDate(raw string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// build validates a request against the user's accounts and categories
func (s *Service) build(ctx context.Context, userID string, req *CreateTransactionRequest) (*Transaction, error) {
	t := &Transaction{
		OwnerID:     userID,
		Type:        Type(strings.ToLower(strings.TrimSpace(req.Type))),
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if !t.Type.Valid() {
		return nil, ErrInvalidType
	}
	if t.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if strings.TrimSpace(req.Date) == "" {
		y, m, d := s.now().Date()
		t.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	} else {
		date, err := ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}

	from, err := s.accounts.GetOwned(ctx, userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	if t.Type == TypeTransfer {
		if req.ToAccountID == nil || *req.ToAccountID == "" {
			return nil, ErrToAccountRequired
		}
		if *req.ToAccountID == req.AccountID {
			return nil, ErrSameAccount
		}
		to, err := s.accounts.GetOwned(ctx, userID, *req.ToAccountID)
		if err != nil {
			return nil, err
		}
		t.ToAccountID = &to.ID

		if req.ExchangeRate != nil && !req.ExchangeRate.IsPositive() {
			return nil, ErrInvalidExchangeRate
		}
		if from.CurrencyCode != to.CurrencyCode {
			if req.ExchangeRate == nil {
				return nil, ErrExchangeRateRequired
			}
			t.ExchangeRate = req.ExchangeRate
		}
	} else if req.ToAccountID != nil && *req.ToAccountID != "" {
		return nil, ErrToAccountNotAllowed
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		c, err := s.categories.GetOwned(ctx, userID, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &c.ID
	}

	return t, nil
}

// Create records a transaction and adjusts account balances
func (s *Service) Create(ctx context.Context, userID string, req *CreateTransactionRequest) (*Transaction, error) {
	t, err := s.build(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "transaction recorded",
		"transaction_id", created.ID,
		"type", created.Type,
		"amount", created.Amount.String(),
	)
	return created, nil
}

// GetOwned retrieves a transaction and checks that userID owns it
func (s *Service) GetOwned(ctx context.Context, userID, id string) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	if t.OwnerID != userID {
		return nil, ErrNotAuthorized
	}
	return t, nil
}

// ListParams is the raw query of a transaction listing
type ListParams struct {
	AccountIDs []string
	Type       string
	DateFrom   string
	DateTo     string
	Page       int
	PerPage    int
}

// ParseFilter validates listing parameters. A reversed date range is swapped.
func ParseFilter(p ListParams) (Filter, error) {
	f := Filter{AccountIDs: p.AccountIDs}

	if p.Type != "" {
		f.Type = Type(strings.ToLower(p.Type))
		if !f.Type.Valid() {
			return Filter{}, ErrInvalidType
		}
	}
	if p.DateFrom != "" {
		d, err := ParseDate(p.DateFrom)
		if err != nil {
			return Filter{}, err
		}
		f.DateFrom = &d
	}
	if p.DateTo != "" {
		d, err := ParseDate(p.DateTo)
		if err != nil {
			return Filter{}, err
		}
		f.DateTo = &d
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		f.DateFrom, f.DateTo = f.DateTo, f.DateFrom
	}

	if p.Page > 0 && p.PerPage > 0 {
		f.Limit = p.PerPage
		f.Offset = (p.Page - 1) * p.PerPage
	}
	return f, nil
}

// List retrieves the user's transactions matching the parameters
func (s *Service) List(ctx context.Context, userID string, p ListParams) ([]*Transaction, int, error) {
	f, err := ParseFilter(p)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, userID, f)
}

// Update replaces a transaction and moves balances to match
func (s *Service) Update(ctx context.Context, userID, id string, req *UpdateTransactionRequest) (*Transaction, error) {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	t, err := s.build(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, t)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "transaction updated", "transaction_id", id)
	return updated, nil
}

// Delete removes a transaction and reverts its balance changes
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return err
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "transaction deleted", "transaction_id", id)
	return nil
}
