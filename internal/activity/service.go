package activity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fkhayef/fintrack/internal/money"
)

// Common errors
var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrNotAuthorized       = errors.New("not authorized to access this activity")
	ErrNameRequired        = errors.New("name is required")
	ErrInvalidCurrency     = errors.New("currency code must be 3 to 5 letters")
	ErrUnsupportedCurrency = errors.New("currency is not supported")
	ErrMemberHasExpenses   = errors.New("member has expenses or splits and cannot be removed")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, ownerID string, req *CreateActivityRequest) (*Activity, error)
	GetByID(ctx context.Context, id string) (*Activity, error)
	ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*Activity, int, error)
	Update(ctx context.Context, id string, req *UpdateActivityRequest) (*Activity, error)
	Delete(ctx context.Context, id string) (bool, error)

	AddMember(ctx context.Context, activityID, name string) (*Member, error)
	ListMembers(ctx context.Context, activityID string) ([]*Member, error)
	GetMember(ctx context.Context, activityID, memberID string) (*Member, error)
	UpdateMember(ctx context.Context, activityID, memberID, name string) (*Member, error)
	MemberHasExpenses(ctx context.Context, memberID string) (bool, error)
	RemoveMember(ctx context.Context, activityID, memberID string) (bool, error)
}

// CurrencyChecker tells whether a currency code is in the catalog
type CurrencyChecker interface {
	Supported(ctx context.Context, code string) (bool, error)
}

// Service handles activity business logic
type Service struct {
	repo       Store
	currencies CurrencyChecker
}

// NewService creates a new activity service
func NewService(repo Store, currencies CurrencyChecker) *Service {
	return &Service{repo: repo, currencies: currencies}
}

// Create creates a new activity owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID string, req *CreateActivityRequest) (*Activity, error) {
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

	slog.InfoContext(ctx, "activity created", "activity_id", a.ID, "owner_id", ownerID)
	return a, nil
}

// GetOwned retrieves an activity and checks that userID owns it
func (s *Service) GetOwned(ctx context.Context, userID, id string) (*Activity, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrActivityNotFound
	}
	if a.OwnerID != userID {
		return nil, ErrNotAuthorized
	}
	return a, nil
}

// GetWithMembers retrieves an activity with all its members
func (s *Service) GetWithMembers(ctx context.Context, userID, id string) (*Activity, []*Member, error) {
	a, err := s.GetOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return a, members, nil
}

// List retrieves a page of the user's activities
func (s *Service) List(ctx context.Context, userID string, page, perPage int) ([]*Activity, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByOwnerID(ctx, userID, perPage, offset)
}

// Update modifies an existing activity
func (s *Service) Update(ctx context.Context, userID, id string, req *UpdateActivityRequest) (*Activity, error) {
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
		return nil, ErrActivityNotFound
	}
	return a, nil
}

// Delete removes an activity along with its members and expenses
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.GetOwned(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrActivityNotFound
	}

	slog.InfoContext(ctx, "activity deleted", "activity_id", id)
	return nil
}

// AddMember adds a named member to an activity
func (s *Service) AddMember(ctx context.Context, userID, activityID string, req *AddMemberRequest) (*Member, error) {
	if _, err := s.GetOwned(ctx, userID, activityID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	return s.repo.AddMember(ctx, activityID, name)
}

// GetMembers retrieves all members of an activity, oldest first
func (s *Service) GetMembers(ctx context.Context, userID, activityID string) ([]*Member, error) {
	if _, err := s.GetOwned(ctx, userID, activityID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, activityID)
}

// ListMembers returns the members of an activity without an ownership check.
// Callers must have authorized the activity already.
func (s *Service) ListMembers(ctx context.Context, activityID string) ([]*Member, error) {
	return s.repo.ListMembers(ctx, activityID)
}

// UpdateMember renames a member
func (s *Service) UpdateMember(ctx context.Context, userID, activityID, memberID string, req *UpdateMemberRequest) (*Member, error) {
	if _, err := s.GetOwned(ctx, userID, activityID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	m, err := s.repo.UpdateMember(ctx, activityID, memberID, name)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

// RemoveMember removes a member that has no expenses or splits
func (s *Service) RemoveMember(ctx context.Context, userID, activityID, memberID string) error {
	if _, err := s.GetOwned(ctx, userID, activityID); err != nil {
		return err
	}

	m, err := s.repo.GetMember(ctx, activityID, memberID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMemberNotFound
	}

	busy, err := s.repo.MemberHasExpenses(ctx, memberID)
	if err != nil {
		return err
	}
	if busy {
		return ErrMemberHasExpenses
	}

	removed, err := s.repo.RemoveMember(ctx, activityID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
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
