package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fkhayef/fintrack/internal/activity"
	"github.com/fkhayef/fintrack/internal/expense/split"
	"github.com/fkhayef/fintrack/internal/money"
)

// Common errors
var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidDate          = errors.New("date must be formatted as YYYY-MM-DD")
	ErrPayerNotMember       = errors.New("payer is not a member of this activity")
	ErrParticipantNotMember = errors.New("participant is not a member of this activity")
	ErrNoMembers            = errors.New("activity has no members to split between")
)

// ActivityAccess resolves activities and their members
type ActivityAccess interface {
	GetOwned(ctx context.Context, userID, activityID string) (*activity.Activity, error)
	ListMembers(ctx context.Context, activityID string) ([]*activity.Member, error)
}

// Store is the persistence the service needs
type Store interface {
	CreateWithSplits(ctx context.Context, e *Expense, outputs []split.SplitOutput) (*ExpenseWithSplits, error)
	GetByID(ctx context.Context, activityID, id string) (*Expense, error)
	GetSplitsByExpenseID(ctx context.Context, expenseID string) ([]*Split, error)
	ListByActivityID(ctx context.Context, activityID string) ([]*Expense, error)
	Delete(ctx context.Context, activityID, id string) (bool, error)
}

// Service handles expense business logic
type Service struct {
	repo         Store
	activities   ActivityAccess
	splitFactory *split.Factory
	now          func() time.Time
}

// NewService creates a new expense service with dependencies injected
func NewService(repo Store, activities ActivityAccess, splitFactory *split.Factory) *Service {
	return &Service{
		repo:         repo,
		activities:   activities,
		splitFactory: splitFactory,
		now:          time.Now,
	}
}

func (s *Service) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		y, m, d := s.now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// CreateExpense records an expense and its splits computed with the requested strategy
func (s *Service) CreateExpense(ctx context.Context, userID, activityID string, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.activities.GetOwned(ctx, userID, activityID); err != nil {
		return nil, err
	}
	members, err := s.activities.ListMembers(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	isMember := make(map[string]bool, len(members))
	for _, m := range members {
		isMember[m.ID] = true
	}
	if !isMember[req.PaidByMemberID] {
		return nil, ErrPayerNotMember
	}

	splitType := split.SplitType(strings.ToLower(strings.TrimSpace(req.SplitType)))
	if splitType == "" {
		splitType = split.SplitTypeEqual
	}

	strategy, err := s.splitFactory.Create(splitType)
	if err != nil {
		return nil, err
	}

	inputs := make([]split.SplitInput, 0, len(members))
	if len(req.Participants) == 0 && splitType == split.SplitTypeEqual {
		for _, m := range members {
			inputs = append(inputs, split.SplitInput{MemberID: m.ID})
		}
	}
	for _, p := range req.Participants {
		if !isMember[p.MemberID] {
			return nil, fmt.Errorf("%w: %s", ErrParticipantNotMember, p.MemberID)
		}
		inputs = append(inputs, p.ToSplitInput())
	}

	outputs, err := strategy.Allocate(req.Amount, inputs)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateWithSplits(ctx, &Expense{
		ActivityID:     activityID,
		PaidByMemberID: req.PaidByMemberID,
		Amount:         req.Amount,
		Description:    req.Description,
		Date:           date,
		SplitType:      strategy.Type(),
	}, outputs)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}
	created.Expense.PaidByName = names[created.Expense.PaidByMemberID]
	for _, sp := range created.Splits {
		sp.MemberName = names[sp.MemberID]
	}

	slog.InfoContext(ctx, "expense created",
		"activity_id", activityID,
		"expense_id", created.Expense.ID,
		"amount", req.Amount.String(),
		"split_type", strategy.Type(),
		"participants", len(outputs),
	)
	return created, nil
}

// GetExpense retrieves an expense with its splits
func (s *Service) GetExpense(ctx context.Context, userID, activityID, id string) (*ExpenseWithSplits, error) {
	if _, err := s.activities.GetOwned(ctx, userID, activityID); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, activityID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: e, Splits: splits}, nil
}

// ListExpenses retrieves every expense of an activity, newest first
func (s *Service) ListExpenses(ctx context.Context, userID, activityID string) ([]*Expense, money.Cents, error) {
	if _, err := s.activities.GetOwned(ctx, userID, activityID); err != nil {
		return nil, 0, err
	}

	expenses, err := s.repo.ListByActivityID(ctx, activityID)
	if err != nil {
		return nil, 0, err
	}

	var total money.Cents
	for _, e := range expenses {
		total += e.Amount
	}
	return expenses, total, nil
}

// DeleteExpense removes an expense and its splits
func (s *Service) DeleteExpense(ctx context.Context, userID, activityID, id string) error {
	if _, err := s.activities.GetOwned(ctx, userID, activityID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, activityID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}

	slog.InfoContext(ctx, "expense deleted", "activity_id", activityID, "expense_id", id)
	return nil
}
