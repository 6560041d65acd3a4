package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/fintrack/internal/activity"
	"github.com/fkhayef/fintrack/internal/expense"
	"github.com/fkhayef/fintrack/internal/money"
)

// ActivityReader resolves activities and their members
type ActivityReader interface {
	GetOwned(ctx context.Context, userID, activityID string) (*activity.Activity, error)
	ListMembers(ctx context.Context, activityID string) ([]*activity.Member, error)
}

// ExpenseReader loads the expense history of an activity
type ExpenseReader interface {
	ListByActivityID(ctx context.Context, activityID string) ([]*expense.Expense, error)
	ListSplitsByActivityID(ctx context.Context, activityID string) ([]*expense.Split, error)
}

// Service computes settle-up plans for activities
type Service struct {
	activities ActivityReader
	expenses   ExpenseReader
}

// NewService creates a new settlement service
func NewService(activities ActivityReader, expenses ExpenseReader) *Service {
	return &Service{
		activities: activities,
		expenses:   expenses,
	}
}

// Message renders a transfer the way it is shown to people
func Message(from, to string, amount money.Cents, currency string) string {
	return fmt.Sprintf("%s should pay %s %s %s", from, to, amount, currency)
}

// GetSettlement computes balances and the transfers that settle an activity
func (s *Service) GetSettlement(ctx context.Context, userID, activityID string) (*SettlementResponse, error) {
	act, err := s.activities.GetOwned(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	var (
		members  []*activity.Member
		expenses []*expense.Expense
		splits   []*expense.Split
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.activities.ListMembers(gctx, activityID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenses.ListByActivityID(gctx, activityID)
		return err
	})
	g.Go(func() error {
		var err error
		splits, err = s.expenses.ListSplitsByActivityID(gctx, activityID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(members))
	solverMembers := make([]Member, len(members))
	for i, m := range members {
		names[m.ID] = m.Name
		solverMembers[i] = Member{ID: m.ID}
	}

	var total money.Cents
	solverExpenses := make([]Expense, len(expenses))
	for i, e := range expenses {
		total += e.Amount
		solverExpenses[i] = Expense{ID: e.ID, PayerID: e.PaidByMemberID, Amount: e.Amount}
	}

	solverSplits := make([]Split, len(splits))
	for i, sp := range splits {
		solverSplits[i] = Split{ExpenseID: sp.ExpenseID, MemberID: sp.MemberID, Amount: sp.Amount}
	}

	resp := &SettlementResponse{
		ActivityID:   act.ID,
		CurrencyCode: act.CurrencyCode,
		TotalSpent:   total,
		Balances:     []*BalanceResponse{},
		Transfers:    []*TransferResponse{},
	}

	for _, b := range Balances(solverMembers, solverExpenses, solverSplits) {
		resp.Balances = append(resp.Balances, &BalanceResponse{
			MemberID:   b.MemberID,
			MemberName: names[b.MemberID],
			Paid:       b.Paid,
			Owed:       b.Owed,
			Net:        b.Net,
		})
	}

	for _, t := range Settle(solverMembers, solverExpenses, solverSplits) {
		resp.Transfers = append(resp.Transfers, &TransferResponse{
			FromMemberID: t.From,
			FromName:     names[t.From],
			ToMemberID:   t.To,
			ToName:       names[t.To],
			Amount:       t.Amount,
			CurrencyCode: act.CurrencyCode,
			Message:      Message(names[t.From], names[t.To], t.Amount, act.CurrencyCode),
		})
	}
	resp.SettledUp = len(resp.Transfers) == 0

	slog.DebugContext(ctx, "settlement computed",
		"activity_id", activityID,
		"members", len(members),
		"expenses", len(expenses),
		"transfers", len(resp.Transfers),
	)
	return resp, nil
}
