package report

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/fintrack/internal/account"
	"github.com/fkhayef/fintrack/internal/category"
	"github.com/fkhayef/fintrack/internal/exchangerate"
	"github.com/fkhayef/fintrack/internal/money"
	"github.com/fkhayef/fintrack/internal/transaction"
)

// AccountLister lists a user's accounts
type AccountLister interface {
	List(ctx context.Context, userID string) ([]*account.Account, error)
}

// TransactionAggregator sums a user's transactions
type TransactionAggregator interface {
	Totals(ctx context.Context, ownerID string, f transaction.Filter) ([]transaction.AccountTotals, error)
	ExpensesByClassification(ctx context.Context, ownerID string, f transaction.Filter) (map[string]money.Cents, error)
}

// RateProvider supplies the USD/ARS rate
type RateProvider interface {
	USDARS(ctx context.Context) (*exchangerate.Rate, bool, error)
}

// Service builds financial reports
type Service struct {
	accounts     AccountLister
	transactions TransactionAggregator
	rates        RateProvider
}

// NewService creates a new report service
func NewService(accounts AccountLister, transactions TransactionAggregator, rates RateProvider) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		rates:        rates,
	}
}

// Params selects the period and accounts a summary covers
type Params struct {
	DateFrom  string
	DateTo    string
	AccountID []string
}

// Summary reports income and expenses per account over a period, expenses
// by classification, and current balances per currency and in USD
func (s *Service) Summary(ctx context.Context, userID string, p Params) (*Summary, error) {
	f, err := transaction.ParseFilter(transaction.ListParams{
		AccountIDs: p.AccountID,
		DateFrom:   p.DateFrom,
		DateTo:     p.DateTo,
	})
	if err != nil {
		return nil, err
	}

	var (
		accounts []*account.Account
		totals   []transaction.AccountTotals
		groups   map[string]money.Cents
		rate     *exchangerate.Rate
		stale    bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.List(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.transactions.Totals(gctx, userID, f)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.transactions.ExpensesByClassification(gctx, userID, f)
		return err
	})
	g.Go(func() error {
		var err error
		rate, stale, err = s.rates.USDARS(gctx)
		if err != nil {
			// peso balances are reported as unconverted
			slog.WarnContext(gctx, "report without exchange rate", "error", err)
			rate = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{
		Accounts:           []*AccountSummary{},
		BalancesByCurrency: []*CurrencyTotal{},
		Unconverted:        []string{},
		RateStale:          stale,
		ExpensesByClassification: ClassificationTotals{
			Fixed:         groups[string(category.ClassificationFixed)],
			Variable:      groups[string(category.ClassificationVariable)],
			Essential:     groups[string(category.ClassificationEssential)],
			Uncategorized: groups[""],
		},
	}
	if f.DateFrom != nil {
		from := f.DateFrom.Format(transaction.DateLayout)
		summary.DateFrom = &from
	}
	if f.DateTo != nil {
		to := f.DateTo.Format(transaction.DateLayout)
		summary.DateTo = &to
	}

	var arsPerUSD *decimal.Decimal
	if rate != nil {
		r := rate.ARSPerUSD.String()
		summary.ARSPerUSD = &r
		arsPerUSD = &rate.ARSPerUSD
	}

	byAccount := make(map[string]transaction.AccountTotals, len(totals))
	for _, t := range totals {
		byAccount[t.AccountID] = t
	}

	selected := make(map[string]bool, len(f.AccountIDs))
	for _, id := range f.AccountIDs {
		selected[id] = true
	}

	byCurrency := map[string]money.Cents{}
	for _, a := range accounts {
		if len(selected) > 0 && !selected[a.ID] {
			continue
		}
		t := byAccount[a.ID]
		summary.Accounts = append(summary.Accounts, &AccountSummary{
			AccountID:    a.ID,
			Name:         a.Name,
			CurrencyCode: a.CurrencyCode,
			Income:       t.Income,
			Expense:      t.Expense,
			Balance:      a.Balance,
		})
		byCurrency[a.CurrencyCode] += a.Balance
	}

	currencies := make([]string, 0, len(byCurrency))
	for c := range byCurrency {
		currencies = append(currencies, c)
	}
	slices.Sort(currencies)

	for _, c := range currencies {
		summary.BalancesByCurrency = append(summary.BalancesByCurrency, &CurrencyTotal{CurrencyCode: c, Balance: byCurrency[c]})
		usd, ok := exchangerate.ConvertToUSD(byCurrency[c], c, arsPerUSD)
		if !ok {
			summary.Unconverted = append(summary.Unconverted, c)
			continue
		}
		summary.TotalBalanceUSD += usd
	}

	return summary, nil
}
