package report

import "github.com/fkhayef/fintrack/internal/money"

// AccountSummary is one account's activity over the period
type AccountSummary struct {
	AccountID    string      `json:"account_id"`
	Name         string      `json:"name"`
	CurrencyCode string      `json:"currency_code"`
	Income       money.Cents `json:"income"`
	Expense      money.Cents `json:"expense"`
	Balance      money.Cents `json:"balance"`
}

// ClassificationTotals splits expenses by how essential they are
type ClassificationTotals struct {
	Fixed         money.Cents `json:"fixed"`
	Variable      money.Cents `json:"variable"`
	Essential     money.Cents `json:"essential"`
	Uncategorized money.Cents `json:"uncategorized"`
}

// CurrencyTotal is the sum of balances held in one currency
type CurrencyTotal struct {
	CurrencyCode string      `json:"currency_code"`
	Balance      money.Cents `json:"balance"`
}

// Summary represents the response for GET /reports/summary
type Summary struct {
	DateFrom                 *string              `json:"date_from,omitempty"`
	DateTo                   *string              `json:"date_to,omitempty"`
	Accounts                 []*AccountSummary    `json:"accounts"`
	ExpensesByClassification ClassificationTotals `json:"expenses_by_classification"`
	BalancesByCurrency       []*CurrencyTotal     `json:"balances_by_currency"`
	TotalBalanceUSD          money.Cents          `json:"total_balance_usd"`
	Unconverted              []string             `json:"unconverted"`
	ARSPerUSD                *string              `json:"ars_per_usd,omitempty"`
	RateStale                bool                 `json:"rate_stale"`
}
