package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/fintrack/internal/money"
)

// Type is the kind of money movement
type Type string

const (
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
	TypeTransfer Type = "transfer"
)

// Valid reports whether t is a known transaction type
func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Transaction is money entering, leaving or moving between the owner's accounts.
// ExchangeRate converts the source amount into the destination account's
// currency and is only set on transfers between currencies.
type Transaction struct {
	ID           string
	OwnerID      string
	Type         Type
	AccountID    string
	ToAccountID  *string
	CategoryID   *string
	Amount       money.Cents
	ExchangeRate *decimal.Decimal
	Description  *string
	Date         time.Time
	CreatedAt    time.Time
}

// Filter narrows a transaction listing. Zero values mean no restriction.
type Filter struct {
	AccountIDs []string
	Type       Type
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// BalanceChange is an amount added to one account's balance
type BalanceChange struct {
	AccountID string
	Delta     money.Cents
}

// BalanceChanges returns how t moves account balances: income credits the
// account, expense debits it, and a transfer debits the source and credits
// the destination with the amount converted at the exchange rate.
func (t *Transaction) BalanceChanges() []BalanceChange {
	switch t.Type {
	case TypeIncome:
		return []BalanceChange{{AccountID: t.AccountID, Delta: t.Amount}}
	case TypeExpense:
		return []BalanceChange{{AccountID: t.AccountID, Delta: -t.Amount}}
	case TypeTransfer:
		if t.ToAccountID == nil {
			return nil
		}
		credited := t.Amount
		if t.ExchangeRate != nil {
			credited = money.FromDecimal(t.Amount.Decimal().Mul(*t.ExchangeRate))
		}
		return []BalanceChange{
			{AccountID: t.AccountID, Delta: -t.Amount},
			{AccountID: *t.ToAccountID, Delta: credited},
		}
	}
	return nil
}

// Reverse undoes a set of balance changes
func Reverse(changes []BalanceChange) []BalanceChange {
	out := make([]BalanceChange, len(changes))
	for i, c := range changes {
		out[i] = BalanceChange{AccountID: c.AccountID, Delta: -c.Delta}
	}
	return out
}

// AccountTotals is the income and expense recorded against one account
type AccountTotals struct {
	AccountID string
	Income    money.Cents
	Expense   money.Cents
}
