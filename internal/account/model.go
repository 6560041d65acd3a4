package account

import (
	"time"

	"github.com/fkhayef/fintrack/internal/money"
)

// DefaultCurrency is used when an account is created without one
const DefaultCurrency = "ARS"

// Account is a place money is kept: a bank account, a wallet, cash
type Account struct {
	ID           string      `json:"id"`
	OwnerID      string      `json:"owner_id"`
	Name         string      `json:"name"`
	CurrencyCode string      `json:"currency_code"`
	Balance      money.Cents `json:"balance"`
	CreatedAt    time.Time   `json:"created_at"`
}
