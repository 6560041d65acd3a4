package account

import (
	"strings"
	"time"

	"github.com/fkhayef/fintrack/internal/money"
)

// CreateAccountRequest represents the request to create an account
type CreateAccountRequest struct {
	Name         string      `json:"name" validate:"required,min=1,max=100"`
	CurrencyCode string      `json:"currency_code,omitempty"`
	Balance      money.Cents `json:"balance"`
}

// Normalize trims input and fills defaults
func (r *CreateAccountRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.CurrencyCode = strings.ToUpper(strings.TrimSpace(r.CurrencyCode))
	if r.CurrencyCode == "" {
		r.CurrencyCode = DefaultCurrency
	}
}

// UpdateAccountRequest represents the request to update an account
type UpdateAccountRequest struct {
	Name         *string      `json:"name,omitempty"`
	CurrencyCode *string      `json:"currency_code,omitempty"`
	Balance      *money.Cents `json:"balance,omitempty"`
}

// AccountResponse represents the response for an account
type AccountResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	CurrencyCode string      `json:"currency_code"`
	Balance      money.Cents `json:"balance"`
	CreatedAt    string      `json:"created_at"`
}

// ToResponse converts an Account model to an AccountResponse DTO
func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:           a.ID,
		Name:         a.Name,
		CurrencyCode: a.CurrencyCode,
		Balance:      a.Balance,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}
