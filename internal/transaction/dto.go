package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/fintrack/internal/money"
)

// DateLayout is the wire format of transaction dates
const DateLayout = "2006-01-02"

// CreateTransactionRequest represents the request to record a transaction
type CreateTransactionRequest struct {
	Type         string           `json:"type" validate:"required,oneof=income expense transfer"`
	AccountID    string           `json:"account_id" validate:"required,uuid"`
	ToAccountID  *string          `json:"to_account_id,omitempty"`
	CategoryID   *string          `json:"category_id,omitempty"`
	Amount       money.Cents      `json:"amount" validate:"required,gt=0"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Date         string           `json:"date,omitempty"`
}

// UpdateTransactionRequest replaces a transaction. Balances are moved back
// by the old values and forward by the new ones.
type UpdateTransactionRequest = CreateTransactionRequest

// TransactionResponse represents the response for a transaction
type TransactionResponse struct {
	ID           string           `json:"id"`
	Type         Type             `json:"type"`
	AccountID    string           `json:"account_id"`
	ToAccountID  *string          `json:"to_account_id,omitempty"`
	CategoryID   *string          `json:"category_id,omitempty"`
	Amount       money.Cents      `json:"amount"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Date         string           `json:"date"`
	CreatedAt    string           `json:"created_at"`
}

// ToResponse converts a Transaction model to a TransactionResponse DTO
func (t *Transaction) ToResponse() *TransactionResponse {
	return &TransactionResponse{
		ID:           t.ID,
		Type:         t.Type,
		AccountID:    t.AccountID,
		ToAccountID:  t.ToAccountID,
		CategoryID:   t.CategoryID,
		Amount:       t.Amount,
		ExchangeRate: t.ExchangeRate,
		Description:  t.Description,
		Date:         t.Date.Format(DateLayout),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
}
