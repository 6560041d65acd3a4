package settlement

import "github.com/fkhayef/fintrack/internal/money"

// BalanceResponse is one member's position in the activity
type BalanceResponse struct {
	MemberID   string      `json:"member_id"`
	MemberName string      `json:"member_name"`
	Paid       money.Cents `json:"paid"`
	Owed       money.Cents `json:"owed"`
	Net        money.Cents `json:"net"`
}

// TransferResponse is a payment that settles part of the activity
type TransferResponse struct {
	FromMemberID string      `json:"from_member_id"`
	FromName     string      `json:"from_name"`
	ToMemberID   string      `json:"to_member_id"`
	ToName       string      `json:"to_name"`
	Amount       money.Cents `json:"amount"`
	CurrencyCode string      `json:"currency_code"`
	Message      string      `json:"message"`
}

// SettlementResponse is the settle-up view of an activity
type SettlementResponse struct {
	ActivityID   string              `json:"activity_id"`
	CurrencyCode string              `json:"currency_code"`
	TotalSpent   money.Cents         `json:"total_spent"`
	Balances     []*BalanceResponse  `json:"balances"`
	Transfers    []*TransferResponse `json:"transfers"`
	SettledUp    bool                `json:"settled_up"`
}
