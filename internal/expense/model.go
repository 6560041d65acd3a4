package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/fintrack/internal/expense/split"
	"github.com/fkhayef/fintrack/internal/money"
)

// Expense is money one member paid on behalf of the activity
type Expense struct {
	ID             string          `json:"id"`
	ActivityID     string          `json:"activity_id"`
	PaidByMemberID string          `json:"paid_by_member_id"`
	Amount         money.Cents     `json:"amount"`
	Description    *string         `json:"description,omitempty"`
	Date           time.Time       `json:"date"`
	SplitType      split.SplitType `json:"split_type"`
	CreatedAt      time.Time       `json:"created_at"`

	// Populated via JOIN
	PaidByName string `json:"paid_by_name,omitempty"`
}

// Split is the share of an expense one member owes
type Split struct {
	ID        string      `json:"id"`
	ExpenseID string      `json:"expense_id"`
	MemberID  string      `json:"member_id"`
	Amount    money.Cents `json:"amount"`

	// Populated via JOIN
	MemberName string `json:"member_name,omitempty"`
}

// ExpenseWithSplits combines an expense with its splits
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}

// SplitParticipant is used when creating an expense with splits
type SplitParticipant struct {
	MemberID   string           `json:"member_id"`
	Amount     *money.Cents     `json:"amount,omitempty"`     // For custom split
	Percentage *decimal.Decimal `json:"percentage,omitempty"` // For percentage split
}

// ToSplitInput converts to the split package's input type
func (p *SplitParticipant) ToSplitInput() split.SplitInput {
	return split.SplitInput{
		MemberID:   p.MemberID,
		Amount:     p.Amount,
		Percentage: p.Percentage,
	}
}
