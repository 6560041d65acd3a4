package expense

import (
	"github.com/fkhayef/fintrack/internal/money"
)

// DateLayout is the wire format of expense dates
const DateLayout = "2006-01-02"

// CreateExpenseRequest represents the request to create an expense.
// Participants default to every member when omitted from an equal split.
type CreateExpenseRequest struct {
	PaidByMemberID string              `json:"paid_by_member_id" validate:"required,uuid"`
	Amount         money.Cents         `json:"amount" validate:"required,gt=0"`
	Description    *string             `json:"description,omitempty"`
	Date           string              `json:"date,omitempty"`
	SplitType      string              `json:"split_type,omitempty" validate:"omitempty,oneof=equal custom percentage"`
	Participants   []*SplitParticipant `json:"participants,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID             string           `json:"id"`
	ActivityID     string           `json:"activity_id"`
	PaidByMemberID string           `json:"paid_by_member_id"`
	PaidByName     string           `json:"paid_by_name,omitempty"`
	Amount         money.Cents      `json:"amount"`
	Description    *string          `json:"description,omitempty"`
	Date           string           `json:"date"`
	SplitType      string           `json:"split_type"`
	CreatedAt      string           `json:"created_at"`
	Splits         []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID         string      `json:"id"`
	MemberID   string      `json:"member_id"`
	MemberName string      `json:"member_name,omitempty"`
	Amount     money.Cents `json:"amount"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:             e.ID,
		ActivityID:     e.ActivityID,
		PaidByMemberID: e.PaidByMemberID,
		PaidByName:     e.PaidByName,
		Amount:         e.Amount,
		Description:    e.Description,
		Date:           e.Date.Format(DateLayout),
		SplitType:      string(e.SplitType),
		CreatedAt:      e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:         s.ID,
		MemberID:   s.MemberID,
		MemberName: s.MemberName,
		Amount:     s.Amount,
	}
}

// ToResponse converts an expense and its splits into one response
func (e *ExpenseWithSplits) ToResponse() *ExpenseResponse {
	resp := e.Expense.ToResponse()
	resp.Splits = make([]*SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		resp.Splits[i] = s.ToResponse()
	}
	return resp
}
