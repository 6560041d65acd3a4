package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/fintrack/internal/money"
)

// SplitType names how an expense is shared
type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypeCustom     SplitType = "custom"
	SplitTypePercentage SplitType = "percentage"
)

// SplitInput is a participant of a split. Amount is read by custom splits,
// Percentage by percentage splits.
type SplitInput struct {
	MemberID   string           `json:"member_id"`
	Amount     *money.Cents     `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// SplitOutput is one member's share of an expense
type SplitOutput struct {
	MemberID string      `json:"member_id"`
	Amount   money.Cents `json:"amount"`
}

// Strategy allocates an expense total among participants
type Strategy interface {
	// Allocate returns each participant's share, in participant order
	Allocate(total money.Cents, participants []SplitInput) ([]SplitOutput, error)

	Type() SplitType

	Validate(total money.Cents, participants []SplitInput) error
}

// Factory resolves a SplitType to its Strategy
type Factory struct{}

func NewSplitStrategyFactory() *Factory {
	return &Factory{}
}

// Create returns the strategy for splitType
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitTypeEqual:
		return &EqualStrategy{}, nil
	case SplitTypeCustom:
		return &CustomStrategy{}, nil
	case SplitTypePercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitType, splitType)
	}
}

// CreateFromString is Create for raw request values
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(SplitType(splitType))
}

var (
	ErrUnknownSplitType     = errors.New("unknown split type")
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrMissingCustomAmount  = errors.New("custom amount required for all participants")
	ErrCustomSumMismatch    = errors.New("split amounts must add up to the total")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrInvalidPercentages   = errors.New("percentages must sum to 100")
)

// validateParticipants runs the checks shared by every strategy.
func validateParticipants(total money.Cents, participants []SplitInput) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total < 0 {
		return ErrNegativeAmount
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, ok := seen[p.MemberID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.MemberID)
		}
		seen[p.MemberID] = struct{}{}
	}
	return nil
}

func memberIDs(participants []SplitInput) []string {
	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.MemberID
	}
	return ids
}
