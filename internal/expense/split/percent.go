package split

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/fintrack/internal/money"
)

var (
	hundred             = decimal.NewFromInt(100)
	percentageTolerance = decimal.RequireFromString("0.01")
)

// PercentageStrategy divides an expense by each participant's percentage
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() SplitType {
	return SplitTypePercentage
}

// Validate checks if the inputs are valid for a percentage split
func (s *PercentageStrategy) Validate(total money.Cents, participants []SplitInput) error {
	if err := validateParticipants(total, participants); err != nil {
		return err
	}

	totalPercentage := decimal.Zero
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
			return ErrPercentageOutOfRange
		}
		totalPercentage = totalPercentage.Add(*p.Percentage)
	}

	if totalPercentage.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		return ErrInvalidPercentages
	}
	return nil
}

// Allocate truncates every share to whole cents and hands the leftover cents
// to the first participant, the same way equal splits do.
func (s *PercentageStrategy) Allocate(total money.Cents, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	totalDec := decimal.NewFromInt(int64(total))
	outputs := make([]SplitOutput, len(participants))
	var distributed money.Cents
	for i, p := range participants {
		share := money.Cents(totalDec.Mul(*p.Percentage).Div(hundred).Floor().IntPart())
		outputs[i] = SplitOutput{MemberID: p.MemberID, Amount: share}
		distributed += share
	}

	// Percentages within tolerance of 100 can overshoot; walk forward so no
	// share goes negative and the total still matches.
	diff := total - distributed
	for i := range outputs {
		if diff == 0 {
			break
		}
		adjust := diff
		if outputs[i].Amount+adjust < 0 {
			adjust = -outputs[i].Amount
		}
		outputs[i].Amount += adjust
		diff -= adjust
	}
	return outputs, nil
}
