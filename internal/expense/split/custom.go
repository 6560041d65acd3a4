package split

import "github.com/fkhayef/fintrack/internal/money"

// CustomTolerance is the largest accepted gap between the custom amounts and
// the expense total, exclusive: a difference of one cent still validates.
const CustomTolerance money.Cents = 2

// ValidateCustom reports whether amounts is an acceptable custom split of
// total: no negative amount, and a sum within CustomTolerance of total.
func ValidateCustom(total money.Cents, amounts map[string]money.Cents) bool {
	var sum money.Cents
	for _, a := range amounts {
		if a < 0 {
			return false
		}
		sum += a
	}
	return (sum - total).Abs() < CustomTolerance
}

// CustomStrategy implements the Strategy interface for explicit amounts
type CustomStrategy struct{}

// Type returns the split type identifier
func (s *CustomStrategy) Type() SplitType {
	return SplitTypeCustom
}

// Validate checks if the inputs are valid for a custom split
func (s *CustomStrategy) Validate(total money.Cents, participants []SplitInput) error {
	if err := validateParticipants(total, participants); err != nil {
		return err
	}

	amounts := make(map[string]money.Cents, len(participants))
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingCustomAmount
		}
		if *p.Amount < 0 {
			return ErrNegativeAmount
		}
		amounts[p.MemberID] = *p.Amount
	}

	if !ValidateCustom(total, amounts) {
		return ErrCustomSumMismatch
	}
	return nil
}

// Allocate returns the amounts exactly as supplied
func (s *CustomStrategy) Allocate(total money.Cents, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	outputs := make([]SplitOutput, len(participants))
	for i, p := range participants {
		outputs[i] = SplitOutput{MemberID: p.MemberID, Amount: *p.Amount}
	}
	return outputs, nil
}
