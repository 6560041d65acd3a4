package split

import "github.com/fkhayef/fintrack/internal/money"

// EqualShares splits total into len(memberIDs) whole-cent shares, in order.
// Every member gets floor(total/n); the first member also gets the remainder,
// so the shares always add up to total exactly. total must not be negative.
func EqualShares(total money.Cents, memberIDs []string) []SplitOutput {
	n := money.Cents(len(memberIDs))
	if n == 0 {
		return []SplitOutput{}
	}

	share := total / n
	remainder := total - share*n

	outputs := make([]SplitOutput, len(memberIDs))
	for i, id := range memberIDs {
		amount := share
		if i == 0 {
			amount += remainder
		}
		outputs[i] = SplitOutput{MemberID: id, Amount: amount}
	}
	return outputs
}

// AllocateEqual maps each member to its equal share of total.
// Member ids are expected to be distinct; an empty list yields an empty map.
func AllocateEqual(total money.Cents, memberIDs []string) map[string]money.Cents {
	shares := EqualShares(total, memberIDs)
	result := make(map[string]money.Cents, len(shares))
	for _, s := range shares {
		result[s.MemberID] = s.Amount
	}
	return result
}

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() SplitType {
	return SplitTypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total money.Cents, participants []SplitInput) error {
	return validateParticipants(total, participants)
}

// Allocate divides the total equally among all participants, payer included
func (s *EqualStrategy) Allocate(total money.Cents, participants []SplitInput) ([]SplitOutput, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}
	return EqualShares(total, memberIDs(participants)), nil
}
