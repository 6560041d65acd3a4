package settlement

import (
	"cmp"
	"slices"

	"github.com/fkhayef/fintrack/internal/money"
)

// Member is a participant of an activity. Only the id matters to the solver.
type Member struct {
	ID string
}

// Expense is money one member fronted for the group.
type Expense struct {
	ID      string
	PayerID string
	Amount  money.Cents
}

// Split is one member's owed share of one expense.
type Split struct {
	ExpenseID string
	MemberID  string
	Amount    money.Cents
}

// Balance is a member's position across all expenses.
// Net > 0 means the member is owed money, Net < 0 means they owe money.
type Balance struct {
	MemberID string
	Paid     money.Cents
	Owed     money.Cents
	Net      money.Cents
}

// Transfer says From should pay To the given amount.
type Transfer struct {
	From   string
	To     string
	Amount money.Cents
}

// Balances computes paid, owed and net amounts per member, in member order.
// Expenses and splits naming ids outside members are ignored, and a member
// listed twice is counted once.
func Balances(members []Member, expenses []Expense, splits []Split) []Balance {
	index := make(map[string]int, len(members))
	balances := make([]Balance, 0, len(members))
	for _, m := range members {
		if _, dup := index[m.ID]; dup {
			continue
		}
		index[m.ID] = len(balances)
		balances = append(balances, Balance{MemberID: m.ID})
	}

	for _, e := range expenses {
		if i, ok := index[e.PayerID]; ok {
			balances[i].Paid += e.Amount
		}
	}
	for _, s := range splits {
		if i, ok := index[s.MemberID]; ok {
			balances[i].Owed += s.Amount
		}
	}
	for i := range balances {
		balances[i].Net = balances[i].Paid - balances[i].Owed
	}
	return balances
}

type position struct {
	memberID  string
	remaining money.Cents
}

// Settle returns the transfers that zero out every member's balance.
//
// Creditors and debtors are each sorted largest first, with ties kept in
// member order, and matched greedily: the largest creditor is paid by the
// largest debtor until one of them is settled. The result holds at most
// creditors+debtors-1 transfers, each with a positive amount, in the order
// they were generated.
func Settle(members []Member, expenses []Expense, splits []Split) []Transfer {
	if len(members) == 0 || len(expenses) == 0 {
		return []Transfer{}
	}

	var creditors, debtors []position
	for _, b := range Balances(members, expenses, splits) {
		switch {
		case b.Net > 0:
			creditors = append(creditors, position{memberID: b.MemberID, remaining: b.Net})
		case b.Net < 0:
			debtors = append(debtors, position{memberID: b.MemberID, remaining: -b.Net})
		}
	}

	largestFirst := func(a, b position) int {
		return cmp.Compare(b.remaining, a.remaining)
	}
	slices.SortStableFunc(creditors, largestFirst)
	slices.SortStableFunc(debtors, largestFirst)

	transfers := make([]Transfer, 0, max(len(creditors)+len(debtors)-1, 0))
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor, debtor := &creditors[i], &debtors[j]

		amount := min(creditor.remaining, debtor.remaining)
		if amount <= 0 {
			break
		}

		transfers = append(transfers, Transfer{
			From:   debtor.memberID,
			To:     creditor.memberID,
			Amount: amount,
		})

		creditor.remaining -= amount
		debtor.remaining -= amount
		if creditor.remaining == 0 {
			i++
		}
		if debtor.remaining == 0 {
			j++
		}
	}

	return transfers
}
