package ledger

import "errors"

// ErrEmptySplit is returned when an expense has no one to split across:
// its split list is empty and the trip has no members.
var ErrEmptySplit = errors.New("expense has no participants to split across")

// Expense carries the minimal fields needed for balance computation.
type Expense struct {
	Amount    float64
	PaidBy    string
	SplitWith []string // empty means split across all trip members
}

// ComputeBalances nets every expense into a per-member balance.
// Positive means the member is owed money, negative means they owe.
//
// For each expense the split set is SplitWith when non-empty, otherwise the
// full member list. Each split member other than the payer is debited an
// equal share. The payer is credited the amount minus their own share when
// they are part of the split, or the full amount when they are not.
// The credits and debits of a single expense always sum to zero.
//
// Inputs are never mutated; every member appears in the result even with a
// zero balance.
func ComputeBalances(members []string, expenses []Expense) (map[string]float64, error) {
	balances := make(map[string]float64, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	for _, e := range expenses {
		splitWith := e.SplitWith
		if len(splitWith) == 0 {
			splitWith = members
		}
		if len(splitWith) == 0 {
			return nil, ErrEmptySplit
		}

		share := e.Amount / float64(len(splitWith))
		payerInSplit := false
		for _, m := range splitWith {
			if m == e.PaidBy {
				payerInSplit = true
				continue
			}
			balances[m] -= share
		}
		if payerInSplit {
			balances[e.PaidBy] += e.Amount - share
		} else {
			balances[e.PaidBy] += e.Amount
		}
	}

	return balances, nil
}
