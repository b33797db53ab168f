package calculator

import (
	"sort"

	"github.com/mmynk/splitledger/pkg/money"
)

// Transfer is one suggested payment: From pays To the given amount.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     money.Cents
}

type party struct {
	userID string
	amount money.Cents // always positive
}

// Settle computes a transfer plan that zeroes the balance map.
//
// Greedy matching: repeatedly pair the creditor with the largest remaining
// credit against the debtor with the largest remaining debt (ties broken by
// ascending user id) and transfer min(credit, debt). Every step fully
// settles at least one side, so the plan has at most len(balances)-1
// transfers, contains no zero amounts, and its total equals the sum of all
// positive balances. Not guaranteed globally transaction-minimal, but
// deterministic and good enough for a who-owes-whom list.
func Settle(balances map[string]money.Cents) []Transfer {
	var creditors, debtors []party
	for id, b := range balances {
		switch {
		case b > 0:
			creditors = append(creditors, party{userID: id, amount: b})
		case b < 0:
			debtors = append(debtors, party{userID: id, amount: -b})
		}
	}

	var transfers []Transfer
	for len(creditors) > 0 && len(debtors) > 0 {
		ci := largest(creditors)
		di := largest(debtors)

		amount := creditors[ci].amount
		if debtors[di].amount < amount {
			amount = debtors[di].amount
		}

		transfers = append(transfers, Transfer{
			FromUserID: debtors[di].userID,
			ToUserID:   creditors[ci].userID,
			Amount:     amount,
		})

		creditors[ci].amount -= amount
		debtors[di].amount -= amount
		if creditors[ci].amount == 0 {
			creditors = append(creditors[:ci], creditors[ci+1:]...)
		}
		if debtors[di].amount == 0 {
			debtors = append(debtors[:di], debtors[di+1:]...)
		}
	}

	// Stable output order for callers that compare plans.
	sort.SliceStable(transfers, func(i, j int) bool {
		if transfers[i].Amount != transfers[j].Amount {
			return transfers[i].Amount > transfers[j].Amount
		}
		if transfers[i].FromUserID != transfers[j].FromUserID {
			return transfers[i].FromUserID < transfers[j].FromUserID
		}
		return transfers[i].ToUserID < transfers[j].ToUserID
	})
	return transfers
}

// largest returns the index of the party with the biggest remaining amount,
// preferring the lowest user id on ties.
func largest(parties []party) int {
	best := 0
	for i := 1; i < len(parties); i++ {
		if parties[i].amount > parties[best].amount ||
			(parties[i].amount == parties[best].amount && parties[i].userID < parties[best].userID) {
			best = i
		}
	}
	return best
}
