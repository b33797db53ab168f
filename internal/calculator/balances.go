package calculator

import (
	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/money"
)

// GroupBalances computes each member's net balance from the group's
// expenses. For every expense the payer gains the full amount and each
// participant loses their resolved share; a payer who also participates
// nets the difference.
//
// The function is pure: the same ledger state always yields the same map.
// It returns a ConsistencyError if the balances do not sum to zero, which
// can only happen if stored shares fail to reconcile with their expense
// amounts (a bug, never a caller fault).
func GroupBalances(group *models.Group, expenses []*models.Expense) (map[string]money.Cents, error) {
	balances := make(map[string]money.Cents, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		balances[id] = 0
	}

	for _, e := range expenses {
		balances[e.PaidByID] += e.Amount
		for _, share := range e.Shares {
			balances[share.UserID] -= share.ShareAmount
		}
	}

	var sum money.Cents
	for _, b := range balances {
		sum += b
	}
	if sum != 0 {
		return nil, errs.Consistencyf("group %s balances sum to %s, want 0.00", group.ID, sum)
	}

	return balances, nil
}
