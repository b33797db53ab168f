package calculator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/money"
)

// percentTolerance is how far declared percentages may drift from 100.
const percentTolerance = 0.01

// SplitInput is one requested split entry: a participating user and, for
// percentage splits, their declared share.
type SplitInput struct {
	UserID     string
	Percentage *float64
}

// ResolveShares turns a split rule into exact per-participant cent amounts.
// The returned shares are ordered by ascending user id and always sum to
// amount, so the group conservation invariant holds at cent precision.
//
// Equal splits: amount/n per participant, remainder cents handed out one
// each to the first participants in ascending user-id order.
//
// Percentage splits: raw shares computed with exact decimal arithmetic,
// floored to whole cents; residual cents go to the participants with the
// largest fractional remainders (tie-break ascending user id).
func ResolveShares(amount money.Cents, splitType models.SplitType, splits []SplitInput) ([]models.ExpenseShare, error) {
	if amount <= 0 {
		return nil, errs.Validationf("amount must be positive, got %s", amount)
	}
	if len(splits) == 0 {
		return nil, errs.Validationf("at least one split participant is required")
	}

	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		if s.UserID == "" {
			return nil, errs.Validationf("split user_id must not be empty")
		}
		if seen[s.UserID] {
			return nil, errs.Validationf("duplicate split user_id %s", s.UserID)
		}
		seen[s.UserID] = true
	}

	ordered := make([]SplitInput, len(splits))
	copy(ordered, splits)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].UserID < ordered[j].UserID })

	switch splitType {
	case models.SplitEqual:
		return resolveEqual(amount, ordered), nil
	case models.SplitPercentage:
		return resolvePercentage(amount, ordered)
	default:
		return nil, errs.Validationf("unknown split type %q", splitType)
	}
}

func resolveEqual(amount money.Cents, ordered []SplitInput) []models.ExpenseShare {
	n := money.Cents(len(ordered))
	base := amount / n
	remainder := amount % n

	shares := make([]models.ExpenseShare, len(ordered))
	for i, s := range ordered {
		share := base
		if money.Cents(i) < remainder {
			share++
		}
		shares[i] = models.ExpenseShare{UserID: s.UserID, ShareAmount: share}
	}
	return shares
}

func resolvePercentage(amount money.Cents, ordered []SplitInput) ([]models.ExpenseShare, error) {
	total := 0.0
	for _, s := range ordered {
		if s.Percentage == nil {
			return nil, errs.Validationf("split for user %s is missing a percentage", s.UserID)
		}
		if *s.Percentage < 0 {
			return nil, errs.Validationf("split for user %s has negative percentage %.2f", s.UserID, *s.Percentage)
		}
		total += *s.Percentage
	}
	if math.Abs(total-100) > percentTolerance {
		return nil, errs.Validationf("percentages must sum to 100 (±%.2f), got %.2f", percentTolerance, total)
	}

	// Normalize by the actual percentage total rather than dividing by 100:
	// the tolerance admits totals like 99.99, and raw shares must still sum
	// exactly to the amount for the conservation invariant to hold.
	amt := decimal.NewFromInt(int64(amount))
	totalDec := decimal.Zero
	for _, s := range ordered {
		totalDec = totalDec.Add(decimal.NewFromFloat(*s.Percentage))
	}

	shares := make([]models.ExpenseShare, len(ordered))
	fractions := make([]decimal.Decimal, len(ordered))
	var assigned money.Cents
	for i, s := range ordered {
		raw := amt.Mul(decimal.NewFromFloat(*s.Percentage)).Div(totalDec)
		floor := raw.Floor()
		fractions[i] = raw.Sub(floor)
		pct := *s.Percentage
		shares[i] = models.ExpenseShare{
			UserID:      s.UserID,
			ShareAmount: money.Cents(floor.IntPart()),
			Percentage:  &pct,
		}
		assigned += shares[i].ShareAmount
	}

	// Residual cents go to the largest fractional remainders so the shares
	// reconcile exactly with the amount. SliceStable keeps the ascending
	// user-id order as the tie-break.
	order := make([]int, len(ordered))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fractions[order[a]].Cmp(fractions[order[b]]) > 0
	})
	for k := 0; assigned < amount; k++ {
		shares[order[k]].ShareAmount++
		assigned++
	}

	return shares, nil
}
