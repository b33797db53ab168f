package models

import "github.com/mmynk/splitledger/pkg/money"

// SplitType selects how an expense's amount is distributed among the
// participating members.
type SplitType string

const (
	// SplitEqual divides the amount evenly, with leftover cents going to
	// the first participants in ascending user-id order.
	SplitEqual SplitType = "equal"

	// SplitPercentage divides the amount by explicit per-user percentages
	// that must sum to 100 (within ±0.01).
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	return t == SplitEqual || t == SplitPercentage
}

// Expense is a single recorded cost within a group. Expenses are immutable
// once created; the ledger is append-only.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Dinner").
	Description string

	// Amount is the full expense amount in cents, always positive.
	Amount money.Cents

	// PaidByID is the user who paid; must be a group member.
	PaidByID string

	// SplitType records the rule used to resolve Shares.
	SplitType SplitType

	// Shares are the resolved per-participant amounts. They always sum
	// exactly to Amount.
	Shares []ExpenseShare

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseShare is one participant's resolved portion of an expense.
type ExpenseShare struct {
	// UserID identifies the participating member.
	UserID string

	// ShareAmount is this member's portion in cents.
	ShareAmount money.Cents

	// Percentage is the declared percentage for percentage splits,
	// nil for equal splits.
	Percentage *float64
}
