package calculator

import (
	"reflect"
	"testing"

	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/money"
)

func testGroup(memberIDs ...string) *models.Group {
	return &models.Group{ID: "g1", Name: "Trip", MemberIDs: memberIDs}
}

func equalExpense(t *testing.T, amount money.Cents, payer string, participants ...string) *models.Expense {
	t.Helper()
	splits := make([]SplitInput, len(participants))
	for i, p := range participants {
		splits[i] = SplitInput{UserID: p}
	}
	shares, err := ResolveShares(amount, models.SplitEqual, splits)
	if err != nil {
		t.Fatalf("ResolveShares failed: %v", err)
	}
	return &models.Expense{
		GroupID:   "g1",
		Amount:    amount,
		PaidByID:  payer,
		SplitType: models.SplitEqual,
		Shares:    shares,
	}
}

func TestGroupBalancesDinnerScenario(t *testing.T) {
	// Alice pays 30.00 for dinner, split equally three ways.
	group := testGroup("alice", "bob", "carol")
	expenses := []*models.Expense{equalExpense(t, 3000, "alice", "alice", "bob", "carol")}

	balances, err := GroupBalances(group, expenses)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}

	want := map[string]money.Cents{"alice": 2000, "bob": -1000, "carol": -1000}
	if !reflect.DeepEqual(balances, want) {
		t.Errorf("balances = %v, want %v", balances, want)
	}
}

func TestGroupBalancesZeroSum(t *testing.T) {
	group := testGroup("a", "b", "c", "d")
	expenses := []*models.Expense{
		equalExpense(t, 1000, "a", "a", "b", "c"), // odd split, remainder cent
		equalExpense(t, 777, "b", "b", "c", "d"),
		equalExpense(t, 5099, "c", "a", "b", "c", "d"),
		equalExpense(t, 1, "d", "a"),
	}

	balances, err := GroupBalances(group, expenses)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}

	var sum money.Cents
	for _, b := range balances {
		sum += b
	}
	if sum != 0 {
		t.Errorf("balances sum to %d, want 0", sum)
	}
}

func TestGroupBalancesPayerNotParticipant(t *testing.T) {
	// Payer covers an expense they take no share of.
	group := testGroup("alice", "bob")
	expenses := []*models.Expense{equalExpense(t, 1000, "alice", "bob")}

	balances, err := GroupBalances(group, expenses)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}

	if balances["alice"] != 1000 || balances["bob"] != -1000 {
		t.Errorf("balances = %v, want alice:1000 bob:-1000", balances)
	}
}

func TestGroupBalancesNoExpenses(t *testing.T) {
	group := testGroup("alice", "bob")

	balances, err := GroupBalances(group, nil)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}

	if len(balances) != 2 || balances["alice"] != 0 || balances["bob"] != 0 {
		t.Errorf("balances = %v, want all members at zero", balances)
	}
}

func TestGroupBalancesIdempotent(t *testing.T) {
	group := testGroup("a", "b", "c")
	expenses := []*models.Expense{
		equalExpense(t, 1000, "a", "a", "b", "c"),
		equalExpense(t, 2500, "b", "a", "b"),
	}

	first, err := GroupBalances(group, expenses)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}
	second, err := GroupBalances(group, expenses)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated computation differs: %v vs %v", first, second)
	}
}

func TestGroupBalancesDetectsCorruptShares(t *testing.T) {
	// A share that does not reconcile with its expense amount must surface
	// as a ConsistencyError, never as a silently wrong balance.
	group := testGroup("alice", "bob")
	expenses := []*models.Expense{{
		GroupID:   "g1",
		Amount:    1000,
		PaidByID:  "alice",
		SplitType: models.SplitEqual,
		Shares: []models.ExpenseShare{
			{UserID: "alice", ShareAmount: 500},
			{UserID: "bob", ShareAmount: 499},
		},
	}}

	_, err := GroupBalances(group, expenses)
	if err == nil {
		t.Fatal("expected error for corrupt shares")
	}
	if !errs.IsConsistency(err) {
		t.Errorf("expected ConsistencyError, got %T", err)
	}
}
