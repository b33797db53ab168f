package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

func setupServices(t *testing.T) (*LedgerService, *QueryService) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewLedgerService(store), NewQueryService(store)
}

func pct(v float64) *float64 { return &v }

func TestCreateUser(t *testing.T) {
	ledger, _ := setupServices(t)
	ctx := context.Background()

	user, err := ledger.CreateUser(ctx, "Alice")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Error("expected non-empty user ID")
	}
	if user.Name != "Alice" {
		t.Errorf("name: expected 'Alice', got '%s'", user.Name)
	}

	for _, name := range []string{"", "   "} {
		if _, err := ledger.CreateUser(ctx, name); !errs.IsValidation(err) {
			t.Errorf("CreateUser(%q): expected ValidationError, got %v", name, err)
		}
	}
}

func TestCreateGroup(t *testing.T) {
	ledger, _ := setupServices(t)
	ctx := context.Background()

	alice, _ := ledger.CreateUser(ctx, "Alice")
	bob, _ := ledger.CreateUser(ctx, "Bob")

	group, err := ledger.CreateGroup(ctx, "Roommates", []string{alice.ID, bob.ID})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" || len(group.MemberIDs) != 2 {
		t.Errorf("group = %+v, want id and 2 members", group)
	}

	tests := []struct {
		name    string
		group   string
		members []string
	}{
		{name: "blank name", group: "", members: []string{alice.ID}},
		{name: "no members", group: "Trip", members: nil},
		{name: "unknown member", group: "Trip", members: []string{alice.ID, "ghost"}},
		{name: "duplicate member", group: "Trip", members: []string{alice.ID, alice.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ledger.CreateGroup(ctx, tt.group, tt.members); !errs.IsValidation(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestRecordExpenseValidation(t *testing.T) {
	ledger, query := setupServices(t)
	ctx := context.Background()

	alice, _ := ledger.CreateUser(ctx, "Alice")
	bob, _ := ledger.CreateUser(ctx, "Bob")
	outsider, _ := ledger.CreateUser(ctx, "Mallory")
	group, _ := ledger.CreateGroup(ctx, "Trip", []string{alice.ID, bob.ID})

	valid := ExpenseInput{
		Description: "Dinner",
		Amount:      3000,
		PaidByID:    alice.ID,
		SplitType:   models.SplitEqual,
		Splits:      []calculator.SplitInput{{UserID: alice.ID}, {UserID: bob.ID}},
	}

	t.Run("unknown group is NotFound", func(t *testing.T) {
		_, err := ledger.RecordExpense(ctx, "no-such-group", valid)
		if !errs.IsNotFound(err) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("unknown payer is NotFound", func(t *testing.T) {
		in := valid
		in.PaidByID = "ghost"
		_, err := ledger.RecordExpense(ctx, group.ID, in)
		if !errs.IsNotFound(err) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})

	t.Run("payer outside group is invalid", func(t *testing.T) {
		in := valid
		in.PaidByID = outsider.ID
		_, err := ledger.RecordExpense(ctx, group.ID, in)
		if !errs.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("split user outside group is invalid", func(t *testing.T) {
		in := valid
		in.Splits = []calculator.SplitInput{{UserID: alice.ID}, {UserID: outsider.ID}}
		_, err := ledger.RecordExpense(ctx, group.ID, in)
		if !errs.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("blank description is invalid", func(t *testing.T) {
		in := valid
		in.Description = "  "
		_, err := ledger.RecordExpense(ctx, group.ID, in)
		if !errs.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("non-positive amount is invalid", func(t *testing.T) {
		in := valid
		in.Amount = 0
		_, err := ledger.RecordExpense(ctx, group.ID, in)
		if !errs.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("bad percentages leave ledger unchanged", func(t *testing.T) {
		in := valid
		in.SplitType = models.SplitPercentage
		in.Splits = []calculator.SplitInput{
			{UserID: alice.ID, Percentage: pct(50)},
			{UserID: bob.ID, Percentage: pct(49)},
		}
		if _, err := ledger.RecordExpense(ctx, group.ID, in); !errs.IsValidation(err) {
			t.Errorf("expected ValidationError, got %v", err)
		}

		// No partial expense may survive a failed call.
		view, err := query.GroupBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}
		for _, b := range view.Balances {
			if b.NetBalance != 0 {
				t.Errorf("balance for %s = %s, want 0.00", b.Name, b.NetBalance)
			}
		}
	})
}

func TestGroupBalancesScenarios(t *testing.T) {
	ledger, query := setupServices(t)
	ctx := context.Background()

	alice, _ := ledger.CreateUser(ctx, "Alice")
	bob, _ := ledger.CreateUser(ctx, "Bob")
	carol, _ := ledger.CreateUser(ctx, "Carol")
	group, err := ledger.CreateGroup(ctx, "Dinner Club", []string{alice.ID, bob.ID, carol.ID})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// Dinner 30.00 paid by Alice, equal split.
	_, err = ledger.RecordExpense(ctx, group.ID, ExpenseInput{
		Description: "Dinner",
		Amount:      3000,
		PaidByID:    alice.ID,
		SplitType:   models.SplitEqual,
		Splits: []calculator.SplitInput{
			{UserID: alice.ID}, {UserID: bob.ID}, {UserID: carol.ID},
		},
	})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	view, err := query.GroupBalances(ctx, group.ID)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}

	want := map[string]string{"Alice": "20.00", "Bob": "-10.00", "Carol": "-10.00"}
	if len(view.Balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(view.Balances))
	}
	for _, b := range view.Balances {
		if got := b.NetBalance.String(); got != want[b.Name] {
			t.Errorf("%s net_balance = %s, want %s", b.Name, got, want[b.Name])
		}
	}

	if len(view.Settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(view.Settlements))
	}
	for _, st := range view.Settlements {
		if st.ToUserName != "Alice" || st.Amount != 1000 {
			t.Errorf("settlement = %+v, want 10.00 to Alice", st)
		}
	}

	t.Run("balances ordered by membership insertion", func(t *testing.T) {
		order := []string{"Alice", "Bob", "Carol"}
		for i, b := range view.Balances {
			if b.Name != order[i] {
				t.Errorf("balances[%d] = %s, want %s", i, b.Name, order[i])
			}
		}
	})

	t.Run("repeat read is identical", func(t *testing.T) {
		again, err := query.GroupBalances(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupBalances failed: %v", err)
		}
		for i := range view.Balances {
			if again.Balances[i] != view.Balances[i] {
				t.Errorf("balance %d changed between reads", i)
			}
		}
	})
}

func TestPercentageScenario(t *testing.T) {
	ledger, query := setupServices(t)
	ctx := context.Background()

	alice, _ := ledger.CreateUser(ctx, "Alice")
	bob, _ := ledger.CreateUser(ctx, "Bob")
	group, _ := ledger.CreateGroup(ctx, "Pair", []string{alice.ID, bob.ID})

	// 10.00 paid by Alice, 50/50 percentage split.
	_, err := ledger.RecordExpense(ctx, group.ID, ExpenseInput{
		Description: "Taxi",
		Amount:      1000,
		PaidByID:    alice.ID,
		SplitType:   models.SplitPercentage,
		Splits: []calculator.SplitInput{
			{UserID: alice.ID, Percentage: pct(50)},
			{UserID: bob.ID, Percentage: pct(50)},
		},
	})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	view, err := query.GroupBalances(ctx, group.ID)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}

	want := map[string]string{"Alice": "5.00", "Bob": "-5.00"}
	for _, b := range view.Balances {
		if got := b.NetBalance.String(); got != want[b.Name] {
			t.Errorf("%s net_balance = %s, want %s", b.Name, got, want[b.Name])
		}
	}
	if len(view.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(view.Settlements))
	}
	st := view.Settlements[0]
	if st.FromUserName != "Bob" || st.ToUserName != "Alice" || st.Amount != 500 {
		t.Errorf("settlement = %+v, want Bob->Alice 5.00", st)
	}
}

func TestUserBalancesNoCrossGroupNetting(t *testing.T) {
	ledger, query := setupServices(t)
	ctx := context.Background()

	alice, _ := ledger.CreateUser(ctx, "Alice")
	bob, _ := ledger.CreateUser(ctx, "Bob")
	trip, _ := ledger.CreateGroup(ctx, "Trip", []string{alice.ID, bob.ID})
	rent, _ := ledger.CreateGroup(ctx, "Rent", []string{alice.ID, bob.ID})

	// Alice is owed 5.00 in Trip, owes 5.00 in Rent. The views must not
	// cancel those out.
	for _, e := range []struct {
		group *models.Group
		payer string
	}{
		{group: trip, payer: alice.ID},
		{group: rent, payer: bob.ID},
	} {
		_, err := ledger.RecordExpense(ctx, e.group.ID, ExpenseInput{
			Description: "Shared",
			Amount:      1000,
			PaidByID:    e.payer,
			SplitType:   models.SplitEqual,
			Splits:      []calculator.SplitInput{{UserID: alice.ID}, {UserID: bob.ID}},
		})
		if err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}
	}

	view, err := query.UserBalances(ctx, alice.ID)
	if err != nil {
		t.Fatalf("UserBalances failed: %v", err)
	}
	if view.Name != "Alice" || len(view.Balances) != 2 {
		t.Fatalf("view = %+v, want Alice with 2 group balances", view)
	}

	byGroup := make(map[string]string, 2)
	for _, b := range view.Balances {
		byGroup[b.GroupName] = b.NetBalance.String()
	}
	if byGroup["Trip"] != "5.00" || byGroup["Rent"] != "-5.00" {
		t.Errorf("balances = %v, want Trip:5.00 Rent:-5.00", byGroup)
	}

	t.Run("unknown user is NotFound", func(t *testing.T) {
		if _, err := query.UserBalances(ctx, "ghost"); !errs.IsNotFound(err) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestGroupSummary(t *testing.T) {
	ledger, query := setupServices(t)
	ctx := context.Background()

	alice, _ := ledger.CreateUser(ctx, "Alice")
	bob, _ := ledger.CreateUser(ctx, "Bob")
	group, _ := ledger.CreateGroup(ctx, "Trip", []string{alice.ID, bob.ID})

	_, err := ledger.RecordExpense(ctx, group.ID, ExpenseInput{
		Description: "Hotel",
		Amount:      25050,
		PaidByID:    alice.ID,
		SplitType:   models.SplitEqual,
		Splits:      []calculator.SplitInput{{UserID: alice.ID}, {UserID: bob.ID}},
	})
	if err != nil {
		t.Fatalf("RecordExpense failed: %v", err)
	}

	summary, err := query.GroupSummary(ctx, group.ID)
	if err != nil {
		t.Fatalf("GroupSummary failed: %v", err)
	}
	if summary.Name != "Trip" || len(summary.Users) != 2 {
		t.Errorf("summary = %+v, want Trip with 2 users", summary)
	}
	if summary.TotalExpenses != 25050 {
		t.Errorf("total_expenses = %s, want 250.50", summary.TotalExpenses)
	}
}
