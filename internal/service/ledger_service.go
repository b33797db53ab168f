// Package service implements the ledger's mutation and query operations on
// top of a storage.Store.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/errs"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/money"
)

// LedgerService owns all ledger mutations: creating users and groups and
// recording expenses. Validation failures never reach the store, so a
// failed call leaves the ledger exactly as it was.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateUser registers a new user.
func (s *LedgerService) CreateUser(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validationf("user name must not be blank")
	}

	user := &models.User{Name: name}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, err
	}

	slog.Info("User created", "user_id", user.ID, "name", user.Name)
	return user, nil
}

// ListUsers returns all registered users.
func (s *LedgerService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// CreateGroup creates a group with its initial member set.
func (s *LedgerService) CreateGroup(ctx context.Context, name string, userIDs []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validationf("group name must not be blank")
	}
	if len(userIDs) == 0 {
		return nil, errs.Validationf("group must have at least one member")
	}

	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			return nil, errs.Validationf("duplicate member user_id %s", id)
		}
		seen[id] = true
		if _, err := s.store.GetUser(ctx, id); err != nil {
			if errs.IsNotFound(err) {
				return nil, errs.Validationf("unknown user_id %s", id)
			}
			return nil, err
		}
	}

	group := &models.Group{Name: name, MemberIDs: userIDs}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "members_count", len(userIDs))
	return group, nil
}

// ExpenseInput carries the caller-supplied fields of a new expense.
type ExpenseInput struct {
	Description string
	Amount      money.Cents
	PaidByID    string
	SplitType   models.SplitType
	Splits      []calculator.SplitInput
}

// RecordExpense validates and appends an expense to a group's ledger.
// The expense and its resolved per-member shares are recorded atomically.
func (s *LedgerService) RecordExpense(ctx context.Context, groupID string, in ExpenseInput) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, in.PaidByID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Description) == "" {
		return nil, errs.Validationf("expense description must not be blank")
	}
	if in.Amount <= 0 {
		return nil, errs.Validationf("expense amount must be positive, got %s", in.Amount)
	}
	if !group.HasMember(in.PaidByID) {
		return nil, errs.Validationf("payer %s is not a member of group %s", in.PaidByID, groupID)
	}
	for _, split := range in.Splits {
		if !group.HasMember(split.UserID) {
			return nil, errs.Validationf("split user %s is not a member of group %s", split.UserID, groupID)
		}
	}

	shares, err := calculator.ResolveShares(in.Amount, in.SplitType, in.Splits)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		PaidByID:    in.PaidByID,
		SplitType:   in.SplitType,
		Shares:      shares,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("RecordExpense failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", groupID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
		"shares_count", len(shares),
	)
	return expense, nil
}
