package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// QueryService is the read-only façade over the ledger. Every call
// recomputes from stored state; nothing is cached, so reads can never go
// stale and are always safe to retry.
type QueryService struct {
	store storage.Store
}

// NewQueryService creates a new QueryService with the given storage backend.
func NewQueryService(store storage.Store) *QueryService {
	return &QueryService{store: store}
}

// GroupSummary returns a group with its member users and total expenses.
func (s *QueryService) GroupSummary(ctx context.Context, groupID string) (*models.GroupSummary, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	users, err := s.memberUsers(ctx, group)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := &models.GroupSummary{GroupID: group.ID, Name: group.Name, Users: users}
	for _, e := range expenses {
		summary.TotalExpenses += e.Amount
	}
	return summary, nil
}

// GroupBalances returns every member's net balance in the group, in
// membership insertion order, together with a settlement plan that would
// zero them.
func (s *QueryService) GroupBalances(ctx context.Context, groupID string) (*models.GroupBalances, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := calculator.GroupBalances(group, expenses)
	if err != nil {
		// Conservation invariant broken: a bug, not caller input.
		slog.Error("GroupBalances invariant violation", "group_id", groupID, "error", err)
		return nil, err
	}

	users, err := s.memberUsers(ctx, group)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	view := &models.GroupBalances{GroupID: group.ID, Name: group.Name}
	for _, u := range users {
		view.Balances = append(view.Balances, models.MemberBalance{
			UserID:     u.ID,
			Name:       u.Name,
			NetBalance: balances[u.ID],
		})
	}

	for _, tr := range calculator.Settle(balances) {
		view.Settlements = append(view.Settlements, models.Settlement{
			FromUserID:   tr.FromUserID,
			FromUserName: names[tr.FromUserID],
			ToUserID:     tr.ToUserID,
			ToUserName:   names[tr.ToUserID],
			Amount:       tr.Amount,
		})
	}

	return view, nil
}

// UserBalances returns the user's net balance in every group they belong
// to. Balances are never netted across groups.
func (s *QueryService) UserBalances(ctx context.Context, userID string) (*models.UserBalances, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &models.UserBalances{UserID: user.ID, Name: user.Name}
	for _, group := range groups {
		expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		balances, err := calculator.GroupBalances(group, expenses)
		if err != nil {
			slog.Error("UserBalances invariant violation", "group_id", group.ID, "error", err)
			return nil, err
		}
		view.Balances = append(view.Balances, models.GroupBalance{
			GroupID:    group.ID,
			GroupName:  group.Name,
			NetBalance: balances[userID],
		})
	}

	return view, nil
}

func (s *QueryService) memberUsers(ctx context.Context, group *models.Group) ([]*models.User, error) {
	users := make([]*models.User, 0, len(group.MemberIDs))
	for _, id := range group.MemberIDs {
		user, err := s.store.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
