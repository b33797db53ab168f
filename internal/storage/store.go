// Package storage provides abstractions for ledger persistence.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Store defines the interface for ledger storage operations.
// The ledger is append-only: users, groups and expenses are created but
// never updated or deleted (group membership may only grow).
//
// Implementations must serialize mutations against each other and append an
// expense with all its shares atomically, so reads never observe a torn
// expense.
type Store interface {
	// CreateUser persists a new user. The ID and CreatedAt fields are
	// populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID, or a NotFoundError.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns all users in creation order.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateGroup persists a new group with its initial member set.
	// The ID and CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in insertion order,
	// or a NotFoundError.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser returns the groups a user belongs to, in group
	// creation order.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateExpense appends an expense and all its shares in one
	// transaction. The ID and CreatedAt fields are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns a group's expenses with their shares,
	// in creation order.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
