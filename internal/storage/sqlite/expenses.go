package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/money"
)

// CreateExpense appends an expense and all its shares atomically.
// Either the whole expense with every share is recorded or nothing is.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount_cents, paid_by, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description,
		int64(expense.Amount), expense.PaidByID, string(expense.SplitType), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, share := range expense.Shares {
		var pct sql.NullFloat64
		if share.Percentage != nil {
			pct = sql.NullFloat64{Float64: *share.Percentage, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, share_cents, percentage) VALUES (?, ?, ?, ?)",
			expense.ID, share.UserID, int64(share.ShareAmount), pct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense: %w", err)
	}
	return nil
}

// ListExpensesByGroup returns a group's expenses with their shares.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount_cents, paid_by, split_type, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		e := &models.Expense{}
		var amount int64
		var splitType string
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &amount, &e.PaidByID, &splitType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount = money.Cents(amount)
		e.SplitType = models.SplitType(splitType)
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	shareRows, err := s.db.QueryContext(ctx,
		`SELECT es.expense_id, es.user_id, es.share_cents, es.percentage
		 FROM expense_splits es
		 JOIN expenses e ON e.id = es.expense_id
		 WHERE e.group_id = ?
		 ORDER BY es.expense_id, es.user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense splits: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID, userID string
		var cents int64
		var pct sql.NullFloat64
		if err := shareRows.Scan(&expenseID, &userID, &cents, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		share := models.ExpenseShare{UserID: userID, ShareAmount: money.Cents(cents)}
		if pct.Valid {
			p := pct.Float64
			share.Percentage = &p
		}
		if e, ok := byID[expenseID]; ok {
			e.Shares = append(e.Shares, share)
		}
	}
	return expenses, shareRows.Err()
}
