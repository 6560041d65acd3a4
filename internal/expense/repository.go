package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/fintrack/internal/database"
	"github.com/fkhayef/fintrack/internal/expense/split"
)

// Repository handles activity expense and split persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const expenseSelect = `
	SELECT e.id, e.activity_id, e.paid_by_member_id, e.amount, e.description,
	       e.date, e.split_type, e.created_at, m.name
	FROM activity_expenses e
	JOIN activity_members m ON m.id = e.paid_by_member_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(
		&e.ID,
		&e.ActivityID,
		&e.PaidByMemberID,
		&e.Amount,
		&e.Description,
		&e.Date,
		&e.SplitType,
		&e.CreatedAt,
		&e.PaidByName,
	)
	return e, err
}

// CreateWithSplits inserts an expense and its split rows in one transaction
func (r *Repository) CreateWithSplits(ctx context.Context, e *Expense, outputs []split.SplitOutput) (*ExpenseWithSplits, error) {
	result := &ExpenseWithSplits{}

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		created := *e
		query := `
			INSERT INTO activity_expenses (activity_id, paid_by_member_id, amount, description, date, split_type)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		if err := tx.QueryRowContext(ctx, query,
			e.ActivityID, e.PaidByMemberID, e.Amount, e.Description, e.Date, e.SplitType,
		).Scan(&created.ID, &created.CreatedAt); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO expense_splits (expense_id, member_id, amount, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare split insert: %w", err)
		}
		defer stmt.Close()

		splits := make([]*Split, len(outputs))
		for i, out := range outputs {
			s := &Split{ExpenseID: created.ID, MemberID: out.MemberID, Amount: out.Amount}
			if err := stmt.QueryRowContext(ctx, created.ID, out.MemberID, out.Amount, i).Scan(&s.ID); err != nil {
				return fmt.Errorf("failed to create split: %w", err)
			}
			splits[i] = s
		}

		result.Expense = &created
		result.Splits = splits
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetByID retrieves an expense of an activity
func (r *Repository) GetByID(ctx context.Context, activityID, id string) (*Expense, error) {
	query := expenseSelect + `WHERE e.activity_id = $1 AND e.id = $2`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, activityID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListByActivityID retrieves every expense of an activity, newest date first
func (r *Repository) ListByActivityID(ctx context.Context, activityID string) ([]*Expense, error) {
	query := expenseSelect + `
		WHERE e.activity_id = $1
		ORDER BY e.date DESC, e.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, nil
}

func (r *Repository) querySplits(ctx context.Context, where string, arg string) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.member_id, s.amount, m.name
		FROM expense_splits s
		JOIN activity_members m ON m.id = s.member_id
		JOIN activity_expenses e ON e.id = s.expense_id
		WHERE ` + where + `
		ORDER BY e.date DESC, e.created_at DESC, s.position
	`

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := []*Split{}
	for rows.Next() {
		s := &Split{}
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.MemberID, &s.Amount, &s.MemberName); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}

	return splits, nil
}

// GetSplitsByExpenseID retrieves the splits of one expense in allocation order
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID string) ([]*Split, error) {
	return r.querySplits(ctx, "s.expense_id = $1", expenseID)
}

// ListSplitsByActivityID retrieves the splits of every expense in an activity
func (r *Repository) ListSplitsByActivityID(ctx context.Context, activityID string) ([]*Split, error) {
	return r.querySplits(ctx, "e.activity_id = $1", activityID)
}

// Delete removes an expense. Its splits cascade.
func (r *Repository) Delete(ctx context.Context, activityID, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity_expenses WHERE activity_id = $1 AND id = $2`, activityID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
