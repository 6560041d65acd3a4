package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/fkhayef/fintrack/internal/database"
	"github.com/fkhayef/fintrack/internal/money"
)

// Repository handles transaction persistence and the account balances it moves
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new transaction repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const transactionColumns = `id, owner_id, type, account_id, to_account_id, category_id, amount, exchange_rate, description, date, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*Transaction, error) {
	t := &Transaction{}
	var rate decimal.NullDecimal
	err := row.Scan(&t.ID, &t.OwnerID, &t.Type, &t.AccountID, &t.ToAccountID, &t.CategoryID,
		&t.Amount, &rate, &t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if rate.Valid {
		t.ExchangeRate = &rate.Decimal
	}
	return t, nil
}

func applyBalances(ctx context.Context, tx *sql.Tx, changes []BalanceChange) error {
	for _, c := range changes {
		result, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance + $2 WHERE id = $1`, c.AccountID, c.Delta)
		if err != nil {
			return fmt.Errorf("failed to update account balance: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("failed to update account balance: account %s not found", c.AccountID)
		}
	}
	return nil
}

func rateArg(rate *decimal.Decimal) any {
	if rate == nil {
		return nil
	}
	return rate.String()
}

// Create records a transaction and moves the account balances it touches,
// all in one database transaction
func (r *Repository) Create(ctx context.Context, t *Transaction) (*Transaction, error) {
	var created *Transaction
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO transactions (owner_id, type, account_id, to_account_id, category_id, amount, exchange_rate, description, date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + transactionColumns

		var err error
		created, err = scanTransaction(tx.QueryRowContext(ctx, query,
			t.OwnerID, t.Type, t.AccountID, t.ToAccountID, t.CategoryID,
			t.Amount, rateArg(t.ExchangeRate), t.Description, t.Date.Format(DateLayout)))
		if err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
		return applyBalances(ctx, tx, created.BalanceChanges())
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// filterClause builds the WHERE clause and its arguments for a listing.
// Columns are qualified with alias when one is given.
func filterClause(alias, ownerID string, f Filter) (string, []any) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	conds := []string{col("owner_id") + " = $1"}
	args := []any{ownerID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if len(f.AccountIDs) > 0 {
		add("("+col("account_id")+" = ANY(?::uuid[]) OR "+col("to_account_id")+" = ANY(?::uuid[]))", pq.Array(f.AccountIDs))
	}
	if f.Type != "" {
		add(col("type")+" = ?", string(f.Type))
	}
	if f.DateFrom != nil {
		add(col("date")+" >= ?", f.DateFrom.Format(DateLayout))
	}
	if f.DateTo != nil {
		add(col("date")+" <= ?", f.DateTo.Format(DateLayout))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List retrieves a page of an owner's transactions, newest first, and the
// total number matching the filter
func (r *Repository) List(ctx context.Context, ownerID string, f Filter) ([]*Transaction, int, error) {
	where, args := filterClause("", ownerID, f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + ` ORDER BY date DESC, created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []*Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, total, nil
}

// Update replaces a transaction, undoing the balance moves of the stored
// version before applying the new ones. The stored row is locked for the
// duration of the database transaction.
func (r *Repository) Update(ctx context.Context, id string, t *Transaction) (*Transaction, error) {
	var updated *Transaction
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		old, err := scanTransaction(tx.QueryRowContext(ctx,
			`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock transaction: %w", err)
		}

		if err := applyBalances(ctx, tx, Reverse(old.BalanceChanges())); err != nil {
			return err
		}

		query := `
			UPDATE transactions
			SET type = $2, account_id = $3, to_account_id = $4, category_id = $5,
			    amount = $6, exchange_rate = $7, description = $8, date = $9
			WHERE id = $1
			RETURNING ` + transactionColumns

		updated, err = scanTransaction(tx.QueryRowContext(ctx, query,
			id, t.Type, t.AccountID, t.ToAccountID, t.CategoryID,
			t.Amount, rateArg(t.ExchangeRate), t.Description, t.Date.Format(DateLayout)))
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		return applyBalances(ctx, tx, updated.BalanceChanges())
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a transaction and reverts the balance moves of the row it
// removed. It returns ErrTransactionNotFound when the row is already gone.
func (r *Repository) Delete(ctx context.Context, id string) (*Transaction, error) {
	var deleted *Transaction
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		deleted, err = scanTransaction(tx.QueryRowContext(ctx,
			`DELETE FROM transactions WHERE id = $1 RETURNING `+transactionColumns, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return applyBalances(ctx, tx, Reverse(deleted.BalanceChanges()))
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Totals sums an owner's income and expenses per account in a date range
func (r *Repository) Totals(ctx context.Context, ownerID string, f Filter) ([]AccountTotals, error) {
	f.Type = ""
	where, args := filterClause("", ownerID, f)
	query := `
		SELECT account_id,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions` + where + `
		GROUP BY account_id
		ORDER BY account_id
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to total transactions: %w", err)
	}
	defer rows.Close()

	totals := []AccountTotals{}
	for rows.Next() {
		var at AccountTotals
		if err := rows.Scan(&at.AccountID, &at.Income, &at.Expense); err != nil {
			return nil, fmt.Errorf("failed to scan totals: %w", err)
		}
		totals = append(totals, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to total transactions: %w", err)
	}
	return totals, nil
}

// ExpensesByClassification sums an owner's expenses per category
// classification in a date range. Uncategorized and unclassified expenses
// are reported under an empty classification.
func (r *Repository) ExpensesByClassification(ctx context.Context, ownerID string, f Filter) (map[string]money.Cents, error) {
	f.Type = TypeExpense
	where, args := filterClause("t", ownerID, f)

	query := `
		SELECT COALESCE(c.classification, ''), SUM(t.amount)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id` + where + `
		GROUP BY 1
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group expenses: %w", err)
	}
	defer rows.Close()

	out := map[string]money.Cents{}
	for rows.Next() {
		var classification string
		var total money.Cents
		if err := rows.Scan(&classification, &total); err != nil {
			return nil, fmt.Errorf("failed to scan expense group: %w", err)
		}
		out[classification] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to group expenses: %w", err)
	}
	return out, nil
}
