package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fkhayef/fintrack/internal/database"
)

// Repository handles account data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new account repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, owner_id, name, currency_code, balance, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*Account, error) {
	a := &Account{}
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.CurrencyCode, &a.Balance, &a.CreatedAt)
	return a, err
}

// Create inserts a new account into the database
func (r *Repository) Create(ctx context.Context, ownerID string, req *CreateAccountRequest) (*Account, error) {
	query := `
		INSERT INTO accounts (owner_id, name, currency_code, balance)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, ownerID, req.Name, req.CurrencyCode, req.Balance))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

// GetByID retrieves an account by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// ListByOwnerID retrieves all of an owner's accounts ordered by name
func (r *Repository) ListByOwnerID(ctx context.Context, ownerID string) ([]*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_id = $1
		ORDER BY name, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

// Update modifies an existing account
func (r *Repository) Update(ctx context.Context, id string, req *UpdateAccountRequest) (*Account, error) {
	query := `
		UPDATE accounts
		SET name = COALESCE($2, name),
		    currency_code = COALESCE($3, currency_code),
		    balance = COALESCE($4, balance)
		WHERE id = $1
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, req.Name, req.CurrencyCode, req.Balance))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return a, nil
}

// Delete removes an account together with its transactions. Transfers
// between this account and another are reverted on the other side first, so
// the surviving account keeps a balance consistent with its own history.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT true FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock account: %w", err)
		}

		revertCredits := `
			UPDATE accounts a
			SET balance = a.balance - d.credited
			FROM (
				SELECT to_account_id AS id, SUM(ROUND(amount * COALESCE(exchange_rate, 1), 2)) AS credited
				FROM transactions
				WHERE type = 'transfer' AND account_id = $1 AND to_account_id <> $1
				GROUP BY to_account_id
			) d
			WHERE a.id = d.id`
		if _, err := tx.ExecContext(ctx, revertCredits, id); err != nil {
			return fmt.Errorf("failed to revert outgoing transfers: %w", err)
		}

		revertDebits := `
			UPDATE accounts a
			SET balance = a.balance + d.debited
			FROM (
				SELECT account_id AS id, SUM(amount) AS debited
				FROM transactions
				WHERE type = 'transfer' AND to_account_id = $1 AND account_id <> $1
				GROUP BY account_id
			) d
			WHERE a.id = d.id`
		if _, err := tx.ExecContext(ctx, revertDebits, id); err != nil {
			return fmt.Errorf("failed to revert incoming transfers: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE account_id = $1 OR to_account_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete account transactions: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		deleted = rowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
