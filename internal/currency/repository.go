package currency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository reads the currency catalog
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new currency repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns every currency ordered by code
func (r *Repository) List(ctx context.Context) ([]*Currency, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT code, name, symbol, is_crypto FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	currencies := []*Currency{}
	for rows.Next() {
		c := &Currency{}
		if err := rows.Scan(&c.Code, &c.Name, &c.Symbol, &c.IsCrypto); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

// GetByCode retrieves one currency, or nil when the code is not in the catalog
func (r *Repository) GetByCode(ctx context.Context, code string) (*Currency, error) {
	c := &Currency{}
	err := r.db.QueryRowContext(ctx,
		`SELECT code, name, symbol, is_crypto FROM currencies WHERE code = $1`, code,
	).Scan(&c.Code, &c.Name, &c.Symbol, &c.IsCrypto)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return c, nil
}
