package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fkhayef/fintrack/internal/database"
)

// Repository handles category data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new category repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const categoryColumns = `id, owner_id, name, classification, created_at`

// uniqueViolation is the postgres error code for a duplicate key
const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*Category, error) {
	c := &Category{}
	var classification sql.NullString
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &classification, &c.CreatedAt); err != nil {
		return nil, err
	}
	if classification.Valid {
		cl := Classification(classification.String)
		c.Classification = &cl
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Create inserts a new category
func (r *Repository) Create(ctx context.Context, ownerID, name string, classification *Classification) (*Category, error) {
	query := `
		INSERT INTO categories (owner_id, name, classification)
		VALUES ($1, $2, $3)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, ownerID, name, classification))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

// GetByID retrieves a category by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListByOwnerID retrieves an owner's categories ordered by name
func (r *Repository) ListByOwnerID(ctx context.Context, ownerID string) ([]*Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update renames and reclassifies a category. When setClassification is
// false the stored classification is left alone.
func (r *Repository) Update(ctx context.Context, id string, name *string, setClassification bool, classification *Classification) (*Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
		    classification = CASE WHEN $3 THEN $4 ELSE classification END
		WHERE id = $1
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id, name, setClassification, classification))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

// Delete removes a category. Transactions keep their row with no category.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// SeedDefaults inserts every default the owner does not have yet and
// returns how many were added.
func (r *Repository) SeedDefaults(ctx context.Context, ownerID string, defaults []Default) (int, error) {
	added := 0
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO categories (owner_id, name, classification)
			VALUES ($1, $2, $3)
			ON CONFLICT (owner_id, name) DO NOTHING
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare category insert: %w", err)
		}
		defer stmt.Close()

		for _, d := range defaults {
			result, err := stmt.ExecContext(ctx, ownerID, d.Name, d.Classification)
			if err != nil {
				return fmt.Errorf("failed to seed category %q: %w", d.Name, err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to get rows affected: %w", err)
			}
			added += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
