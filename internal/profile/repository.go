package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles profile persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new profile repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `user_id, username, created_at, updated_at`

// uniqueViolation is the postgres error code for a duplicate key
const uniqueViolation = "23505"

func scanProfile(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(&p.UserID, &p.Username, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByUserID retrieves a user's profile, or nil when they have none
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// SaveUsername creates the user's profile or changes its username
func (r *Repository) SaveUsername(ctx context.Context, userID, username string) (*Profile, error) {
	query := `
		INSERT INTO profiles (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username, updated_at = now()
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID, username))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}
