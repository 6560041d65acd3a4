package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository handles activity and member persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new activity repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const activityColumns = `id, owner_id, name, description, currency_code, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(row scanner) (*Activity, error) {
	a := &Activity{}
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Description, &a.CurrencyCode, &a.CreatedAt)
	return a, err
}

func scanMember(row scanner) (*Member, error) {
	m := &Member{}
	err := row.Scan(&m.ID, &m.ActivityID, &m.Name, &m.CreatedAt)
	return m, err
}

// Create inserts a new activity
func (r *Repository) Create(ctx context.Context, ownerID string, req *CreateActivityRequest) (*Activity, error) {
	query := `
		INSERT INTO activities (owner_id, name, description, currency_code)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + activityColumns

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, ownerID, req.Name, req.Description, req.CurrencyCode))
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return a, nil
}

// GetByID retrieves an activity by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

// ListByOwnerID retrieves a page of an owner's activities, newest first
func (r *Repository) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*Activity, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []*Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}

	return activities, total, nil
}

// Update modifies an existing activity
func (r *Repository) Update(ctx context.Context, id string, req *UpdateActivityRequest) (*Activity, error) {
	query := `
		UPDATE activities
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    currency_code = COALESCE($4, currency_code)
		WHERE id = $1
		RETURNING ` + activityColumns

	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id, req.Name, req.Description, req.CurrencyCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return a, nil
}

// Delete removes an activity. Members, expenses and splits cascade.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete activity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// AddMember adds a named member to an activity
func (r *Repository) AddMember(ctx context.Context, activityID, name string) (*Member, error) {
	query := `
		INSERT INTO activity_members (activity_id, name)
		VALUES ($1, $2)
		RETURNING id, activity_id, name, created_at
	`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, activityID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return m, nil
}

// ListMembers retrieves the members of an activity in the order they were added
func (r *Repository) ListMembers(ctx context.Context, activityID string) ([]*Member, error) {
	query := `
		SELECT id, activity_id, name, created_at
		FROM activity_members
		WHERE activity_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []*Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// GetMember retrieves one member of an activity
func (r *Repository) GetMember(ctx context.Context, activityID, memberID string) (*Member, error) {
	query := `
		SELECT id, activity_id, name, created_at
		FROM activity_members
		WHERE activity_id = $1 AND id = $2
	`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, activityID, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// UpdateMember renames a member
func (r *Repository) UpdateMember(ctx context.Context, activityID, memberID, name string) (*Member, error) {
	query := `
		UPDATE activity_members
		SET name = $3
		WHERE activity_id = $1 AND id = $2
		RETURNING id, activity_id, name, created_at
	`

	m, err := scanMember(r.db.QueryRowContext(ctx, query, activityID, memberID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return m, nil
}

// MemberHasExpenses reports whether the member paid for or shares any expense
func (r *Repository) MemberHasExpenses(ctx context.Context, memberID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM activity_expenses WHERE paid_by_member_id = $1)
		    OR EXISTS (SELECT 1 FROM expense_splits WHERE member_id = $1)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, memberID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check member expenses: %w", err)
	}
	return exists, nil
}

// RemoveMember deletes a member from an activity
func (r *Repository) RemoveMember(ctx context.Context, activityID, memberID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity_members WHERE activity_id = $1 AND id = $2`, activityID, memberID)
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}
