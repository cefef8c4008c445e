package expense

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new expense and returns it with its assigned id
func (r *Repository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	query := `
		INSERT INTO expenses (group_id, payer, amount, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, payer, amount, description, created_at
	`

	created := &Expense{}
	err := r.db.QueryRowContext(ctx, query, e.GroupID, e.Payer, e.Amount, e.Description).Scan(
		&created.ID,
		&created.GroupID,
		&created.Payer,
		&created.Amount,
		&created.Description,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return created, nil
}

// GetByID retrieves an expense by its id
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT id, group_id, payer, amount, description, created_at
		FROM expenses
		WHERE id = $1
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.GroupID,
		&e.Payer,
		&e.Amount,
		&e.Description,
		&e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return e, nil
}

// ListByGroupID retrieves expenses for a group with pagination
func (r *Repository) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT id, group_id, payer, amount, description, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.GroupID,
			&e.Payer,
			&e.Amount,
			&e.Description,
			&e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, total, nil
}

// Update modifies an existing expense
func (r *Repository) Update(ctx context.Context, e *Expense) (*Expense, error) {
	query := `
		UPDATE expenses
		SET amount = $2, description = $3
		WHERE id = $1
		RETURNING id, group_id, payer, amount, description, created_at
	`

	updated := &Expense{}
	err := r.db.QueryRowContext(ctx, query, e.ID, e.Amount, e.Description).Scan(
		&updated.ID,
		&updated.GroupID,
		&updated.Payer,
		&updated.Amount,
		&updated.Description,
		&updated.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return updated, nil
}

// Delete removes an expense
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	return nil
}
