package payment

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending payment and returns it with its assigned id
func (r *Repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (group_id, payer, receiver, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, payer, receiver, amount, status, created_at, confirmed_at
	`

	created := &Payment{}
	err := r.db.QueryRowContext(ctx, query, p.GroupID, p.Payer, p.Receiver, p.Amount).Scan(
		&created.ID,
		&created.GroupID,
		&created.Payer,
		&created.Receiver,
		&created.Amount,
		&created.Status,
		&created.CreatedAt,
		&created.ConfirmedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return created, nil
}

// GetByID retrieves a payment by its id
func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	query := `
		SELECT id, group_id, payer, receiver, amount, status, created_at, confirmed_at
		FROM payments
		WHERE id = $1
	`

	p := &Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.GroupID,
		&p.Payer,
		&p.Receiver,
		&p.Amount,
		&p.Status,
		&p.CreatedAt,
		&p.ConfirmedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return p, nil
}

// ListByGroupID retrieves payments for a group with pagination
func (r *Repository) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Payment, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM payments WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := `
		SELECT id, group_id, payer, receiver, amount, status, created_at, confirmed_at
		FROM payments
		WHERE group_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p := &Payment{}
		if err := rows.Scan(
			&p.ID,
			&p.GroupID,
			&p.Payer,
			&p.Receiver,
			&p.Amount,
			&p.Status,
			&p.CreatedAt,
			&p.ConfirmedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, total, nil
}

// Confirm transitions a payment from pending to confirmed. The update is
// conditional on the current status so racing confirms are serialized by the
// store: exactly one caller gets the row back, the others get (nil, nil).
// The confirmation time is clamped to never precede the creation time.
func (r *Repository) Confirm(ctx context.Context, id int64) (*Payment, error) {
	query := `
		UPDATE payments
		SET status = 'CONFIRMED',
		    confirmed_at = GREATEST(NOW(), created_at)
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id, group_id, payer, receiver, amount, status, created_at, confirmed_at
	`

	p := &Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.GroupID,
		&p.Payer,
		&p.Receiver,
		&p.Amount,
		&p.Status,
		&p.CreatedAt,
		&p.ConfirmedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	return p, nil
}

// Delete removes a payment
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}
