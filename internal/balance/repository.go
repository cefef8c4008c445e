package balance

import (
	"context"
	"database/sql"
	"fmt"
)

// Snapshot is a consistent view of everything needed to compute a group's
// balances, read in a single transaction.
type Snapshot struct {
	GroupID      string
	Participants []string
	Expenses     []ExpenseRecord
	Payments     []PaymentRecord
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Snapshot loads the group's participants, expenses and payments in one
// read-only transaction, so a payment confirmed mid-read cannot show up in
// the payments list without its group state.
func (r *Repository) Snapshot(ctx context.Context, groupID string) (*Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM groups WHERE id = $1)`, groupID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check group: %w", err)
	}
	if !exists {
		return nil, nil
	}

	snap := &Snapshot{GroupID: groupID}

	rows, err := tx.QueryContext(ctx, `
		SELECT username FROM group_participants
		WHERE group_id = $1
		ORDER BY username`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		snap.Participants = append(snap.Participants, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}

	expenseRows, err := tx.QueryContext(ctx, `
		SELECT payer, amount FROM expenses
		WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer expenseRows.Close()
	for expenseRows.Next() {
		var e ExpenseRecord
		if err := expenseRows.Scan(&e.Payer, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := expenseRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}

	paymentRows, err := tx.QueryContext(ctx, `
		SELECT payer, receiver, amount, status FROM payments
		WHERE group_id = $1`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer paymentRows.Close()
	for paymentRows.Next() {
		var p PaymentRecord
		var status string
		if err := paymentRows.Scan(&p.Payer, &p.Receiver, &p.Amount, &status); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Confirmed = status == "CONFIRMED"
		snap.Payments = append(snap.Payments, p)
	}
	if err := paymentRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return snap, nil
}
