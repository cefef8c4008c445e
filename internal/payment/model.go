package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a payment. There are exactly two
// states: a payment starts pending and may be confirmed once.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
)

// Payment represents a transfer from payer to receiver inside a group. The
// id is assigned by the repository on creation. ConfirmedAt is set exactly
// when the payment is confirmed and is never earlier than CreatedAt.
type Payment struct {
	ID          int64           `json:"id"`
	GroupID     string          `json:"group_id"`
	Payer       string          `json:"payer"`
	Receiver    string          `json:"receiver"`
	Amount      decimal.Decimal `json:"amount"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
}

// Confirmed reports whether the payment has reached its terminal state
func (p *Payment) Confirmed() bool {
	return p.Status == StatusConfirmed
}
