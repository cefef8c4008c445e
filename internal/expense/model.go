package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a cost paid by one participant on behalf of the group.
// Amounts are exact fixed-point values; the id is assigned by the repository
// on creation.
type Expense struct {
	ID          int64           `json:"id"`
	GroupID     string          `json:"group_id"`
	Payer       string          `json:"payer"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
