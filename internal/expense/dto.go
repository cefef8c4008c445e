package expense

import "github.com/shopspring/decimal"

// CreateExpenseRequest represents the request body for creating an expense.
// The payer is the authenticated caller.
type CreateExpenseRequest struct {
	GroupID     string          `json:"group_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description,omitempty"`
}

// UpdateExpenseRequest represents the request body for updating an expense
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// ExpenseResponse represents the response for a single expense
type ExpenseResponse struct {
	ID          int64  `json:"id"`
	GroupID     string `json:"group_id"`
	Payer       string `json:"payer"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Payer:       e.Payer,
		Amount:      e.Amount.StringFixed(2),
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
