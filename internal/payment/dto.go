package payment

import "github.com/shopspring/decimal"

// CreatePaymentRequest represents the request body for recording a payment.
// The payer is the authenticated caller.
type CreatePaymentRequest struct {
	GroupID  string          `json:"group_id" validate:"required"`
	Receiver string          `json:"receiver" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

// PaymentResponse represents the response for a single payment
type PaymentResponse struct {
	ID          int64  `json:"id"`
	GroupID     string `json:"group_id"`
	Payer       string `json:"payer"`
	Receiver    string `json:"receiver"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	ConfirmedAt string `json:"confirmed_at,omitempty"`
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	resp := &PaymentResponse{
		ID:        p.ID,
		GroupID:   p.GroupID,
		Payer:     p.Payer,
		Receiver:  p.Receiver,
		Amount:    p.Amount.StringFixed(2),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.ConfirmedAt != nil {
		resp.ConfirmedAt = p.ConfirmedAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}
