package balance

// SummaryResponse is one participant's balance row as served by the API.
// Amounts are fixed two-decimal strings.
type SummaryResponse struct {
	Username         string `json:"username" example:"johndoe"`
	Paid             string `json:"paid" example:"100.00"`
	Share            string `json:"share" example:"33.34"`
	PaymentsMade     string `json:"payments_made" example:"0.00"`
	PaymentsReceived string `json:"payments_received" example:"50.00"`
	Net              string `json:"net" example:"16.66"`
}

// ToResponse converts a Summary to its API form.
func (s *Summary) ToResponse() SummaryResponse {
	return SummaryResponse{
		Username:         s.Username,
		Paid:             s.Paid.StringFixed(2),
		Share:            s.Share.StringFixed(2),
		PaymentsMade:     s.PaymentsMade.StringFixed(2),
		PaymentsReceived: s.PaymentsReceived.StringFixed(2),
		Net:              s.Net.StringFixed(2),
	}
}
