// internal/workers/payment/process-payment/models.go
package processpayment

type Input struct {
	LeadID      string  `json:"leadId"`
	Method      string  `json:"paymentMethod"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	Description string  `json:"description,omitempty"`
	SuccessURL  string  `json:"successUrl,omitempty"`
	CancelURL   string  `json:"cancelUrl,omitempty"`
}

type Output struct {
	LeadID      string  `json:"leadId"`
	PaymentID   string  `json:"paymentId"`
	Method      string  `json:"paymentMethod"`
	Status      string  `json:"paymentStatus"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	CheckoutURL string  `json:"checkoutUrl,omitempty"`
	GatewayID   string  `json:"gatewayId,omitempty"`
	// Reference carries the wire instruction sheet for bank transfers.
	Reference string `json:"reference,omitempty"`
}
