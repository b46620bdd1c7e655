// internal/workers/payment/verify-payment-webhook/models.go
package verifypaymentwebhook

type Input struct {
	// Gateway names the provider that sent the event: stripe, paypal or
	// coinbase. Selects the webhook secret for signature verification.
	Gateway   string `json:"gateway"`
	GatewayID string `json:"gatewayId"`
	EventType string `json:"eventType"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type Output struct {
	LeadID    string `json:"leadId"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"paymentStatus"`
	Confirmed bool   `json:"paymentConfirmed"`
}
