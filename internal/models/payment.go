// internal/models/payment.go
package models

import "time"

// Payment methods accepted on the checkout page.
const (
	PaymentMethodCard   = "card"
	PaymentMethodPayPal = "paypal"
	PaymentMethodCrypto = "crypto"
	PaymentMethodWire   = "wire"
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

// Payment is one payment attempt for a lead's selected package.
type Payment struct {
	ID        string    `json:"id" db:"id"`
	LeadID    string    `json:"leadId" db:"lead_id"`
	Method    string    `json:"method" db:"method"`
	Amount    float64   `json:"amount" db:"amount"`
	Currency  string    `json:"currency" db:"currency"`
	Status    string    `json:"status" db:"status"`
	GatewayID string    `json:"gatewayId,omitempty" db:"gateway_id"`
	Reference string    `json:"reference,omitempty" db:"reference"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
