// Package payments wraps the card, PayPal, and crypto payment gateways.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// CheckoutRequest describes the charge to initiate.
type CheckoutRequest struct {
	LeadID      string  `json:"leadId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	SuccessURL  string  `json:"successUrl,omitempty"`
	CancelURL   string  `json:"cancelUrl,omitempty"`
}

// CheckoutSession is the gateway-side session the client completes.
type CheckoutSession struct {
	GatewayID   string `json:"gatewayId"`
	CheckoutURL string `json:"checkoutUrl"`
	Status      string `json:"status"`
}

// Gateway initiates checkout sessions with an external payment provider.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	Name() string
}

// VerifyHMACSignature checks a hex-encoded SHA-256 HMAC of the raw webhook
// body. Coinbase signs webhooks this way; PayPal events are checked the same
// way against the configured webhook ID.
func VerifyHMACSignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyStripeSignature checks a Stripe-Signature header of the form
// "t=<unix>,v1=<hex>[,v1=<hex>...]". The HMAC covers "<t>.<payload>", and the
// timestamp must be within tolerance of now so a captured webhook cannot be
// replayed later.
func VerifyStripeSignature(payload []byte, header, secret string, tolerance time.Duration) bool {
	var timestamp string
	var candidates []string

	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	age := time.Since(time.Unix(ts, 0))
	if age < 0 {
		age = -age
	}
	if tolerance > 0 && age > tolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(expected), []byte(candidate)) {
			return true
		}
	}
	return false
}
