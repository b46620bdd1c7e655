// internal/workers/payment/verify-payment-webhook/config.go
package verifypaymentwebhook

import "time"

type Config struct {
	Timeout time.Duration
	// Tolerance bounds the age of a Stripe-signed webhook; older events are
	// rejected as replays.
	Tolerance time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   15 * time.Second,
		Tolerance: 5 * time.Minute,
	}
}
