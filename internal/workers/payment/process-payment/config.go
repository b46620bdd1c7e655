// internal/workers/payment/process-payment/config.go
package processpayment

import "time"

type Config struct {
	Timeout time.Duration
	// Currency applies when the job variables do not carry one.
	Currency string
	// WireInstructionsRef is the bank detail sheet attached to wire payments.
	WireInstructionsRef string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:             20 * time.Second,
		Currency:            "AED",
		WireInstructionsRef: "wire-instructions-v2",
	}
}
