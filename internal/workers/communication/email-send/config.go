// internal/workers/communication/email-send/config.go
package emailsend

import "time"

type Config struct {
	Timeout time.Duration
	// FromAddress must be a verified SES identity.
	FromAddress string
	ReplyTo     string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		FromAddress: "proposals@freezone-advisor.ae",
		ReplyTo:     "consultants@freezone-advisor.ae",
	}
}
