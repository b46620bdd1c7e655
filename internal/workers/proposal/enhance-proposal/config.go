// internal/workers/proposal/enhance-proposal/config.go
package enhanceproposal

import "time"

type Config struct {
	Timeout time.Duration
	// LLMTimeout bounds the completion call alone, so a slow model falls
	// back to the canned narrative well before the job deadline.
	LLMTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    60 * time.Second,
		LLMTimeout: 45 * time.Second,
	}
}
