// internal/workers/crm/portal-handoff/config.go
package portalhandoff

import "time"

type Config struct {
	Timeout time.Duration
	// Source tags accounts created by this pipeline inside the portal.
	Source string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 20 * time.Second,
		Source:  "freezone-advisor",
	}
}
