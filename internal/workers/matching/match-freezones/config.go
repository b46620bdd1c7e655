// internal/workers/matching/match-freezones/config.go
package matchfreezones

import "time"

type Config struct {
	Timeout time.Duration
	TopK    int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		TopK:    15,
	}
}
