// internal/workers/loan/discard-application-draft/config.go
package discardapplicationdraft

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
