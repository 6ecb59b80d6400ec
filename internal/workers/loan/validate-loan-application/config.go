// internal/workers/loan/validate-loan-application/config.go
package validateloanapplication

import (
	"time"

	"loan-origination/internal/workflow"
)

type Config struct {
	Timeout time.Duration
	Rules   workflow.Rules
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
		Rules:   workflow.DefaultRules(),
	}
}
