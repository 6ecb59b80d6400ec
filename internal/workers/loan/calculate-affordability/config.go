// internal/workers/loan/calculate-affordability/config.go
package calculateaffordability

import (
	"time"

	"loan-origination/internal/affordability"
)

type Config struct {
	Timeout time.Duration
	Rates   affordability.RateTable
	MaxDTI  float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Rates:   affordability.DefaultRates(),
		MaxDTI:  60,
	}
}
