// internal/workers/loan/load-applicant-profile/config.go
package loadapplicantprofile

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
