// internal/workers/assessment/manage-assessment-session/config.go
package manageassessmentsession

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
