// internal/workers/assessment/notify-assessment-result/config.go
package notifyassessmentresult

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	// RatePerSecond caps sends across all jobs of this worker; AWS throttles
	// SES and SNS per account.
	RatePerSecond float64
	TopMatches    int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       30 * time.Second,
		EmailEnabled:  true,
		SMSEnabled:    false,
		RatePerSecond: 10,
		TopMatches:    3,
	}
}
