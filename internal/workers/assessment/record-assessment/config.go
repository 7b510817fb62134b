// internal/workers/assessment/record-assessment/config.go
package recordassessment

import "time"

type Config struct {
	Timeout time.Duration
	// TopN is how many recommendation IDs are denormalised into top_major_ids.
	TopN           int
	CatalogVersion string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		TopN:    3,
	}
}
