// internal/workers/recommendation/generate-recommendations/config.go
package generaterecommendations

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	// CatalogVersion is part of the cache key so a republished catalog never
	// serves stale results.
	CatalogVersion string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: time.Hour,
	}
}
