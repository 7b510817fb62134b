// internal/workers/catalog/search-majors/config.go
package searchmajors

import "time"

type Config struct {
	Timeout         time.Duration
	IndexName       string
	DefaultPageSize int
	MaxPageSize     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		IndexName:       "majors",
		DefaultPageSize: 10,
		MaxPageSize:     50,
	}
}
