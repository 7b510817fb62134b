// internal/workers/transcript/validate-transcript/config.go
package validatetranscript

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
