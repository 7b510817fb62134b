// Package resilience wraps outbound calls to search and notification
// backends in circuit breakers.
package resilience

import (
	"time"

	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	DefaultThreshold = 5
	DefaultTimeout   = 30 * time.Second
)

type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before a half-open probe.
	Timeout     time.Duration
	MaxRequests uint32
}

// Breaker trips after FailureThreshold consecutive failures and reports its
// state on the circuit_breaker_state gauge.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[interface{}]
}

func NewBreaker(cfg BreakerConfig, log logger.Logger) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[interface{}](settings)}
}

func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return b.cb.Execute(fn)
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}

func (b *Breaker) Name() string {
	return b.cb.Name()
}

// IsOpen reports whether err was returned because the breaker rejected the
// call without running it.
func IsOpen(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}
