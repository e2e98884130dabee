package clarity

import (
	"fmt"

	"resumeinsight/internal/config"
	"resumeinsight/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker guards calls to a clarity provider. A nil *CircuitBreaker runs calls directly.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// NewCircuitBreaker creates a breaker for the named provider, or nil when disabled
func NewCircuitBreaker[T any](provider string, cfg config.CircuitBreakerConfig, logger *errors.Logger) *CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("Clarity-%s", provider),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"failure_threshold", cfg.FailureThreshold)
		},
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn under the breaker
func (b *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats returns breaker statistics for health reporting
func (b *CircuitBreaker[T]) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts":  b.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy reports whether the breaker is closed
func (b *CircuitBreaker[T]) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
