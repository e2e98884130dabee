package clarity

import (
	stderrors "errors"
	"testing"
	"time"

	"resumeinsight/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker[int]("test", breakerConfig(), nil)
	require.NotNil(t, cb)

	stats := cb.Stats()
	assert.Equal(t, "Clarity-test", stats["name"])
	assert.Equal(t, "closed", stats["state"])

	failing := func() (int, error) { return 0, stderrors.New("provider down") }
	for range 3 {
		_, _ = cb.Execute(failing)
	}

	assert.False(t, cb.IsHealthy())
	assert.Equal(t, "open", cb.Stats()["state"])

	calls := 0
	_, err := cb.Execute(func() (int, error) { calls++; return 1, nil })
	assert.Error(t, err)
	assert.Zero(t, calls, "open breaker must not call through")
}

func TestCircuitBreakerStaysClosedBelowMinRequests(t *testing.T) {
	cb := NewCircuitBreaker[int]("test", breakerConfig(), nil)

	for range 2 {
		_, _ = cb.Execute(func() (int, error) { return 0, stderrors.New("fail") })
	}
	assert.True(t, cb.IsHealthy())
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := breakerConfig()
	cfg.Enabled = false

	cb := NewCircuitBreaker[int]("test", cfg, nil)
	assert.Nil(t, cb)
	assert.True(t, cb.IsHealthy())
	assert.Equal(t, map[string]any{"enabled": false}, cb.Stats())

	value, err := cb.Execute(func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}
