package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(60, 3, time.Minute, discardLogger())
	defer rl.Close()

	for i := range 3 {
		assert.True(t, rl.Allow("ip:1.2.3.4"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("ip:1.2.3.4"))
	assert.True(t, rl.Allow("ip:5.6.7.8"))

	stats := rl.Stats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.Equal(t, 3, stats["burst_capacity"])
	assert.InDelta(t, 60.0, stats["rate_per_minute"], 0.001)
}

func TestRateLimiterEvictIdle(t *testing.T) {
	rl := NewRateLimiter(60, 1, time.Hour, discardLogger())
	defer rl.Close()

	rl.Allow("a")
	rl.mu.Lock()
	rl.lastSeen["a"] = time.Now().Add(-2 * time.Hour)
	rl.mu.Unlock()
	rl.Allow("b")

	rl.evictIdle(time.Hour)
	assert.Equal(t, 1, rl.Stats()["active_limiters"])

	rl.Close()
	rl.Close()
}

func TestRateLimitKey(t *testing.T) {
	req := httptest.NewRequest("POST", "/analyze", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-API-Key", "key-1")

	tests := []struct {
		name        string
		byAPIKey    bool
		byIP        bool
		wantKey     string
		wantKeyType string
	}{
		{"api key wins", true, true, "api:key-1", "api_key"},
		{"ip only", false, true, "ip:192.0.2.1", "ip"},
		{"disabled", false, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, keyType := rateLimitKey(req, tt.byAPIKey, tt.byIP)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantKeyType, keyType)
		})
	}
}
