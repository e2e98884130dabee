package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"resumeinsight/internal/errors"

	"golang.org/x/time/rate"
)

const defaultCleanupInterval = 10 * time.Minute

// RateLimiter keeps one token bucket per client key (IP or API key)
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	once     sync.Once
	logger   *errors.Logger
}

// NewRateLimiter allows requestsPerMin per key with the given burst. Idle keys are
// evicted every cleanupInterval.
func NewRateLimiter(requestsPerMin, burst int, cleanupInterval time.Duration, logger *errors.Logger) *RateLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}
	m := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    burst,
		done:     make(chan struct{}),
		logger:   logger,
	}
	go m.cleanupRoutine(cleanupInterval)
	return m
}

// Allow reports whether a request for key may proceed now
func (m *RateLimiter) Allow(key string) bool {
	m.mu.Lock()
	limiter, ok := m.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = limiter
	}
	m.lastSeen[key] = time.Now()
	m.mu.Unlock()

	return limiter.Allow()
}

// Stats returns limiter statistics for the stats endpoint
func (m *RateLimiter) Stats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string]any{
		"enabled":         true,
		"active_limiters": len(m.limiters),
		"rate_per_minute": float64(m.rate) * 60.0,
		"burst_capacity":  m.burst,
	}
}

func (m *RateLimiter) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle(interval)
		case <-m.done:
			return
		}
	}
}

func (m *RateLimiter) evictIdle(maxIdle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, seen := range m.lastSeen {
		if now.Sub(seen) > maxIdle {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}
	if m.logger != nil {
		m.logger.Debug("Rate limiter cleanup completed", "remaining_limiters", len(m.limiters))
	}
}

// Close stops the cleanup goroutine
func (m *RateLimiter) Close() {
	m.once.Do(func() { close(m.done) })
}

// rateLimitMiddleware rejects requests over the per-key budget with 429
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		key, keyType := rateLimitKey(r, s.cfg.RateLimit.ByAPIKey, s.cfg.RateLimit.ByIP)
		if key == "" {
			next(w, r)
			return
		}

		if !s.limiter.Allow(key) {
			s.requestLogger(r).Info("Rate limit exceeded",
				"key_type", keyType,
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			s.metrics.RecordRateLimitHit(r.Context(), keyType)
			writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// rateLimitKey picks the bucket for a request; API keys win over IPs when both are enabled
func rateLimitKey(r *http.Request, byAPIKey, byIP bool) (key, keyType string) {
	if byAPIKey {
		if apiKey := apiKeyFromRequest(r); apiKey != "" {
			return "api:" + apiKey, "api_key"
		}
	}
	if byIP {
		return "ip:" + getClientIP(r), "ip"
	}
	return "", ""
}

// getClientIP prefers proxy headers and falls back to the remote address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for ip := range strings.SplitSeq(xff, ",") {
			ip = strings.TrimSpace(ip)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
