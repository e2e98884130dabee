package server

import (
	"context"
	"net/http"
	"strings"

	"resumeinsight/internal/errors"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
)

// requestIDMiddleware tags every request with an id, echoes it in the response and
// attaches a request scoped logger to the context
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = context.WithValue(ctx, loggerKey, s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the id assigned by the request id middleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) requestLogger(r *http.Request) *errors.Logger {
	if l, ok := r.Context().Value(loggerKey).(*errors.Logger); ok {
		return l
	}
	return s.logger
}

// authMiddleware checks the X-API-Key header or a Bearer token against the
// configured keys. Without configured keys every request passes.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.apiKeys) == 0 {
			next(w, r)
			return
		}

		logger := s.requestLogger(r)
		apiKey := apiKeyFromRequest(r)
		if apiKey == "" {
			logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}
		if !s.apiKeys[apiKey] {
			logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))
		next(w, r)
	}
}

// requestSizeLimitMiddleware caps the request body at the upload limit plus framing
func (s *Server) requestSizeLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if limit := s.maxRequestSize(); limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next(w, r)
	}
}

// protected applies the rate limit, auth and size limit chain in that order
func (s *Server) protected(h http.HandlerFunc) http.HandlerFunc {
	return s.rateLimitMiddleware(s.authMiddleware(s.requestSizeLimitMiddleware(h)))
}

func apiKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// maskAPIKey keeps the first 8 characters of a key for logs
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
