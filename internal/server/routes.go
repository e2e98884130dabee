package server

import "net/http"

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("POST /upload", s.protected(s.uploadHandler))
	mux.HandleFunc("POST /analyze", s.protected(s.analyzeHandler))
	mux.HandleFunc("POST /score", s.protected(s.scoreHandler))
	mux.HandleFunc("POST /structure", s.protected(s.structureHandler))

	return s.requestIDMiddleware(s.obs.HTTPMiddleware()(mux))
}
