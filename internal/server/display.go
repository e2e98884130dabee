package server

import (
	"fmt"

	"resumeinsight/internal/config"
	"resumeinsight/internal/extract"
)

func (s *Server) displayServerInfo(addr string) {
	scheme := "http"
	if s.cfg.TLS.Mode == config.TLSModeServer || s.cfg.TLS.Mode == config.TLSModeMutual {
		scheme = "https"
	}
	fmt.Printf("Starting server on %s://%s (TLS mode: %s)\n", scheme, addr, s.cfg.TLS.Mode)

	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health     - Health check")
	fmt.Println("  GET  /stats      - Server statistics")
	fmt.Println("  POST /upload     - Analyze an uploaded PDF or DOCX resume (multipart field \"resume\")")
	fmt.Println("  POST /analyze    - Analyze resume text")
	fmt.Println("  POST /score      - Score a resume against a job description")
	fmt.Println("  POST /structure  - Check resume section structure")

	if len(s.apiKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.apiKeys))
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}

	if s.maxFileSize > 0 {
		fmt.Printf("Upload size limit: %s\n", extract.FormatFileSize(s.maxFileSize))
	}

	if s.limiter != nil {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.cfg.RateLimit.RequestsPerMin, s.cfg.RateLimit.BurstCapacity)
	} else {
		fmt.Println("Rate limiting: DISABLED")
	}

	if s.certs != nil && s.cfg.TLS.Reload.Enabled {
		fmt.Println("TLS auto-reload: ENABLED")
	}
}
