package server

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Output receives the startup banner
var Output io.Writer = os.Stdout

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo(tlsEnabled bool) {
	scheme := "http"
	if tlsEnabled {
		scheme = "https"
	}
	_, _ = fmt.Fprintf(Output, "Stub backend listening on %s://%s\n", scheme, s.Addr())
	s.displayEndpoints()
	s.displayCORSInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	_, _ = fmt.Fprintln(Output, "Available endpoints:")
	_, _ = fmt.Fprintln(Output, "  GET  /                       - Backend status message")
	_, _ = fmt.Fprintln(Output, "  GET  /health                 - Health check")
	_, _ = fmt.Fprintln(Output, "  GET  /stats                  - Server statistics")
	_, _ = fmt.Fprintln(Output, "  GET  /metrics                - Prometheus metrics (when enabled)")
	_, _ = fmt.Fprintln(Output, "  POST /upload                 - Resume feedback (multipart: resume)")
	_, _ = fmt.Fprintln(Output, "  POST /compare                - Compare resumes (multipart: resume1, resume2)")
	_, _ = fmt.Fprintln(Output, "  POST /tailor-resume          - Tailor resume (JSON: resume_text, job_description)")
	_, _ = fmt.Fprintln(Output, "  POST /generate-cover-letter  - Cover letter (multipart: resume, job_description)")
	_, _ = fmt.Fprintln(Output, "  POST /chatbot                - Support chat (JSON: message)")
}

func (s *Server) displayCORSInfo() {
	if len(s.AllowedOrigins) == 0 {
		_, _ = fmt.Fprintln(Output, "CORS: DISABLED (no allowed origins)")
		return
	}
	_, _ = fmt.Fprintf(Output, "CORS allowed origins: %s\n", strings.Join(s.AllowedOrigins, ", "))
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		_, _ = fmt.Fprintf(Output, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		_, _ = fmt.Fprintln(Output, "Request size limit: DISABLED")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		_, _ = fmt.Fprintf(Output, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByIP {
			_, _ = fmt.Fprintln(Output, "  - Per IP address rate limiting enabled")
		}
	} else {
		_, _ = fmt.Fprintln(Output, "Rate limiting: DISABLED")
	}
}
