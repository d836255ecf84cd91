// Package server runs a local stand-in for the resume analysis backend. It
// speaks the same HTTP contracts as the real service and answers with
// fixtures, which makes the client usable and testable offline.
package server

import (
	"fmt"
	"time"

	"resumeassist/internal/config"
	"resumeassist/internal/errors"
	"resumeassist/internal/types"
)

// ErrorResponse represents an error response
type ErrorResponse = types.ErrorResponse

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Origins allowed to call the API from a browser
	AllowedOrigins []string

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Fixtures Fixtures

	// Logger
	Logger *errors.Logger
}

// NewServer creates a new Server from the application configuration. The
// fixtures file, when configured, must be readable.
func NewServer(cfg config.ServerConfig, version string, logger *errors.Logger) (*Server, error) {
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	fixtures, err := LoadFixtures(cfg.FixturesFile)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to load fixtures", err).
			WithContext("file", cfg.FixturesFile)
	}

	var rateLimiter *RateLimiter
	rateLimit := cfg.RateLimit
	if rateLimit.Enabled {
		rateLimiter = NewRateLimiter(rateLimit.RequestsPerMin, rateLimit.Window, rateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		TLSConfig:      cfg.TLS,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      &rateLimit,
		RateLimiter:    rateLimiter,
		Fixtures:       fixtures,
		Logger:         logger,
	}, nil
}

// Addr returns host:port
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Close releases background resources
func (s *Server) Close() {
	s.cleanupRateLimiter()
}
