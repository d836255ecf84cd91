package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ValidateTLSConfig validates both the stub server and the backend client TLS configuration
func (c *Config) ValidateTLSConfig() error {
	if err := validateTLSMode(c.Server.TLS); err != nil {
		return err
	}

	if err := validateTLSVersion(c.Server.TLS.MinVersion); err != nil {
		return err
	}

	return validateClientTLS(c.Backend.TLS)
}

// validateTLSMode validates the TLS mode and associated requirements
func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case "disabled", "":
		return nil // No validation needed for disabled mode
	case "server":
		return validateCertAndKeyRequired(tls, "server mode")
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled' or 'server')", tls.Mode)
	}
}

// validateCertAndKeyRequired checks that both certificate and key are provided
func validateCertAndKeyRequired(tls TLSConfig, mode string) error {
	if tls.CertFile == "" || tls.KeyFile == "" {
		return fmt.Errorf("TLS certificate and key files are required for %s", mode)
	}
	return nil
}

// validateClientTLS validates the TLS options used to reach the backend
func validateClientTLS(tls ClientTLSConfig) error {
	return validateTLSVersion(tls.MinVersion)
}

// validateTLSVersion validates the TLS version configuration
func validateTLSVersion(version string) error {
	switch version {
	case "", "1.2", "1.3":
		return nil // Valid versions (empty defaults to 1.2)
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", version)
	}
}

// TLSVersion maps a configured version string to the crypto/tls constant
func TLSVersion(version string) uint16 {
	if version == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// BuildClientTLSConfig returns the tls.Config used by the backend client
func (c ClientTLSConfig) BuildClientTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         TLSVersion(c.MinVersion),
		InsecureSkipVerify: c.InsecureSkipVerify, // #nosec G402 -- opt-in for local development
		ServerName:         c.ServerName,
	}

	if c.CAFile == "" {
		return tlsConfig, nil
	}

	caPEM, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file %s: %w", c.CAFile, err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in CA file %s", c.CAFile)
	}
	tlsConfig.RootCAs = pool

	return tlsConfig, nil
}

// BuildServerTLSConfig returns the tls.Config for the stub server, or nil when TLS is disabled
func (t TLSConfig) BuildServerTLSConfig() (*tls.Config, error) {
	if t.Mode != "server" {
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}

	return &tls.Config{
		MinVersion:   TLSVersion(t.MinVersion),
		Certificates: []tls.Certificate{cert},
	}, nil
}
