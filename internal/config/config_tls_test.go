package config

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateTLSMode tests the server TLS mode validation
func TestValidateTLSMode(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "disabled mode",
			tls: TLSConfig{
				Mode: "disabled",
			},
			expectError: false,
		},
		{
			name:        "empty mode is disabled",
			tls:         TLSConfig{},
			expectError: false,
		},
		{
			name: "server mode valid",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
				KeyFile:  "/path/to/key.pem",
			},
			expectError: false,
		},
		{
			name: "server mode missing key",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/path/to/cert.pem",
			},
			expectError: true,
			errorMsg:    "TLS certificate and key files are required for server mode",
		},
		{
			name: "server mode missing certificate",
			tls: TLSConfig{
				Mode:    "server",
				KeyFile: "/path/to/key.pem",
			},
			expectError: true,
			errorMsg:    "TLS certificate and key files are required for server mode",
		},
		{
			name: "mutual mode is not supported",
			tls: TLSConfig{
				Mode: "mutual",
			},
			expectError: true,
			errorMsg:    "invalid TLS mode: mutual",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLSMode(tt.tls)

			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidateTLSVersion tests the minimum version validation
func TestValidateTLSVersion(t *testing.T) {
	tests := []struct {
		version     string
		expectError bool
	}{
		{"", false},
		{"1.2", false},
		{"1.3", false},
		{"1.1", true},
		{"tls13", true},
	}

	for _, tt := range tests {
		t.Run("version_"+tt.version, func(t *testing.T) {
			err := validateTLSVersion(tt.version)
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid TLS minVersion")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTLSVersion(t *testing.T) {
	assert.Equal(t, uint16(tls.VersionTLS13), TLSVersion("1.3"))
	assert.Equal(t, uint16(tls.VersionTLS12), TLSVersion("1.2"))
	assert.Equal(t, uint16(tls.VersionTLS12), TLSVersion(""))
}

func TestBuildClientTLSConfig(t *testing.T) {
	t.Run("no CA file", func(t *testing.T) {
		cfg, err := ClientTLSConfig{MinVersion: "1.3", InsecureSkipVerify: true}.BuildClientTLSConfig()
		require.NoError(t, err)
		assert.Equal(t, uint16(tls.VersionTLS13), cfg.MinVersion)
		assert.True(t, cfg.InsecureSkipVerify)
		assert.Nil(t, cfg.RootCAs)
	})

	t.Run("missing CA file", func(t *testing.T) {
		_, err := ClientTLSConfig{CAFile: filepath.Join(t.TempDir(), "missing.pem")}.BuildClientTLSConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read CA file")
	})

	t.Run("CA file without certificates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0600))

		_, err := ClientTLSConfig{CAFile: path}.BuildClientTLSConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no certificates found")
	})
}

func TestBuildServerTLSConfigDisabled(t *testing.T) {
	cfg, err := TLSConfig{Mode: "disabled"}.BuildServerTLSConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)
}
