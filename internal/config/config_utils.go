package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// applyFallbacks fills values that depend on the environment
func (c *Config) applyFallbacks() {
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	c.applyPreferenceDefaults()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyPreferenceDefaults resolves the preference file location
func (c *Config) applyPreferenceDefaults() {
	if c.Preferences.Path != "" {
		return
	}
	name := "preferences.json"
	if c.Preferences.Backend == PreferenceBackendSQLite {
		name = "preferences.db"
	}
	c.Preferences.Path = filepath.Join(DefaultDataDir(), name)
}

// DefaultDataDir returns the per-user directory holding local state
func DefaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".resumeassist")
	}
	return ".resumeassist"
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
	if c.Backend.TLS.MinVersion == "" {
		c.Backend.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	// Try to get hostname, fallback to default
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		EnvPrefix + "_CONFIG",
		EnvPrefix + "_BACKEND_BASEURL",
		EnvPrefix + "_BACKEND_TIMEOUT",
		EnvPrefix + "_PREFERENCES_BACKEND",
		EnvPrefix + "_PREFERENCES_PATH",
		EnvPrefix + "_SERVER_PORT",
		EnvPrefix + "_SERVER_HOST",
		EnvPrefix + "_APP_LOGLEVEL",
		EnvPrefix + "_APP_LOGFILE",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			log.Printf("[CONFIG]   %s=%s", envVar, value)
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Backend URL: %s", c.Backend.BaseURL)
	log.Printf("[CONFIG] Backend Timeout: %s", c.Backend.Timeout)
	log.Printf("[CONFIG] Circuit Breaker Enabled: %t", c.Backend.CircuitBreaker.Enabled)
	log.Printf("[CONFIG] Preferences: %s (%s)", c.Preferences.Backend, c.Preferences.Path)
	log.Printf("[CONFIG] Server: %s:%s (TLS %s)", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
