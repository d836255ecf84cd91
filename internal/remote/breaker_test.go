package remote

import (
	"net/http"
	"testing"
	"time"

	"resumeassist/internal/config"
)

func TestBreakerDisabledIsNil(t *testing.T) {
	b := NewBreaker("api", config.CircuitBreakerConfig{Enabled: false}, nil)
	if b != nil {
		t.Fatal("Expected nil breaker when disabled")
	}

	// nil breaker runs the call directly
	called := false
	resp, err := b.Execute(func() (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: http.StatusOK}, nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !called || resp.StatusCode != http.StatusOK {
		t.Error("Expected the call to run through a nil breaker")
	}

	if !b.IsHealthy() {
		t.Error("Expected nil breaker to be healthy")
	}
	if enabled, _ := b.GetStats()["enabled"].(bool); enabled {
		t.Error("Expected stats to report a disabled breaker")
	}
}

func TestBreakerStats(t *testing.T) {
	b := NewBreaker("api", config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}, nil)

	stats := b.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "Backend-api" {
		t.Errorf("Expected circuit breaker name 'Backend-api', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	if !b.IsHealthy() {
		t.Error("Expected a fresh breaker to be healthy")
	}
}
