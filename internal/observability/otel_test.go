package observability

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeassist/internal/config"
	"resumeassist/internal/errors"
)

func newTestManager(t *testing.T) *ObservabilityManager {
	t.Helper()
	om, err := NewObservabilityManager(ObservabilityConfig{
		ServiceName:    "resumeassist-test",
		ServiceVersion: "test",
		Enabled:        true,
		SampleRate:     1.0,
		Prometheus:     PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om
}

func scrape(t *testing.T, om *ObservabilityManager) string {
	t.Helper()
	require.NotNil(t, om.MetricsHandler())
	rec := httptest.NewRecorder()
	om.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestTrackSubmissionRecordsMetrics(t *testing.T) {
	om := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, om.TrackSubmission(ctx, "upload", func(context.Context) error { return nil }))

	failure := errors.NewTransportError(errors.ErrCodeRequestFailed, "down", nil)
	err := om.TrackSubmission(ctx, "upload", func(context.Context) error { return failure })
	assert.Same(t, failure, err, "the tracked error is returned unchanged")

	om.RecordChatMessage(ctx, true)
	om.RecordRateLimitHit(ctx, "/upload")
	om.RecordStubRequest(ctx, "/upload", http.StatusOK)

	body := scrape(t, om)
	assert.Contains(t, body, "resumeassist_submissions_total")
	assert.Contains(t, body, "resumeassist_submission_duration_seconds")
	assert.Contains(t, body, `error_type="transport"`)
	assert.Contains(t, body, "resumeassist_chat_messages_total")
	assert.Contains(t, body, "resumeassist_rate_limit_hits_total")
	assert.Contains(t, body, "resumeassist_stub_requests_total")
}

func TestDisabledManagerIsNoop(t *testing.T) {
	om := NewDisabledManager()
	assert.False(t, om.Enabled())
	assert.Nil(t, om.MetricsHandler())

	sentinel := stderrors.New("boom")
	err := om.TrackSubmission(context.Background(), "compare", func(context.Context) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
	om.RecordChatMessage(context.Background(), false)

	base := http.DefaultTransport
	assert.Equal(t, base, om.HTTPTransport(base))

	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, om.HTTPMiddleware()(h))
	require.NoError(t, om.Shutdown(context.Background()))
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "svc"
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Prometheus.Enabled = true
	cfg.Observability.Prometheus.Endpoint = "/metrics"

	got := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "1.2.3", got.ServiceVersion, "app version fills an empty service version")
	assert.True(t, got.Prometheus.Enabled)

	cfg.Observability.Metrics.Enabled = false
	assert.False(t, GetObservabilityConfig(cfg, "1.2.3").Prometheus.Enabled)

	assert.Equal(t, "resumeassist", GetObservabilityConfig(nil, "dev").ServiceName)
}
