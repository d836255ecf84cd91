package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeassist/internal/config"
	"resumeassist/internal/errors"
	"resumeassist/internal/types"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.BackendConfig{BaseURL: srv.URL, UserAgent: "resumeassist-test"}, errors.NewNopLogger(), opts...)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func resumeAttachment(name string) *types.Attachment {
	return &types.Attachment{FileName: name, Content: []byte("resume body of " + name), MediaType: "application/pdf"}
}

func requireAppError(t *testing.T, err error, typ errors.ErrorType, code string) *errors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	assert.Equal(t, typ, appErr.Type)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestAnalyzeResumeSendsMultipart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathUpload, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		assert.Equal(t, "resumeassist-test", r.UserAgent())

		file, header, err := r.FormFile(FieldResume)
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)

		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		assert.Equal(t, "resume body of cv.pdf", string(content))

		writeJSON(t, w, http.StatusOK, map[string]any{
			"score":           82,
			"ats_score":       75,
			"strengths":       []string{"Clear layout"},
			"fix_suggestions": []string{"Add metrics"},
		})
	}))

	result, err := client.AnalyzeResume(context.Background(), types.UploadRequest{Resume: resumeAttachment("cv.pdf")})
	require.NoError(t, err)
	assert.Equal(t, &types.AnalyzeResult{
		Score:          82,
		ATSScore:       75,
		Strengths:      []string{"Clear layout"},
		FixSuggestions: []string{"Add metrics"},
	}, result)
}

func TestCompareResumesSendsBothFiles(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathCompare, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Len(t, r.MultipartForm.File[FieldFirstResume], 1)
		require.Len(t, r.MultipartForm.File[FieldSecondResume], 1)
		assert.Equal(t, "a.pdf", r.MultipartForm.File[FieldFirstResume][0].Filename)
		assert.Equal(t, "b.pdf", r.MultipartForm.File[FieldSecondResume][0].Filename)

		writeJSON(t, w, http.StatusOK, types.CompareResult{
			BestResume:   "Resume 1",
			BestScore:    88,
			ATSScore:     80,
			Improvements: []string{"Resume 2: Add a summary"},
		})
	}))

	result, err := client.CompareResumes(context.Background(), types.CompareRequest{
		First:  resumeAttachment("a.pdf"),
		Second: resumeAttachment("b.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Resume 1", result.BestResume)
	assert.Equal(t, 88, result.BestScore)
	assert.Equal(t, []string{"Resume 2: Add a summary"}, result.Improvements)
}

func TestTailorResumeSendsJSON(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathTailor, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{
			FieldResumeText:     "Go engineer",
			FieldJobDescription: "Senior Go role",
		}, body)

		writeJSON(t, w, http.StatusOK, types.TailorResult{TailoredResume: "Senior Go engineer"})
	}))

	result, err := client.TailorResume(context.Background(), types.TailorRequest{
		ResumeText:     "Go engineer",
		JobDescription: "Senior Go role",
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", result.TailoredResume)
}

func TestGenerateCoverLetterSendsFileAndField(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathCoverLetter, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Platform engineer", r.FormValue(FieldJobDescription))
		require.Len(t, r.MultipartForm.File[FieldResume], 1)

		writeJSON(t, w, http.StatusOK, types.CoverLetterResult{CoverLetter: "Dear hiring manager"})
	}))

	result, err := client.GenerateCoverLetter(context.Background(), types.CoverLetterRequest{
		Resume:         resumeAttachment("cv.pdf"),
		JobDescription: "Platform engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear hiring manager", result.CoverLetter)
}

func TestReply(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathChat, r.URL.Path)
		var body types.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Message)

		writeJSON(t, w, http.StatusOK, types.ChatReply{Response: "Hi there"})
	}))

	reply, err := client.Reply(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
}

func TestPing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		writeJSON(t, w, http.StatusOK, types.HealthStatus{Message: "Backend is running!"})
	}))

	status, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Backend is running!", status.Message)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    string
	}{
		{
			name: "client error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"No file uploaded"}`))
			},
			code: errors.ErrCodeUnexpectedStatus,
		},
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			code: errors.ErrCodeUnexpectedStatus,
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
			code: errors.ErrCodeInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			result, err := client.AnalyzeResume(context.Background(), types.UploadRequest{Resume: resumeAttachment("cv.pdf")})
			assert.Nil(t, result)
			requireAppError(t, err, errors.ErrorTypeServer, tt.code)
		})
	}
}

func TestBackendErrorBodyIsKeptInContext(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, types.ErrorResponse{Error: "No file uploaded"})
	}))

	_, err := client.AnalyzeResume(context.Background(), types.UploadRequest{Resume: resumeAttachment("cv.pdf")})
	appErr := requireAppError(t, err, errors.ErrorTypeServer, errors.ErrCodeUnexpectedStatus)
	assert.Equal(t, "No file uploaded", appErr.Context["backend_error"])
	assert.Equal(t, http.StatusBadRequest, appErr.Context["status"])
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: baseURL}, nil)
	require.NoError(t, err)

	result, err := client.AnalyzeResume(context.Background(), types.UploadRequest{Resume: resumeAttachment("cv.pdf")})
	assert.Nil(t, result)
	requireAppError(t, err, errors.ErrorTypeTransport, errors.ErrCodeRequestFailed)
}

func TestCanceledContextIsTransportError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, types.ChatReply{Response: "late"})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Reply(ctx, "hello")
	requireAppError(t, err, errors.ErrorTypeTransport, errors.ErrCodeRequestFailed)
}

func TestMissingAttachmentsAreValidationErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.AnalyzeResume(context.Background(), types.UploadRequest{})
	requireAppError(t, err, errors.ErrorTypeValidation, errors.ErrCodeMissingInput)

	_, err = client.CompareResumes(context.Background(), types.CompareRequest{First: resumeAttachment("a.pdf")})
	requireAppError(t, err, errors.ErrorTypeValidation, errors.ErrCodeMissingInput)

	_, err = client.GenerateCoverLetter(context.Background(), types.CoverLetterRequest{JobDescription: "x"})
	requireAppError(t, err, errors.ErrorTypeValidation, errors.ErrCodeMissingInput)

	assert.Equal(t, int32(0), calls.Load())
}

func TestCircuitBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	breaker := NewBreaker("test", config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}, nil)
	client := newTestClient(t, handler, WithBreaker(breaker))

	for range 2 {
		_, err := client.Reply(context.Background(), "hello")
		requireAppError(t, err, errors.ErrorTypeServer, errors.ErrCodeUnexpectedStatus)
	}
	assert.False(t, breaker.IsHealthy())

	_, err := client.Reply(context.Background(), "hello")
	requireAppError(t, err, errors.ErrorTypeTransport, errors.ErrCodeCircuitOpen)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the backend")
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	_, err := NewClient(config.BackendConfig{BaseURL: "localhost:5000"}, nil)
	requireAppError(t, err, errors.ErrorTypeConfig, errors.ErrCodeInvalidConfig)
}

func TestWithTransportWrapper(t *testing.T) {
	var wrapped atomic.Bool
	client := newTestClient(t,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, types.HealthStatus{Message: "ok"})
		}),
		WithTransportWrapper(func(base http.RoundTripper) http.RoundTripper {
			return roundTripFunc(func(r *http.Request) (*http.Response, error) {
				wrapped.Store(true)
				return base.RoundTrip(r)
			})
		}),
	)

	_, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.True(t, wrapped.Load())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
