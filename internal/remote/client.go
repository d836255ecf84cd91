// Package remote is the HTTP client for the resume analysis backend.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumeassist/internal/config"
	"resumeassist/internal/errors"
	"resumeassist/internal/types"
)

// Backend endpoints
const (
	PathHealth      = "/"
	PathUpload      = "/upload"
	PathCompare     = "/compare"
	PathTailor      = "/tailor-resume"
	PathCoverLetter = "/generate-cover-letter"
	PathChat        = "/chatbot"
)

// Form field names understood by the backend
const (
	FieldResume         = "resume"
	FieldFirstResume    = "resume1"
	FieldSecondResume   = "resume2"
	FieldResumeText     = "resume_text"
	FieldJobDescription = "job_description"
	FieldMessage        = "message"
)

// RequestIDHeader carries a per-call identifier for log correlation
const RequestIDHeader = "X-Request-ID"

// maxResponseSize bounds how much of a response body is read
const maxResponseSize = 10 << 20

// Client talks to the backend over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    *Breaker
	logger     *errors.Logger
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransportWrapper decorates the client's transport, e.g. for tracing
func WithTransportWrapper(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(c *Client) {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.httpClient.Transport = wrap(base)
	}
}

// WithBreaker overrides the circuit breaker built from configuration
func WithBreaker(b *Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// NewClient creates a backend client from configuration
func NewClient(cfg config.BackendConfig, logger *errors.Logger, opts ...Option) (*Client, error) {
	if err := config.ValidateBaseURL(cfg.BaseURL); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Invalid backend configuration", err)
	}

	tlsConfig, err := cfg.TLS.BuildClientTLSConfig()
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Invalid backend TLS configuration", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	if logger == nil {
		logger = errors.NewNopLogger()
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		breaker: NewBreaker("api", cfg.CircuitBreaker, logger),
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerStats returns circuit breaker statistics
func (c *Client) BreakerStats() map[string]any {
	return c.breaker.GetStats()
}

// AnalyzeResume uploads one resume for scoring and feedback
func (c *Client) AnalyzeResume(ctx context.Context, req types.UploadRequest) (*types.AnalyzeResult, error) {
	if req.Resume == nil {
		return nil, missingInput("resume file is required")
	}
	sub := types.SubmissionRequest{
		Files: []types.Attachment{withField(*req.Resume, FieldResume)},
	}
	return post[types.AnalyzeResult](ctx, c, PathUpload, sub)
}

// CompareResumes uploads two resumes and asks which one is stronger
func (c *Client) CompareResumes(ctx context.Context, req types.CompareRequest) (*types.CompareResult, error) {
	if req.First == nil || req.Second == nil {
		return nil, missingInput("two resume files are required")
	}
	sub := types.SubmissionRequest{
		Files: []types.Attachment{
			withField(*req.First, FieldFirstResume),
			withField(*req.Second, FieldSecondResume),
		},
	}
	return post[types.CompareResult](ctx, c, PathCompare, sub)
}

// TailorResume asks the backend to rewrite resume text for a job posting
func (c *Client) TailorResume(ctx context.Context, req types.TailorRequest) (*types.TailorResult, error) {
	sub := types.SubmissionRequest{
		Fields: []types.Field{
			{Name: FieldResumeText, Value: req.ResumeText},
			{Name: FieldJobDescription, Value: req.JobDescription},
		},
	}
	return post[types.TailorResult](ctx, c, PathTailor, sub)
}

// GenerateCoverLetter asks the backend for a cover letter
func (c *Client) GenerateCoverLetter(ctx context.Context, req types.CoverLetterRequest) (*types.CoverLetterResult, error) {
	if req.Resume == nil {
		return nil, missingInput("resume file is required")
	}
	sub := types.SubmissionRequest{
		Files:  []types.Attachment{withField(*req.Resume, FieldResume)},
		Fields: []types.Field{{Name: FieldJobDescription, Value: req.JobDescription}},
	}
	return post[types.CoverLetterResult](ctx, c, PathCoverLetter, sub)
}

// Reply sends one chat message and returns the bot's answer
func (c *Client) Reply(ctx context.Context, message string) (string, error) {
	sub := types.SubmissionRequest{
		Fields: []types.Field{{Name: FieldMessage, Value: message}},
	}
	reply, err := post[types.ChatReply](ctx, c, PathChat, sub)
	if err != nil {
		return "", err
	}
	return reply.Response, nil
}

// Ping checks that the backend is up
func (c *Client) Ping(ctx context.Context) (*types.HealthStatus, error) {
	return call[types.HealthStatus](ctx, c, http.MethodGet, PathHealth, nil, "")
}

func withField(a types.Attachment, field string) types.Attachment {
	a.FieldName = field
	return a
}

func missingInput(msg string) *errors.AppError {
	return errors.NewValidationError(errors.ErrCodeMissingInput, msg, nil)
}

// post encodes the submission and decodes a T from the response
func post[T any](ctx context.Context, c *Client, path string, sub types.SubmissionRequest) (*T, error) {
	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, errors.NewTransportError(errors.ErrCodeRequestFailed, "Failed to encode request", err).
			WithContext("endpoint", path)
	}
	return call[T](ctx, c, http.MethodPost, path, body, contentType)
}

func call[T any](ctx context.Context, c *Client, method, path string, body []byte, contentType string) (*T, error) {
	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		req, err := c.newRequest(ctx, method, path, body, contentType, requestID)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &statusError{code: resp.StatusCode}
		}
		return resp, nil
	})

	var se *statusError
	if err != nil && !stderrors.As(err, &se) {
		if isOpen(err) {
			return nil, errors.NewTransportError(errors.ErrCodeCircuitOpen, "Backend temporarily unavailable", err).
				WithContext("endpoint", path)
		}
		c.logger.Debug("Backend request failed",
			"endpoint", path, "request_id", requestID, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return nil, errors.NewTransportError(errors.ErrCodeRequestFailed, "Backend request failed", err).
			WithContext("endpoint", path).
			WithContext("request_id", requestID)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("Failed to close response body", "endpoint", path, "error", cerr)
		}
	}()

	c.logger.Debug("Backend request completed",
		"endpoint", path, "request_id", requestID, "status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.NewTransportError(errors.ErrCodeRequestFailed, "Failed to read backend response", err).
			WithContext("endpoint", path).
			WithContext("request_id", requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, unexpectedStatus(path, requestID, resp.StatusCode, payload)
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, errors.NewServerError(errors.ErrCodeInvalidResponse, "Backend returned an unreadable response", err).
			WithContext("endpoint", path).
			WithContext("request_id", requestID)
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, contentType, requestID string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func unexpectedStatus(path, requestID string, status int, payload []byte) *errors.AppError {
	appErr := errors.NewServerError(errors.ErrCodeUnexpectedStatus,
		fmt.Sprintf("Backend answered %d %s", status, http.StatusText(status)), nil).
		WithContext("endpoint", path).
		WithContext("request_id", requestID).
		WithContext("status", status)

	var body types.ErrorResponse
	if json.Unmarshal(payload, &body) == nil && body.Error != "" {
		appErr.WithContext("backend_error", body.Error)
	}
	return appErr
}

// statusError marks a 5xx answer so the breaker counts it as a failure
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend status %d", e.code)
}

// encodeSubmission picks multipart when files are attached and JSON otherwise
func encodeSubmission(sub types.SubmissionRequest) ([]byte, string, error) {
	if !sub.IsMultipart() {
		body, err := json.Marshal(sub.FieldMap())
		if err != nil {
			return nil, "", err
		}
		return body, "application/json", nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range sub.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.FieldName), escapeQuotes(f.FileName)))
		mediaType := f.MediaType
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}
		header.Set("Content-Type", mediaType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}

	for _, field := range sub.Fields {
		if err := w.WriteField(field.Name, field.Value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
