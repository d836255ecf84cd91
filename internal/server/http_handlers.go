package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"resumeassist/internal/observability"
	"resumeassist/internal/remote"
	"resumeassist/internal/types"
)

// defaultMultipartMemory mirrors net/http's default for ParseMultipartForm
const defaultMultipartMemory = 32 << 20

// rootHandler answers the liveness message the front-end checks
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthStatus{Message: "Backend is running!"})
}

// healthHandler reports service status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "resumeassist-stub",
		"version": s.Version,
	})
}

// statsHandler reports server and rate limiter configuration
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumeassist-stub",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"allowed_origins":        s.AllowedOrigins,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// createUploadHandler answers resume feedback for the "resume" file
func (s *Server) createUploadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := om.Tracer("resumeassist.stub").Start(r.Context(), "stub.upload")
		defer span.End()

		if !s.parseMultipart(w, r) {
			return
		}
		header, ok := formFile(r, remote.FieldResume)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "No file uploaded", "", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("file.name", header.Filename),
			attribute.Int64("file.size", header.Size),
		)

		result := s.Fixtures.Analyze
		result.Message = fmt.Sprintf("Received file: %s", header.Filename)
		writeJSON(w, http.StatusOK, result)
	}
}

// createCompareHandler answers the comparison of "resume1" and "resume2"
func (s *Server) createCompareHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := om.Tracer("resumeassist.stub").Start(r.Context(), "stub.compare")
		defer span.End()

		if !s.parseMultipart(w, r) {
			return
		}
		_, first := formFile(r, remote.FieldFirstResume)
		_, second := formFile(r, remote.FieldSecondResume)
		if !first || !second {
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Two resumes are required", "resume1 and resume2 files are required", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, s.Fixtures.Compare)
	}
}

// createTailorHandler answers a tailored resume for JSON text input
func (s *Server) createTailorHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := om.Tracer("resumeassist.stub").Start(r.Context(), "stub.tailor")
		defer span.End()

		var req types.TailorRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), statusForBodyError(err))
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			writeErrorResponse(w, "Missing resume text", "resume_text field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			writeErrorResponse(w, "Missing job description", "job_description field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.Int("request.job_length", len(req.JobDescription)),
		)

		writeJSON(w, http.StatusOK, s.Fixtures.Tailor)
	}
}

// createCoverLetterHandler answers a cover letter for a resume file and a job description field
func (s *Server) createCoverLetterHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := om.Tracer("resumeassist.stub").Start(r.Context(), "stub.cover_letter")
		defer span.End()

		if !s.parseMultipart(w, r) {
			return
		}
		if _, ok := formFile(r, remote.FieldResume); !ok {
			writeErrorResponse(w, "No file uploaded", "", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(r.FormValue(remote.FieldJobDescription)) == "" {
			writeErrorResponse(w, "Missing job description", "job_description field is required", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, s.Fixtures.CoverLetter)
	}
}

// createChatHandler answers one chat message
func (s *Server) createChatHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := om.Tracer("resumeassist.stub").Start(r.Context(), "stub.chatbot")
		defer span.End()

		var req types.ChatRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), statusForBodyError(err))
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeErrorResponse(w, "Missing message", "message field is required", http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusOK, types.ChatReply{Response: s.Fixtures.ChatReply(req.Message)})
	}
}

// parseMultipart parses a multipart body, writing the error response itself
// when that fails
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	maxMemory := int64(defaultMultipartMemory)
	if s.MaxRequestSize > 0 && s.MaxRequestSize < maxMemory {
		maxMemory = s.MaxRequestSize
	}

	err := r.ParseMultipartForm(maxMemory)
	switch {
	case err == nil:
		return true
	case errors.Is(err, http.ErrNotMultipart):
		// a non-multipart body counts as a missing file
		writeErrorResponse(w, "No file uploaded", "multipart/form-data body required", http.StatusBadRequest)
	default:
		writeErrorResponse(w, "Invalid request body", err.Error(), statusForBodyError(err))
	}
	return false
}

func formFile(r *http.Request, field string) (*multipart.FileHeader, bool) {
	if r.MultipartForm == nil {
		return nil, false
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, false
	}
	return files[0], true
}

func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes): %w", maxBytesErr.Limit, err)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func statusForBodyError(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
