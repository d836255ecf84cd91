package server

import (
	"net/http"
	"slices"
	"strings"

	"resumeassist/internal/observability"
	"resumeassist/internal/remote"
)

// Handler returns the full handler chain: routes, CORS and tracing
func (s *Server) Handler(om *observability.ObservabilityManager) http.Handler {
	if om == nil {
		om = observability.NewDisabledManager()
	}
	return om.HTTPMiddleware()(s.corsMiddleware(s.setupRoutes(om)))
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.rateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()
	api := func(route string, h http.HandlerFunc) http.HandlerFunc {
		return s.countRequests(om, route, rateLimitHandler(requestLimitHandler(h)))
	}

	mux.HandleFunc("GET "+remote.PathHealth+"{$}", s.countRequests(om, "/", s.rootHandler))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	if h := om.MetricsHandler(); h != nil {
		mux.Handle("GET /metrics", h)
	}

	mux.HandleFunc("POST "+remote.PathUpload, api(remote.PathUpload, s.createUploadHandler(om)))
	mux.HandleFunc("POST "+remote.PathCompare, api(remote.PathCompare, s.createCompareHandler(om)))
	mux.HandleFunc("POST "+remote.PathTailor, api(remote.PathTailor, s.createTailorHandler(om)))
	mux.HandleFunc("POST "+remote.PathCoverLetter, api(remote.PathCoverLetter, s.createCoverLetterHandler(om)))
	mux.HandleFunc("POST "+remote.PathChat, api(remote.PathChat, s.createChatHandler(om)))

	return mux
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// corsMiddleware lets the browser front-end call the API from its own origin
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+remote.RequestIDHeader)
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return slices.ContainsFunc(s.AllowedOrigins, func(allowed string) bool {
		return allowed == "*" || strings.EqualFold(allowed, origin)
	})
}

// countRequests records the status of every answered API request
func (s *Server) countRequests(om *observability.ObservabilityManager, route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next(wrapper, r)

		om.RecordStubRequest(r.Context(), route, wrapper.statusCode)
		s.Logger.Debug("Stub request served",
			"route", route,
			"status", wrapper.statusCode,
			"request_id", r.Header.Get(remote.RequestIDHeader))
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
