// Package server provides the local dashboard API over the client stores.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/talentmatrix/internal/server/ratelimit"
	"github.com/jonathan/talentmatrix/internal/store"
	"github.com/jonathan/talentmatrix/internal/types"
)

// Settings persists UI preferences.
type Settings interface {
	Theme(ctx context.Context) (types.Theme, error)
	SetTheme(ctx context.Context, theme types.Theme) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	settings    Settings
	logger      *slog.Logger
	rateLimiter *ratelimit.Limiter
	handler     http.Handler
}

// Config holds server configuration
type Config struct {
	Port      int
	Store     *store.Store
	Settings  Settings
	Logger    *slog.Logger
	RateLimit *ratelimit.Config // nil uses ratelimit.DefaultConfig
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if cfg.Settings == nil {
		return nil, errors.New("server: settings are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:       cfg.Store,
		settings:    cfg.Settings,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Profile endpoints
	mux.HandleFunc("GET /profile", s.requireSession(s.handleGetProfile))
	mux.HandleFunc("POST /profile/refresh", s.requireSession(s.handleRefreshProfile))
	mux.HandleFunc("PUT /profile", s.requireSession(s.handleUpdateProfile))
	mux.HandleFunc("POST /profile/semesters", s.requireSession(s.handleAddSemester))
	mux.HandleFunc("POST /skills", s.requireSession(s.handleAddSkill))
	mux.HandleFunc("DELETE /skills/{id}", s.requireSession(s.handleDeleteSkill))
	mux.HandleFunc("POST /projects", s.requireSession(s.handleAddProject))
	mux.HandleFunc("DELETE /projects/{id}", s.requireSession(s.handleDeleteProject))

	// Job endpoints
	mux.HandleFunc("GET /jobs", s.requireSession(s.handleGetJobs))
	mux.HandleFunc("POST /jobs/search", s.requireSession(s.handleSearchJobs))
	mux.HandleFunc("POST /applied-jobs", s.requireSession(s.handleSaveJob))
	mux.HandleFunc("GET /applied-jobs", s.requireSession(s.handleListAppliedJobs))

	// Resume scan endpoints
	mux.HandleFunc("GET /resume", s.requireSession(s.handleGetResume))
	mux.HandleFunc("POST /resume/scan", s.requireSession(s.handleScanResume))
	mux.HandleFunc("POST /resume/raw", s.requireSession(s.handleToggleRaw))
	mux.HandleFunc("POST /resume/apply", s.requireSession(s.handleApplySkills))

	// Books and analysis
	mux.HandleFunc("GET /books", s.requireSession(s.handleBooks))
	mux.HandleFunc("GET /analysis/companies", s.requireSession(s.handleCompanies))
	mux.HandleFunc("POST /analysis/career", s.requireSession(s.handleAnalyzeCareer))
	mux.HandleFunc("POST /analysis/company", s.requireSession(s.handleAnalyzeCompany))

	mux.HandleFunc("GET /events", s.requireSession(s.handleEvents))
	mux.HandleFunc("POST /logout", s.handleLogout)

	// Settings work without a session
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings/theme", s.handleSetTheme)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     s.handler,
		ReadTimeout: 30 * time.Second,
		// No write timeout: /events streams for as long as the client stays.
		IdleTimeout: 60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE working through the logging wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}

// requireSession rejects dashboard requests made without a stored login.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.store.Session.LoggedIn() {
			s.errorResponse(w, http.StatusUnauthorized, NotLoggedInMessage)
			return
		}
		next(w, r)
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"logged_in": s.store.Session.LoggedIn(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// storeError maps a store error to its status and message.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", "status", status, "error", err)
	}
	s.errorResponse(w, status, ErrorMessage(err))
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// extractClientID extracts the client identifier from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		"path", r.URL.Path,
		"limit", info.Limit,
		"reset", info.ResetTime.Format(time.RFC3339),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
