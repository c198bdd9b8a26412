package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "daytrack/internal/log"
	"daytrack/internal/metrics"
	"daytrack/internal/services"
	"daytrack/internal/store"
)

// Services bundles what the handlers call into. Snapshots may be nil.
type Services struct {
	Activities *services.ActivityService
	Ratings    *services.RatingService
	Categories *services.CategoryService
	Settings   *services.SettingsService
	Analytics  *services.AnalyticsService
	Snapshots  store.SnapshotStore
	Health     store.Pinger
}

// Options tunes the server. Zero values pick defaults.
type Options struct {
	RateLimitPerMinute int
	Today              services.Today
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	svc         Services
	today       services.Today
	logger      *applog.Logger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc Services, opts Options) *Server {
	if opts.Today == nil {
		opts.Today = services.SystemToday(time.Local)
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		svc:         svc,
		today:       opts.Today,
		logger:      opts.Logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(opts.RateLimitPerMinute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/activities", s.handleListActivities)
	mux.HandleFunc("POST /api/activities", s.handleCreateActivity)
	mux.HandleFunc("GET /api/activities/{id}", s.handleGetActivity)
	mux.HandleFunc("PATCH /api/activities/{id}", s.handleUpdateActivity)
	mux.HandleFunc("DELETE /api/activities/{id}", s.handleDeleteActivity)

	mux.HandleFunc("GET /api/ratings", s.handleListRatings)
	mux.HandleFunc("GET /api/ratings/{date}", s.handleGetRating)
	mux.HandleFunc("PUT /api/ratings/{date}", s.handleSetRating)
	mux.HandleFunc("DELETE /api/ratings/{date}", s.handleDeleteRating)

	mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/analytics/ranges", s.handleRanges)
	mux.HandleFunc("GET /api/analytics/overview", s.handleOverview)
	mux.HandleFunc("GET /api/analytics/weekly", s.handleWeekly)
	mux.HandleFunc("GET /api/snapshots", s.handleSnapshots)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleSaveSettings)

	requestIDOf := func(r *http.Request) string { return r.Header.Get(requestIDHeader) }
	s.Server = http.Server{
		Addr:              addr,
		Handler:           withRequestID(applog.Middleware(s.logger, requestIDOf)(s.withSecurityHeaders(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

const requestIDHeader = "X-Request-ID"

// withRequestID propagates a client supplied request id or assigns one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sanitizeInput(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 64 {
			id = generateRequestID()
		}
		r.Header.Set(requestIDHeader, id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// withSecurityHeaders adds security headers, rate limiting of mutating
// requests, request logging and metrics.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)
		setSecurityHeaders(w.Header())

		if detectSuspiciousRequest(r) {
			metrics.RecordSuspicious()
			applog.FromContext(ctx).WarnContext(ctx, "Suspicious request",
				applog.NewFields().WithClientIP(clientIP).
					WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()).ToSlice()...)
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP) {
			metrics.RecordRateLimited()
			rw.Header().Set("Retry-After", "60")
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(rw)
		} else {
			next.ServeHTTP(rw, r)
		}

		elapsed := time.Since(start)
		applog.LogHTTP(ctx, r, rw.statusCode, elapsed.Milliseconds(), clientIP)
		metrics.RecordHTTP(r.Pattern, r.Method, rw.statusCode, elapsed)
	})
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	wrote      bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wrote {
		rw.statusCode = code
		rw.wrote = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wrote = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.svc.Health.Ping(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
				applog.NewFields().WithError(err, applog.ErrorTypeDatabase).ToSlice()...)
			http.Error(w, "not ready: "+strings.TrimSpace(err.Error()), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
