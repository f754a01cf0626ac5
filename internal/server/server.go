// Package server provides the TalentFlow HTTP REST API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/emails"
	"github.com/jonathan/talentflow/internal/ingestion"
	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/scheduling"
	"github.com/jonathan/talentflow/internal/server/middleware"
	"github.com/jonathan/talentflow/internal/server/ratelimit"
	"github.com/jonathan/talentflow/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	log         *zap.Logger
	now         func() time.Time
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler

	engine      *ranking.Engine
	parallelism int
	scheduler   *scheduling.Scheduler
	renderer    *emails.Renderer
	uploads     *ingestion.Storage
	maxUpload   int64
	corsOrigins []string
}

// New builds the server and its services from cfg. The store is owned by the caller.
func New(cfg *config.Config, store Store, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	passwordConfig, err := config.NewPasswordConfig(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		store:       store,
		log:         log,
		now:         time.Now,
		jwtService:  NewJWTService(jwtConfig),
		parallelism: cfg.Ranking.Parallelism,
		scheduler:   scheduling.NewScheduler(cfg.SchedulingOptions()),
		renderer:    emails.NewRenderer(cfg.Company.Name),
		uploads:     &ingestion.Storage{Dir: cfg.Uploads.Dir},
		maxUpload:   cfg.Uploads.MaxBytes,
		corsOrigins: cfg.Server.CORSOrigins,
	}

	// Open experience ranges close at the server clock's current year.
	normalizer := ranking.DefaultNormalizer{Clock: func() time.Time { return s.now() }}
	if s.engine, err = ranking.NewEngine(cfg.RankingConfig(), ranking.WithNormalizer(normalizer)); err != nil {
		return nil, fmt.Errorf("failed to create ranking engine: %w", err)
	}
	s.authHandler = NewAuthHandler(NewUserService(store, passwordConfig), s.jwtService, log)

	limits := ratelimit.NewConfig(cfg.RateLimit.Enabled, cfg.RateLimit.DefaultLimit,
		cfg.RateLimit.Whitelist, cfg.RateLimit.Blacklist)
	s.rateLimiter = ratelimit.NewLimiter(limits)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second, // batch uploads are scored inline
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the full middleware chain and router.
func (s *Server) Handler() http.Handler {
	write := middleware.RequireRole(types.RoleAdmin, types.RoleRecruiter)

	api := http.NewServeMux()
	api.HandleFunc("GET /api/auth/me", s.authHandler.Me)
	api.HandleFunc("GET /api/dashboard/stats", s.handleDashboardStats)

	api.HandleFunc("GET /api/jobs", s.handleListJobs)
	api.Handle("POST /api/jobs", write(http.HandlerFunc(s.handleCreateJob)))
	api.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	api.Handle("PUT /api/jobs/{id}/status", write(http.HandlerFunc(s.handleUpdateJobStatus)))
	api.Handle("POST /api/jobs/{id}/upload-resumes", write(http.HandlerFunc(s.handleUploadResumes)))
	api.Handle("POST /api/jobs/{id}/rescore", write(http.HandlerFunc(s.handleRescoreJob)))
	api.HandleFunc("GET /api/jobs/{id}/ranking-summary", s.handleRankingSummary)
	api.HandleFunc("GET /api/jobs/{id}/export.xlsx", s.handleExportJob)

	api.HandleFunc("GET /api/candidates", s.handleListCandidates)
	api.HandleFunc("GET /api/candidates/{id}", s.handleGetCandidate)
	api.Handle("PUT /api/candidates/{id}/status", write(http.HandlerFunc(s.handleUpdateCandidateStatus)))

	api.HandleFunc("GET /api/interviews", s.handleListInterviews)
	api.HandleFunc("GET /api/interviews/slots", s.handleInterviewSlots)
	api.Handle("POST /api/interviews", write(http.HandlerFunc(s.handleScheduleInterview)))
	api.HandleFunc("PUT /api/interviews/{id}/response", s.handleInterviewResponse)

	api.Handle("POST /api/emails/send", write(http.HandlerFunc(s.handleSendEmail)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.Handle("/api/", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(api))

	return s.withLogging(s.withCORS(s.withRateLimit(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS allows the configured browser origins. "*" allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(s.corsOrigins, origin) || slices.Contains(s.corsOrigins, "*")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.log.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status. Internal errors are logged and not echoed.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body"}
	}
	return nil
}

// validate runs a request's struct validation.
func validate(req interface{ Validate() error }) error {
	if err := req.Validate(); err != nil {
		return &ErrValidation{Message: strings.TrimPrefix(extractValidationErrors(err), "validation error: ")}
	}
	return nil
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// extractClientID uses the RemoteAddr IP. Forwarded headers are not trusted.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		// round up so clients never retry early
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.log.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
