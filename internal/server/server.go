package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ritikiit/careergps1/internal/export"
	"github.com/ritikiit/careergps1/internal/logging"
	"github.com/ritikiit/careergps1/internal/pipeline"
	"github.com/ritikiit/careergps1/internal/rendering"
	"github.com/ritikiit/careergps1/internal/server/middleware"
	"github.com/ritikiit/careergps1/internal/server/ratelimit"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "careergps_session"

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	logger          *zap.Logger
	generator       pipeline.ReportGenerator
	projector       *rendering.Projector
	renderer        export.Renderer
	sessions        *SessionStore
	rateLimiter     *ratelimit.Limiter
	jwtService      *JWTService
	allowedOrigin   string
	shutdownTimeout time.Duration
}

// Config holds server configuration
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	SessionSecret   string
	SessionTTL      time.Duration
	SecureCookies   bool
	AllowedOrigin   string
	// SettleDelay is passed to every session controller.
	SettleDelay time.Duration
	// RateLimit nil disables rate limiting.
	RateLimit *ratelimit.Config
}

// Dependencies are the components shared by all sessions.
type Dependencies struct {
	Generator pipeline.ReportGenerator
	Projector *rendering.Projector
	Renderer  export.Renderer
	Logger    *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Generator == nil || deps.Projector == nil || deps.Renderer == nil {
		return nil, fmt.Errorf("generator, projector and renderer are required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}

	jwtService, err := NewJWTService(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger:          logging.OrNop(deps.Logger),
		generator:       deps.Generator,
		projector:       deps.Projector,
		renderer:        deps.Renderer,
		jwtService:      jwtService,
		allowedOrigin:   cfg.AllowedOrigin,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	rateCfg := cfg.RateLimit
	if rateCfg == nil {
		rateCfg = &ratelimit.Config{Enabled: false}
	}
	s.rateLimiter = ratelimit.NewLimiter(rateCfg)

	s.sessions = NewSessionStore(cfg.SessionTTL, func() *pipeline.Controller {
		return pipeline.NewController(s.generator, s.projector, s.renderer, pipeline.ControllerOptions{
			SettleDelay: cfg.SettleDelay,
			Logger:      s.logger,
		})
	})

	session := middleware.Session(jwtService.AsTokenService(), middleware.CookieOptions{
		Name:   SessionCookie,
		MaxAge: cfg.SessionTTL,
		Secure: cfg.SecureCookies,
	})

	// Browser routes carry a session cookie
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", session(http.HandlerFunc(s.handlePage)))
	mux.Handle("POST /report", session(http.HandlerFunc(s.handleSubmit)))
	mux.Handle("POST /report/reset", session(http.HandlerFunc(s.handleReset)))
	mux.Handle("GET /report/print", session(http.HandlerFunc(s.handlePrint)))
	mux.Handle("GET /report/pdf", session(http.HandlerFunc(s.handleDownload)))

	// Stateless JSON API
	api := http.NewServeMux()
	api.HandleFunc("POST /api/report", s.handleAPIReport)
	api.HandleFunc("POST /api/report/pdf", s.handleAPIReportPDF)
	mux.Handle("/api/", s.withCORS(api))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = s.withRateLimit(s.withLogging(mux))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout, // Long timeout for model calls and exports
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	stopSweeper := make(chan struct{})
	defer close(stopSweeper)
	go s.sessions.RunSweeper(time.Minute, stopSweeper)
	defer s.rateLimiter.Stop()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
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
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
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
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is not trusted.
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
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset_at", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
