// Package server wires the HTTP surface: interview and career endpoints,
// health probes, the MCP transport and the static client.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Sweeper evicts idle sessions
type Sweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) int
	ActiveSessions() int
}

// Manager is the interview service as seen by the server
type Manager interface {
	InterviewService
	Sweeper
}

// Config holds server-specific configuration.
type Config struct {
	Port           int
	StaticDir      string
	AllowedOrigins []string
	SessionTTL     time.Duration // 0 disables the janitor
	SweepInterval  time.Duration
	Version        string
}

// Deps are the services the server routes to
type Deps struct {
	Interviews Manager
	Advisor    CareerAdvisor
	Archive    ReadinessChecker // Optional
	MCP        http.Handler     // Optional
	Logger     *slog.Logger     // Optional
}

// Server is the HTTP front of the service
type Server struct {
	cfg     Config
	deps    Deps
	logger  *slog.Logger
	handler http.Handler
}

// New builds the router
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	s := &Server{cfg: cfg, deps: deps, logger: deps.Logger}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
		MaxAge:         300,
	}))

	health := &HealthHandler{
		version: s.cfg.Version,
		archive: s.deps.Archive,
		logger:  s.logger,
	}
	if s.deps.Interviews != nil {
		health.sessions = s.deps.Interviews.ActiveSessions
	}
	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if s.deps.Interviews != nil {
		RegisterInterviewRoutes(r, NewInterviewHandler(s.deps.Interviews, s.logger))
	}
	if s.deps.Advisor != nil {
		RegisterCareerRoutes(r, NewCareerHandler(s.deps.Advisor, s.logger))
	}
	if s.deps.MCP != nil {
		r.Handle("/mcp", s.deps.MCP)
	}

	if s.cfg.StaticDir != "" {
		if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
		} else {
			s.logger.Warn("static directory not found, client will not be served",
				"static_dir", s.cfg.StaticDir,
			)
		}
	}

	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.runJanitor(janitorCtx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "starting HTTP server",
			"port", s.cfg.Port,
			"endpoints", []string{"/interview", "/api/career", "/suggest", "/career-ai", "/mcp", "/health"},
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.InfoContext(ctx, "shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// runJanitor sweeps idle sessions until ctx is done
func (s *Server) runJanitor(ctx context.Context) {
	if s.cfg.SessionTTL <= 0 || s.deps.Interviews == nil {
		return
	}

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.deps.Interviews.Sweep(ctx, s.cfg.SessionTTL); n > 0 {
				s.logger.InfoContext(ctx, "evicted idle sessions",
					"count", n,
					"ttl", s.cfg.SessionTTL,
				)
			}
		}
	}
}

// requestLogger logs each request through slog
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
