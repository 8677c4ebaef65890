// Package http serves the dashboard API and the embedded SPA shell.
package http

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"finplan/internal/cache"
	"finplan/internal/config"
	"finplan/internal/ledger"
	"finplan/internal/log"
	"finplan/internal/middleware/ratelimit"
	"finplan/internal/middleware/security"
	"finplan/internal/middleware/trace"
	"finplan/internal/remote"
	"finplan/internal/services"
	"finplan/internal/session"
)

const (
	baselineCacheKey = "baseline"
	// Remote summary results are cached briefly so a dashboard refresh
	// storm does not hammer the collaborator. Statement processing runs in
	// the worker binary, so staleness is bounded by this TTL.
	baselineCacheTTL = 30 * time.Second
)

// BaselineFetcher pulls the remote category summary.
type BaselineFetcher interface {
	FetchBaseline(ctx context.Context) remote.BaselineResult
}

// Server wires handlers, middleware and the HTTP listener.
type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	expenses *services.ExpenseService
	uploads  *services.UploadService
	sessions *session.Store
	fetcher  BaselineFetcher
	lister   ledger.ExpenseLister
	baseline ledger.BaselineStore

	baselineCache *cache.LRUCache[remote.BaselineResult]
	cacheManager  *cache.Manager
	limiter       *ratelimit.Limiter

	httpServer *http.Server
}

// Deps carries the server's collaborators.
type Deps struct {
	Expenses *services.ExpenseService
	Uploads  *services.UploadService
	Sessions *session.Store
	Fetcher  BaselineFetcher
	Lister   ledger.ExpenseLister
	Baseline ledger.BaselineStore
	StaticFS fs.FS
}

func NewServer(cfg *config.Config, deps Deps, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		cfg:           cfg,
		logger:        logger.WithComponent(log.ComponentHTTP),
		expenses:      deps.Expenses,
		uploads:       deps.Uploads,
		sessions:      deps.Sessions,
		fetcher:       deps.Fetcher,
		lister:        deps.Lister,
		baseline:      deps.Baseline,
		baselineCache: cache.NewLRUCache[remote.BaselineResult](1, baselineCacheTTL),
		cacheManager:  cache.NewManager(),
		limiter:       ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	s.cacheManager.Register(s.baselineCache)
	s.cacheManager.StartCleanup(time.Minute)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           s.routes(deps.StaticFS),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}
	return s
}

func (s *Server) routes(staticFS fs.FS) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/session", s.handleLogin)
	mux.HandleFunc("DELETE /api/session", s.handleLogout)

	mux.Handle("GET /api/overview", s.requireSession(s.handleOverview))
	mux.Handle("POST /api/expenses", s.requireSession(s.handleCreateExpense))
	mux.Handle("GET /api/expenses", s.requireSession(s.handleListExpenses))
	mux.Handle("POST /api/statements", s.requireSession(s.handleUploadStatement))
	mux.Handle("GET /api/statements", s.requireSession(s.handleListStatements))

	if staticFS != nil {
		mux.Handle("/", http.FileServer(http.FS(staticFS)))
	}

	resolver := security.NewIPResolver()
	traceMW := trace.NewMiddleware(resolver.ExtractClientIP, s.logger)
	headersMW := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limitMW := s.limiter.Middleware(resolver.ExtractClientIP)

	var handler http.Handler = mux
	handler = limitMW(handler)
	handler = headersMW.Middleware(handler)
	handler = traceMW.Middleware(handler)
	handler = log.Middleware(s.logger)(handler)
	return handler
}

// requireSession gates a handler behind a valid session cookie.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		if _, err := s.sessions.Validate(cookie.Value); err != nil {
			writeError(w, http.StatusUnauthorized, "session expired or invalid")
			return
		}
		next(w, r)
	})
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening",
		log.FieldOperation, log.OpStartup,
		"addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops background loops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	s.cacheManager.Stop()
	s.limiter.Shutdown()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the full middleware chain, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
