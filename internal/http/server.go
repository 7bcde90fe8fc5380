// Package http exposes the JSON API and serves the embedded browser client.
package http

import (
	"context"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/storage"
	appweb "fintrack/web"
)

// Server wires the API routes, the middleware chain and the embedded
// single-page client around an http.Server.
type Server struct {
	http.Server

	repo       *storage.Repository
	sessionTTL time.Duration
	limiter    *rateLimiter

	shutdownOnce sync.Once
}

// Options configures a Server beyond its storage handle.
type Options struct {
	Addr               string
	SessionTTL         time.Duration
	RateLimitPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(repo *storage.Repository, opts Options) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 60
	}

	mux := http.NewServeMux()
	s := &Server{
		repo:       repo,
		sessionTTL: opts.SessionTTL,
		limiter:    newRateLimiter(opts.RateLimitPerMinute),
	}

	// Auth routes issue the tokens everything else requires.
	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	// Expense CRUD, all owner-scoped.
	mux.HandleFunc("POST /api/expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("GET /api/expenses/{id}", s.requireAuth(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	// Budget for the server-computed current month.
	mux.HandleFunc("POST /api/budget", s.requireAuth(s.handleUpsertBudget))
	mux.HandleFunc("GET /api/budget/current", s.requireAuth(s.handleGetCurrentBudget))

	// Derived monthly summary.
	mux.HandleFunc("GET /api/summary/monthly", s.requireAuth(s.handleMonthlySummary))

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /healthz", handleLiveness)
	mux.HandleFunc("GET /readyz", s.handleReadiness)

	// Embedded single-page client.
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		mux.Handle("GET /", http.FileServer(http.FS(sub)))
	}

	s.Server = http.Server{
		Addr:    opts.Addr,
		Handler: s.withRequestLog(s.withRateLimit(mux)),
	}

	return s
}

// Shutdown stops the rate limiter's cleanup goroutine and then shuts the
// HTTP server down gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope("message", "Server is running"))
}

func handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
