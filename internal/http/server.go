// Package http serves the finance tracker's JSON API and its browser client.
package http

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	applog "fintrack/internal/log"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	appweb "fintrack/web"
)

// Server is the API server. It keeps no state of its own beyond the backend.
type Server struct {
	http.Server
	backend Backend
	index   []byte
}

// NewServer builds the server and its routes. Requests pass through the
// security headers and trace middleware before reaching the mux.
func NewServer(addr string, backend Backend, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		backend: backend,
	}

	// Client entry page and static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		if s.index, err = fs.ReadFile(sub, "index.html"); err != nil {
			logger.Warn("Client entry page missing from embedded FS", applog.FieldError, err)
		}
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)

	mux.HandleFunc("GET /api/analytics/summary", s.handleSummary)
	mux.HandleFunc("GET /api/analytics/by-category", s.handleByCategory)
	mux.HandleFunc("GET /api/analytics/trends", s.handleTrends)

	mux.HandleFunc("POST /api/query", s.handleQuery)

	mux.HandleFunc("/", s.handleFallback)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger.WithComponent(applog.ComponentHTTP), extractClientIP)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           headers.Middleware(tracer.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// handleFallback takes every request no other route claims. Unknown API
// paths get a JSON 404, other GET and HEAD requests get the client entry
// page, and anything else is refused with 405.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/"):
		handleAPINotFound(w, r)
	case r.Method != http.MethodGet && r.Method != http.MethodHead:
		w.Header().Set("Allow", "GET, HEAD")
		ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method+" "+r.URL.Path)
	default:
		s.handleIndex(w, r)
	}
}

// handleIndex serves the client entry page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		http.Error(w, "client not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(s.index)
}
