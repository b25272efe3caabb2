package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budget/internal/auth"
	"budget/internal/cache"
	"budget/internal/export"
	"budget/internal/ledger"
	appweb "budget/web"
)

// Options carries the optional server collaborators. A nil Authenticator
// disables login entirely and serves the dashboard without sessions.
type Options struct {
	Authenticator *auth.Authenticator
	Sessions      *auth.SessionStore
	PDFFontPath   string
}

type Server struct {
	http.Server
	templates   *template.Template
	ledger      *ledger.Ledger
	authn       *auth.Authenticator
	sessions    *auth.SessionStore
	pdfWriter   *export.PDFWriter
	rateLimiter *rateLimiter

	// Rendered reports keyed by ledger revision and format. A mutation
	// bumps the revision, so stale artifacts simply stop being hit.
	exportCache  *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, led *ledger.Ledger, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       led,
		authn:        opts.Authenticator,
		sessions:     opts.Sessions,
		pdfWriter:    export.NewPDFWriter(opts.PDFFontPath),
		rateLimiter:  newRateLimiter(),
		exportCache:  cache.NewLRUCache[[]byte](30, 10*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.exportCache)
	if s.sessions != nil {
		s.cacheManager.Register(s.sessions)
	}
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))

	mux.HandleFunc("/", s.withSecurityHeaders(s.requireSession(s.handleIndex)))

	// UI fragments
	mux.HandleFunc("/ui/summary", s.withSecurityHeaders(s.requireSession(s.handleSummary)))
	mux.HandleFunc("/ui/budget-table", s.withSecurityHeaders(s.requireSession(s.handleBudgetTable)))
	mux.HandleFunc("/ui/transactions", s.withSecurityHeaders(s.requireSession(s.handleTransactionList)))

	// Mutations
	mux.HandleFunc("/income", s.withSecurityHeaders(s.requireSession(s.handleSetIncome)))
	mux.HandleFunc("/categories", s.withSecurityHeaders(s.requireSession(s.handleAddCategory)))
	mux.HandleFunc("/categories/planned", s.withSecurityHeaders(s.requireSession(s.handleSetPlanned)))
	mux.HandleFunc("/categories/rename", s.withSecurityHeaders(s.requireSession(s.handleRenameCategory)))
	mux.HandleFunc("/categories/remove", s.withSecurityHeaders(s.requireSession(s.handleRemoveCategory)))
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.requireSession(s.handleCreateTransaction)))
	mux.HandleFunc("/transactions/delete", s.withSecurityHeaders(s.requireSession(s.handleDeleteTransaction)))
	mux.HandleFunc("/reset", s.withSecurityHeaders(s.requireSession(s.handleResetPeriod)))

	// Chart data (JSON)
	mux.HandleFunc("/chart/expenses", s.withSecurityHeaders(s.requireSession(s.handleExpenseChart)))
	mux.HandleFunc("/chart/comparison", s.withSecurityHeaders(s.requireSession(s.handleComparisonChart)))

	// Report downloads
	mux.HandleFunc("/export", s.withSecurityHeaders(s.requireSession(s.handleExport)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutations only; fragment polling stays cheap.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com https://cdn.jsdelivr.net 'unsafe-eval'; style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; font-src https://fonts.gstatic.com; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
