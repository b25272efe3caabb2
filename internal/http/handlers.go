package http

import (
	"log/slog"
	"net/http"
	"time"

	"budget/internal/auth"
)

// requireSession gates a handler behind a valid login session. When no
// authenticator is configured the tool runs open, matching local use.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	if s.authn == nil || s.sessions == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.SessionCookie)
		if err != nil || !s.sessions.Valid(cookie.Value) {
			// Fragment requests get a retarget instead of a redirect so
			// htmx swaps the whole page to the login form.
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", "/login")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.authn == nil || s.sessions == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderLoginPage(w, r, "")
	case http.MethodPost:
		s.handleLoginSubmit(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		s.renderLoginPage(w, r, "Invalid request")
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	if !s.authn.Authenticate(email, password) {
		slog.WarnContext(r.Context(), "Login rejected", "client_ip", extractClientIP(r))
		w.WriteHeader(http.StatusUnauthorized)
		s.renderLoginPage(w, r, "Invalid email or password")
		return
	}

	token, err := s.sessions.Create()
	if err != nil {
		slog.ErrorContext(r.Context(), "Session creation failed", "error", err)
		InternalServerError("Could not start session").Write(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.InfoContext(r.Context(), "Login accepted", "client_ip", extractClientIP(r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if s.sessions != nil {
		if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
			s.sessions.Revoke(cookie.Value)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) renderLoginPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct{ Error string }{Error: errMsg}
	if err := s.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err, "template", "login.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("Page not found").Write(w)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	income := s.ledger.Income()
	now := time.Now()
	data := struct {
		Month        string
		Year         int
		IncomeSource string
		IncomeAmount string
		AuthEnabled  bool
	}{
		Month:        now.Month().String(),
		Year:         now.Year(),
		IncomeSource: income.Source,
		IncomeAmount: income.Amount.String(),
		AuthEnabled:  s.authn != nil,
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
