// Package server exposes the registration form over HTTP. Each visitor's form
// session lives in an in-memory scs store; registration data never leaves the
// process.
package server

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"filippo.io/csrf/gorilla"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocale sets the locale used when a request does not choose one.
func WithLocale(locale string) Option {
	return func(s *Server) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithTranslator replaces the embedded catalog.
func WithTranslator(catalog *render.Catalog) Option {
	return func(s *Server) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithTheme sets the resolved theme passed to the renderer.
func WithTheme(theme *render.ThemeConfig) Option {
	return func(s *Server) {
		s.theme = theme
	}
}

// WithTrustedOrigins lists hosts allowed to post cross-origin.
func WithTrustedOrigins(origins []string) Option {
	return func(s *Server) {
		s.trustedOrigins = origins
	}
}

// WithSessionManager replaces the default in-memory session manager.
func WithSessionManager(sm *scs.SessionManager) Option {
	return func(s *Server) {
		if sm != nil {
			s.sessions = sm
		}
	}
}

// Server holds the HTTP handlers of the registration form.
type Server struct {
	form     model.FormModel
	renderer render.Renderer

	sessions       *scs.SessionManager
	locks          *sessionLocks
	logger         *slog.Logger
	catalog        *render.Catalog
	theme          *render.ThemeConfig
	locale         string
	trustedOrigins []string
}

// New builds a Server for form, rendering HTML through renderer.
func New(form model.FormModel, renderer render.Renderer, opts ...Option) *Server {
	s := &Server{
		form:     form,
		renderer: renderer,
		logger:   slog.Default(),
		catalog:  render.DefaultCatalog(),
		locale:   render.DefaultLocale,
		locks:    newSessionLocks(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.sessions == nil {
		s.sessions = NewSessionManager(30*time.Minute, false)
	}
	return s
}

// NewSessionManager returns an scs manager backed by memstore. Sessions are
// lost on restart.
func NewSessionManager(lifetime time.Duration, secure bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()
	sm.Lifetime = lifetime
	sm.Cookie.Name = "regform_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm
}

// Handler returns the router with every route and middleware installed.
func (s *Server) Handler() (http.Handler, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("server: generate csrf key: %w", err)
	}
	csrfOpts := []csrf.Option{csrf.ErrorHandler(http.HandlerFunc(s.csrfFailed))}
	if len(s.trustedOrigins) > 0 {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins(s.trustedOrigins))
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))

	r.Group(func(r chi.Router) {
		r.Use(s.serializeSessions)
		r.Use(s.sessions.LoadAndSave)
		r.Use(csrf.Protect(key, csrfOpts...))

		r.Get("/", s.index)
		r.Post("/events", s.events)
		r.Post("/submit", s.submit)
		r.Post("/dismiss", s.dismiss)
		r.Post("/reset", s.reset)
	})

	return r, nil
}

func (s *Server) csrfFailed(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	s.logger.Warn("cross-origin request rejected",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	http.Error(w, "Forbidden - cross-origin request rejected", http.StatusForbidden)
}

// logRequests records request metadata only; form values are never logged.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
