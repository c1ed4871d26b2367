// Package web serves the card browser over HTTP: the JSON API a host uses to
// push data-updates and query views, and the datastar-driven browser pages.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/CardBrowser/internal/config"
	"github.com/JonMunkholm/CardBrowser/internal/core"
	mw "github.com/JonMunkholm/CardBrowser/internal/web/middleware"
)

// Server is the HTTP server for the card browser.
type Server struct {
	service  *core.Service
	cfg      *config.Config
	sessions sessions.Store
	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter

	// done is closed by Shutdown to end long-lived streams;
	// http.Server.Shutdown leaves in-flight requests running.
	done     chan struct{}
	stopOnce sync.Once
}

// NewServer creates a Server with all middleware and routes registered.
func NewServer(service *core.Service, cfg *config.Config, store sessions.Store) *Server {
	s := &Server{
		service:  service,
		cfg:      cfg,
		sessions: store,
		router:   chi.NewRouter(),
		done:     make(chan struct{}),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newLimiter(s.cfg.Rate.RequestsPerMinute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Get("/cards/{id}", s.handleReader)

	// Datastar endpoints. No timeout: /browse/updates is long-lived.
	s.router.Route("/browse", func(r chi.Router) {
		r.Get("/view", s.handleBrowseView)
		r.Get("/updates", s.handleBrowseUpdates)
		r.Get("/export", s.handleBrowseExport)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

		r.Get("/cards", s.handleCards)
		r.Get("/cards/{id}", s.handleCard)
		r.Get("/facets", s.handleFacets)
		r.Get("/formatting-model", s.handleFormattingModel)
		r.Get("/settings", s.handleSettings)
		r.Get("/columns", s.handleColumns)
		r.Get("/export", s.handleExport)

		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(s.newLimiter(s.cfg.Rate.UpdateLimit).middleware)
			}
			r.Use(mw.APIKeyAuth(&s.cfg.Security))
			r.Post("/update", s.handleUpdate)
		})
	})
}

func (s *Server) newLimiter(perMinute int) *rateLimiter {
	rl := newRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	slog.Info("starting server", "addr", ln.Addr().String())
	return s.server.Serve(ln)
}

// Shutdown ends open update streams, stops background workers and then
// gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		close(s.done)
		for _, rl := range s.limiters {
			rl.stop()
		}
	})
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// contentSecurityPolicy allows the datastar bundle from its CDN, inline
// styles for card colors, and images from anywhere since card images are
// arbitrary URLs.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' https://cdn.jsdelivr.net",
	"style-src 'self' 'unsafe-inline'",
	"img-src * data:",
	"connect-src 'self'",
}, "; ")

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", contentSecurityPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
