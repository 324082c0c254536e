// ABOUTME: HTTP server for the chat surface and JSON API
// ABOUTME: Wires chi routes to the conversation manager, auth, and admin service

package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/2389/helpdesk-gateway/internal/admin"
	"github.com/2389/helpdesk-gateway/internal/auth"
	"github.com/2389/helpdesk-gateway/internal/conversation"
	"github.com/2389/helpdesk-gateway/internal/store"
)

// Server holds the dependencies of the HTTP surface.
type Server struct {
	store       store.Store
	manager     *conversation.Manager
	bus         *conversation.SuggestionBus
	admin       *admin.Service
	verifier    *auth.JWTVerifier
	tokenTTL    time.Duration
	suggestions []string
	logger      *slog.Logger
}

// Config carries the web server's tunables.
type Config struct {
	TokenTTL    time.Duration
	Suggestions []string
}

// NewServer creates the HTTP surface. Pass nil logger for default.
func NewServer(
	st store.Store,
	manager *conversation.Manager,
	bus *conversation.SuggestionBus,
	adminSvc *admin.Service,
	verifier *auth.JWTVerifier,
	cfg Config,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:       st,
		manager:     manager,
		bus:         bus,
		admin:       adminSvc,
		verifier:    verifier,
		tokenTTL:    cfg.TokenTTL,
		suggestions: cfg.Suggestions,
		logger:      logger.With("component", "web"),
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleChatPage)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(api chi.Router) {
		api.Post("/register", s.handleRegister)
		api.Post("/login", s.handleLogin)
		api.Get("/suggestions", s.handleSuggestions)

		// Everything below requires a signed-in user
		api.Group(func(authed chi.Router) {
			authed.Use(auth.Middleware(s.store, s.verifier))

			authed.Post("/send", s.handleSend)
			authed.Get("/history", s.handleHistory)
			authed.Post("/suggest", s.handleSuggest)
			authed.Post("/logout", s.handleLogout)

			authed.Route("/admin", func(ar chi.Router) {
				ar.Use(auth.RequireAdmin())
				ar.Get("/users", s.handleAdminUsers)
				ar.Post("/promote", s.handleAdminPromote)
				ar.Get("/faqs", s.handleAdminListFAQs)
				ar.Post("/faqs", s.handleAdminAddFAQ)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
