package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"placar/internal/container"
	"placar/internal/middleware"
	"placar/pkg/errors"
)

// requestTimeout bounds every request, including store round trips
const requestTimeout = 30 * time.Second

// NewRouter configures the HTTP routes for the container's services
func NewRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	services := c.Services

	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(requestTimeout))

	var cacheCheck HealthChecker
	if c.Cache.Enabled() {
		cacheCheck = c.Cache
	}

	healthHandler := NewHealthHandler(c.Store.Backend(), c.Store, cacheCheck, log)
	authHandler := NewAuthHandler(services.Auth, log)
	playerHandler := NewPlayerHandler(services.Players, cfg.MaxBodyBytes, log)
	suggestionHandler := NewSuggestionHandler(services.Suggestions, cfg.MaxBodyBytes, log)
	matchHandler := NewMatchHandler(services.Matches, cfg.MaxBodyBytes, log)
	standingsHandler := NewStandingsHandler(services.Standings, log)

	adminOnly := middleware.AdminAuth(services.Auth, log)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.RateLimit(loginLimiter, log)).Post("/admin/login", authHandler.Login)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", playerHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", playerHandler.Create)
				r.Patch("/{id}", playerHandler.Rename)
				r.Delete("/{id}", playerHandler.Delete)
			})
		})

		r.Route("/suggestions", func(r chi.Router) {
			r.Post("/", suggestionHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", suggestionHandler.List)
				r.Post("/{id}/approve", suggestionHandler.Approve)
				r.Delete("/{id}", suggestionHandler.Reject)
			})
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Patch("/{id}", matchHandler.Edit)
				r.Delete("/{id}", matchHandler.Delete)
			})
		})

		r.Route("/standings", func(r chi.Router) {
			r.Get("/leaderboard", standingsHandler.Leaderboard)
			r.Get("/scorers", standingsHandler.TopScorers)
			r.Get("/head-to-head", standingsHandler.HeadToHead)
			r.Get("/summary", standingsHandler.Summary)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, errors.ErrorResponse{Error: "endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, errors.ErrorResponse{Error: "method not allowed"})
	})

	log.Info("Router configured successfully")
	return r
}
