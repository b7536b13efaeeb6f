// Package router wires the HTTP routes and cross-cutting middleware.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloghub-dev/bloghub/internal/handler"
	"github.com/bloghub-dev/bloghub/shared/config"
	"github.com/bloghub-dev/bloghub/shared/middleware"
	"github.com/bloghub-dev/bloghub/shared/middleware/metrics"
)

func New(h *handler.Handler, authMw *middleware.Auth, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeadersWithCSP(cfg.Public.SecureCookies, "default-src 'none'"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())

			r.Get("/users/me", h.Me)
			r.Patch("/users/me", h.UpdateSettings)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", h.GetPosts)
				r.Post("/", h.CreatePost)
				r.Get("/{post}", h.GetPost)
				r.Put("/{post}", h.UpdatePost)
				r.Delete("/{post}", h.DeletePost)
				r.Get("/{post}/comments", h.GetComments)
				r.Post("/{post}/comments", h.CreateComment)
				r.Get("/{post}/comments/{comment}", h.GetComment)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/daily-breakdown", h.DailyBreakdown)
				r.Put("/{comment}", h.UpdateComment)
				r.Delete("/{comment}", h.DeleteComment)
			})
		})
	})

	return r
}
