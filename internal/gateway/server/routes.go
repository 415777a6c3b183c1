package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"boxoffice/internal/gateway/handler"
	"boxoffice/internal/gateway/middleware"
)

func NewRouter(logger zerolog.Logger, allowedOrigins []string, h *handler.DashboardHandler) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger(&logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.CORS(allowedOrigins))

	router.Get("/healthz", h.Health)
	router.Get("/ws/dashboard", h.Watch)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)
		r.Post("/dashboard/refresh", h.Refresh)
		r.Get("/dashboard/{category}", h.GetCategory)
		r.Get("/sources", h.GetSources)
		r.Get("/archive", h.ListArchive)
	})

	return router
}
