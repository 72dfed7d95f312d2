package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NewRouter mounts the API routes. metrics is served at /metrics when non-nil.
func NewRouter(h *Handler, metrics http.Handler, logger *zap.Logger) chi.Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(RequestLogger(logger))

	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(JSONContentType)

		r.Get("/healthz", h.Health)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/leaderboard", h.Leaderboard)
			r.Get("/catalog/{interest}", h.ListStages)

			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/state", h.GetState)
				r.Post("/interests", h.SelectInterests)
				r.Post("/interests/add", h.AddInterest)
				r.Post("/stages/{interest}/{stage}/answer", h.Answer)
				r.Post("/hearts/{interest}/reset", h.ResetHearts)
				r.Post("/reset", h.ResetGame)
				r.Post("/logout", h.Logout)
				r.Get("/goodies", h.ListGoodies)
				r.Post("/goodies/{goodie}/claim", h.ClaimGoodie)
			})
		})
	})

	return r
}
