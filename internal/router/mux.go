package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewMux is New for net/http. Middlewares wrap every route, guard only /api/v1.
func NewMux(handlers Handlers, guard func(http.Handler) http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)
	r.NotFound(handlers.Fallback.NotFoundHTTP)
	r.MethodNotAllowed(handlers.Fallback.MethodNotAllowedHTTP)

	r.Get("/health", handlers.Health.CheckHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		if guard != nil {
			r.Use(guard)
		}
		r.Post("/envelope", handlers.Envelope.WrapHTTP)
	})

	return r
}
