package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/ping", h.ping)
		r.Get("/api/version", h.getServerVersion)
	})

	// routes protected by JWT authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/sync/reconcile", h.reconcile)
		r.Get("/api/sync/snapshot", h.snapshot)
		r.Get("/api/sync/marker", h.lastSyncMarker)
		r.Get("/api/{type}/{id}", h.getEntity)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
