package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// Pages (served from embedded filesystem)
	r.Get("/", h.servePage("index.html"))
	r.Get("/admin", h.servePage("admin.html"))
	r.Get("/projector", h.servePage("projector.html"))
	r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

	// WebSocket: the event hub lives here; no HTTP timeout middleware on
	// this route, connections are long-lived.
	r.Get("/ws", h.Hub.ServeWs)

	// JSON API
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Post("/api/admin/login", h.handleLogin)
		r.Post("/api/admin/logout", h.handleLogout)
		r.Get("/qr", h.handleQR)
		r.Get("/healthz", h.handleHealth)
	})

	return r
}
