package handlers

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/kmarsden/maskvote/internal/auth"
	"github.com/kmarsden/maskvote/internal/hub"
	"github.com/kmarsden/maskvote/internal/logger"
)

// Pinger is the slice of the repository the health endpoint needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Hub  *hub.Hub
	Auth *auth.Auth
	Repo Pinger
	Log  logger.Logger

	pagesFS      fs.FS
	staticServer http.Handler
	baseURL      string
}

// New creates a new Handlers instance with all dependencies
func New(h *hub.Hub, adminAuth *auth.Auth, repo Pinger, log logger.Logger, pagesFS fs.FS) *Handlers {
	return &Handlers{
		Hub:          h,
		Auth:         adminAuth,
		Repo:         repo,
		Log:          log,
		pagesFS:      pagesFS,
		staticServer: NewStaticServer(pagesFS),
	}
}

// SetBaseURL records the externally reachable URL of the voting page, used
// by the QR endpoint. Called once during startup before the server listens.
func (h *Handlers) SetBaseURL(url string) {
	h.baseURL = url
}

// servePage returns a handler serving one embedded page
func (h *Handlers) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := fs.ReadFile(h.pagesFS, name)
		if err != nil {
			h.Log.Error("Missing embedded page", "page", name, "error", err)
			http.Error(w, "page not found", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}

// handleHealth reports liveness of the process and its roster store
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.Ping(r.Context()); err != nil {
		respondError(w, InternalError(err))
		return
	}
	respondOK(w, map[string]string{"status": "ok"})
}
