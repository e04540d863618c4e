package app

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kmarsden/maskvote/internal/auth"
	"github.com/kmarsden/maskvote/internal/handlers"
	"github.com/kmarsden/maskvote/internal/hub"
	"github.com/kmarsden/maskvote/internal/logger"
	"github.com/kmarsden/maskvote/internal/repository"
	"github.com/kmarsden/maskvote/internal/state"
)

// Config carries the startup options the app needs beyond its dependencies.
type Config struct {
	DBPath      string
	RosterPath  string // optional JSON roster file to seed from
	ProjectorID string // reserved voter id for the display client
}

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	hub      *hub.Hub
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg Config, adminAuth *auth.Auth, pagesFS fs.FS) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening roster store: %w", err)
	}

	ctx := context.Background()
	if cfg.RosterPath != "" {
		contestants, err := repository.LoadRosterFile(cfg.RosterPath)
		if err != nil {
			repo.Close()
			return nil, err
		}
		inserted, err := repo.SeedContestants(ctx, contestants)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("seeding roster: %w", err)
		}
		if inserted > 0 {
			log.Info("Roster seeded", "added", inserted, "file", cfg.RosterPath)
		}
	}

	roster, err := repo.ListContestants(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("loading roster: %w", err)
	}
	if len(roster) == 0 {
		log.Warn("Roster is empty; voters will have nothing to vote on")
	}

	votingState := state.New(log, roster)

	h := hub.New(log, votingState, adminAuth, cfg.ProjectorID)
	h.Start()

	return &App{
		log:      log,
		handlers: handlers.New(h, adminAuth, repo, log, pagesFS),
		repo:     repo,
		hub:      h,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Hub returns the event hub (exposed for tests)
func (a *App) Hub() *hub.Hub {
	return a.hub
}

// Close releases app resources
func (a *App) Close() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.handlers.SetBaseURL(baseURL)

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Admin URL", "url", baseURL+"/admin")
	a.log.Info("Projector URL", "url", baseURL+"/projector")
	return http.ListenAndServe(addr, a.Router())
}
