// Package mock provides an in-memory ContestantRepository for tests.
package mock

import (
	"context"
	"sync"

	"github.com/kmarsden/maskvote/internal/models"
	"github.com/kmarsden/maskvote/internal/repository"
)

// Repository is an in-memory implementation of repository.ContestantRepository
type Repository struct {
	mu          sync.Mutex
	contestants []models.Contestant
	pingErr     error
}

var _ repository.ContestantRepository = (*Repository)(nil)

// New creates an empty mock repository
func New() *Repository {
	return &Repository{}
}

// SetPingErr makes subsequent Ping calls fail with err
func (r *Repository) SetPingErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pingErr = err
}

func (r *Repository) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pingErr
}

func (r *Repository) ListContestants(ctx context.Context) ([]models.Contestant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Contestant, len(r.contestants))
	copy(out, r.contestants)
	return out, nil
}

func (r *Repository) GetContestant(ctx context.Context, id string) (*models.Contestant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contestants {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repository) CreateContestant(ctx context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contestants = append(r.contestants, models.Contestant{ID: id, Name: name})
	return nil
}

func (r *Repository) CountContestants(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contestants), nil
}

func (r *Repository) SeedContestants(ctx context.Context, contestants []models.Contestant) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted := 0
	for _, c := range contestants {
		exists := false
		for _, have := range r.contestants {
			if have.ID == c.ID {
				exists = true
				break
			}
		}
		if !exists {
			r.contestants = append(r.contestants, c)
			inserted++
		}
	}
	return inserted, nil
}
