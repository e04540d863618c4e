package repository

import (
	"context"

	"github.com/kmarsden/maskvote/internal/models"
)

// ContestantRepository defines contestant data operations
type ContestantRepository interface {
	ListContestants(ctx context.Context) ([]models.Contestant, error)
	GetContestant(ctx context.Context, id string) (*models.Contestant, error)
	CreateContestant(ctx context.Context, id, name string) error
	CountContestants(ctx context.Context) (int, error)
	SeedContestants(ctx context.Context, contestants []models.Contestant) (int, error)
}

// Ensure Repository implements the interface
var _ ContestantRepository = (*Repository)(nil)
