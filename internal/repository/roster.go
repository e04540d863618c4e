package repository

import (
	"encoding/json"
	"fmt"
	"os"

	apperrors "github.com/kmarsden/maskvote/internal/errors"
	"github.com/kmarsden/maskvote/internal/models"
)

// LoadRosterFile reads a JSON roster file of the form
// [{"id": "fox", "name": "Fox"}, ...] and validates it.
func LoadRosterFile(path string) ([]models.Contestant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	var contestants []models.Contestant
	if err := json.Unmarshal(data, &contestants); err != nil {
		return nil, fmt.Errorf("parsing roster file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(contestants))
	for _, c := range contestants {
		if c.ID == "" || c.Name == "" {
			return nil, apperrors.Validationf("roster file %s: every contestant needs an id and a name", path)
		}
		if seen[c.ID] {
			return nil, apperrors.Validationf("roster file %s: duplicate contestant id %q", path, c.ID)
		}
		seen[c.ID] = true
	}
	return contestants, nil
}
