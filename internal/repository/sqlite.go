package repository

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kmarsden/maskvote/internal/models"
)

// Repository provides data access methods for the contestant roster
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS contestants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// ListContestants returns the full roster in display order
func (r *Repository) ListContestants(ctx context.Context) ([]models.Contestant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM contestants ORDER BY display_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contestants []models.Contestant
	for rows.Next() {
		var c models.Contestant
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		contestants = append(contestants, c)
	}
	return contestants, rows.Err()
}

// GetContestant returns a single contestant by id
func (r *Repository) GetContestant(ctx context.Context, id string) (*models.Contestant, error) {
	var c models.Contestant
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM contestants WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateContestant inserts a contestant
func (r *Repository) CreateContestant(ctx context.Context, id, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contestants (id, name, display_order)
		 VALUES (?, ?, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM contestants))`,
		id, name)
	return err
}

// CountContestants returns the number of contestants on the roster
func (r *Repository) CountContestants(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contestants`).Scan(&count)
	return count, err
}

// SeedContestants inserts any contestants not already present, preserving the
// order given. Returns the number of rows inserted.
func (r *Repository) SeedContestants(ctx context.Context, contestants []models.Contestant) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for i, c := range contestants {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO contestants (id, name, display_order) VALUES (?, ?, ?)`,
			c.ID, c.Name, i+1)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}
