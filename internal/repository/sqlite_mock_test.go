package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kmarsden/maskvote/internal/models"
)

func testSeedRoster() []models.Contestant {
	return []models.Contestant{{ID: "fox", Name: "Fox"}}
}

// TestListContestants_QueryError tests database failure propagation
func TestListContestants_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}

	mock.ExpectQuery("SELECT (.+) FROM contestants").
		WillReturnError(errors.New("disk I/O error"))

	_, err = repo.ListContestants(context.Background())
	if err == nil {
		t.Error("expected query error to propagate")
	}
}

// TestListContestants_ScanError tests row scanning error
func TestListContestants_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}

	// Row with a nil name triggers a scan error into a string
	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow("fox", nil)
	mock.ExpectQuery("SELECT (.+) FROM contestants").WillReturnRows(rows)

	_, err = repo.ListContestants(context.Background())
	if err == nil {
		t.Error("expected error from scan failure, got nil")
	}
}

// TestSeedContestants_InsertError tests transaction rollback on failure
func TestSeedContestants_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer db.Close()

	repo := &Repository{db: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT OR IGNORE INTO contestants").
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err = repo.SeedContestants(context.Background(), testSeedRoster())
	if err == nil {
		t.Error("expected insert error to propagate")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
