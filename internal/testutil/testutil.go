package testutil

import (
	"context"
	"testing"

	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// CreateContest inserts a powerlifting contest dated 2025-01-01
func CreateContest(t *testing.T, repo repository.ContestRepository) *models.Contest {
	t.Helper()

	c := &models.Contest{Name: "Test Meet", Location: "Gym", ContestDate: "2025-01-01", Discipline: "Powerlifting"}
	if err := repo.CreateContest(context.Background(), c); err != nil {
		t.Fatalf("failed to create contest: %v", err)
	}
	return c
}

// CreateCompetitor inserts a competitor
func CreateCompetitor(t *testing.T, repo repository.CompetitorRepository, first, gender, birthDate, club string) *models.Competitor {
	t.Helper()

	c := &models.Competitor{FirstName: first, LastName: "Test", Gender: gender, BirthDate: birthDate, Club: club}
	if err := repo.CreateCompetitor(context.Background(), c); err != nil {
		t.Fatalf("failed to create competitor: %v", err)
	}
	return c
}
