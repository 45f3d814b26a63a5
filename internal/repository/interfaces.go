package repository

import (
	"context"

	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// ContestRepository defines contest and descriptor data operations
type ContestRepository interface {
	ListContests(ctx context.Context) ([]models.Contest, error)
	GetContest(ctx context.Context, id string) (*models.Contest, error)
	CreateContest(ctx context.Context, c *models.Contest) error
	UpdateContest(ctx context.Context, c *models.Contest) error
	DeleteContest(ctx context.Context, id string) error

	ListAgeCategories(ctx context.Context, contestID string) ([]scoring.AgeCategory, error)
	CreateAgeCategory(ctx context.Context, contestID string, c *scoring.AgeCategory) error
	UpdateAgeCategory(ctx context.Context, contestID string, c *scoring.AgeCategory) error
	DeleteAgeCategory(ctx context.Context, contestID, id string) error

	ListWeightClasses(ctx context.Context, contestID string) ([]scoring.WeightClass, error)
	CreateWeightClass(ctx context.Context, contestID string, c *scoring.WeightClass) error
	UpdateWeightClass(ctx context.Context, contestID string, c *scoring.WeightClass) error
	DeleteWeightClass(ctx context.Context, contestID, id string) error

	SeedDescriptors(ctx context.Context, contestID string, ages []scoring.AgeCategory, classes []scoring.WeightClass) error
}

// CompetitorRepository defines competitor data operations
type CompetitorRepository interface {
	ListCompetitors(ctx context.Context) ([]models.Competitor, error)
	GetCompetitor(ctx context.Context, id string) (*models.Competitor, error)
	CreateCompetitor(ctx context.Context, c *models.Competitor) error
	UpdateCompetitor(ctx context.Context, c *models.Competitor) error
	DeleteCompetitor(ctx context.Context, id string) error
	ListCompetitorContestIDs(ctx context.Context, competitorID string) ([]string, error)
}

// RegistrationRepository defines registration data operations
type RegistrationRepository interface {
	ListRegistrations(ctx context.Context, contestID string) ([]models.Registration, error)
	GetRegistration(ctx context.Context, id string) (*models.Registration, error)
	CreateRegistration(ctx context.Context, r *models.Registration) error
	UpdateRegistration(ctx context.Context, r *models.Registration) error
	DeleteRegistration(ctx context.Context, id string) error
}

// AttemptRepository defines attempt data operations
type AttemptRepository interface {
	ListAttempts(ctx context.Context, registrationID string) ([]models.Attempt, error)
	GetAttempt(ctx context.Context, id string) (*models.Attempt, error)
	CreateAttempt(ctx context.Context, a *models.Attempt) error
	UpdateAttempt(ctx context.Context, a *models.Attempt) error
	DeleteAttempt(ctx context.Context, id string) error
}

// ResultRepository defines result snapshot and persistence operations
type ResultRepository interface {
	LoadContestSnapshot(ctx context.Context, contestID string) (*ContestSnapshot, error)
	SaveContestResults(ctx context.Context, contestID string, updates []RegistrationScoring, rows []scoring.RankedRow, calculatedAt string) error
	ListResults(ctx context.Context, contestID string) ([]models.ResultRow, error)
}

// PlateRepository defines plate inventory operations
type PlateRepository interface {
	ListPlates(ctx context.Context) ([]models.Plate, error)
	GetPlate(ctx context.Context, id string) (*models.Plate, error)
	CreatePlate(ctx context.Context, p *models.Plate) error
	UpdatePlate(ctx context.Context, p *models.Plate) error
	DeletePlate(ctx context.Context, id string) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ClearTable(ctx context.Context, table string) error
	Ping(ctx context.Context) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	ContestRepository
	CompetitorRepository
	RegistrationRepository
	AttemptRepository
	ResultRepository
	PlateRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
