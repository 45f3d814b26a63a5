package mock

import (
	"context"

	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveContestResultsError = errors.New("database error")
//	svc := services.NewResultsService(log, mockRepo, tables, nil, nil)
//	_, err := svc.RecalculateContest(ctx, contestID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Contest Errors =====
	GetContestError        error
	ListContestsError      error
	CreateContestError     error
	ListAgeCategoriesError error
	ListWeightClassesError error
	SeedDescriptorsError   error

	// ===== Competitor Errors =====
	GetCompetitorError    error
	CreateCompetitorError error

	// ===== Registration Errors =====
	GetRegistrationError    error
	CreateRegistrationError error
	UpdateRegistrationError error

	// ===== Attempt Errors =====
	GetAttemptError    error
	CreateAttemptError error
	UpdateAttemptError error

	// ===== Results Errors =====
	LoadContestSnapshotError error
	SaveContestResultsError  error
	ListResultsError         error

	// ===== Plate Errors =====
	ListPlatesError error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
	ClearTableError error
	PingError       error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Contest Methods =====

func (m *Repository) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	if m.GetContestError != nil {
		return nil, m.GetContestError
	}
	return m.FullRepository.GetContest(ctx, id)
}

func (m *Repository) ListContests(ctx context.Context) ([]models.Contest, error) {
	if m.ListContestsError != nil {
		return nil, m.ListContestsError
	}
	return m.FullRepository.ListContests(ctx)
}

func (m *Repository) CreateContest(ctx context.Context, c *models.Contest) error {
	if m.CreateContestError != nil {
		return m.CreateContestError
	}
	return m.FullRepository.CreateContest(ctx, c)
}

func (m *Repository) ListAgeCategories(ctx context.Context, contestID string) ([]scoring.AgeCategory, error) {
	if m.ListAgeCategoriesError != nil {
		return nil, m.ListAgeCategoriesError
	}
	return m.FullRepository.ListAgeCategories(ctx, contestID)
}

func (m *Repository) ListWeightClasses(ctx context.Context, contestID string) ([]scoring.WeightClass, error) {
	if m.ListWeightClassesError != nil {
		return nil, m.ListWeightClassesError
	}
	return m.FullRepository.ListWeightClasses(ctx, contestID)
}

func (m *Repository) SeedDescriptors(ctx context.Context, contestID string, ages []scoring.AgeCategory, classes []scoring.WeightClass) error {
	if m.SeedDescriptorsError != nil {
		return m.SeedDescriptorsError
	}
	return m.FullRepository.SeedDescriptors(ctx, contestID, ages, classes)
}

// ===== Competitor Methods =====

func (m *Repository) GetCompetitor(ctx context.Context, id string) (*models.Competitor, error) {
	if m.GetCompetitorError != nil {
		return nil, m.GetCompetitorError
	}
	return m.FullRepository.GetCompetitor(ctx, id)
}

func (m *Repository) CreateCompetitor(ctx context.Context, c *models.Competitor) error {
	if m.CreateCompetitorError != nil {
		return m.CreateCompetitorError
	}
	return m.FullRepository.CreateCompetitor(ctx, c)
}

// ===== Registration Methods =====

func (m *Repository) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	if m.GetRegistrationError != nil {
		return nil, m.GetRegistrationError
	}
	return m.FullRepository.GetRegistration(ctx, id)
}

func (m *Repository) CreateRegistration(ctx context.Context, r *models.Registration) error {
	if m.CreateRegistrationError != nil {
		return m.CreateRegistrationError
	}
	return m.FullRepository.CreateRegistration(ctx, r)
}

func (m *Repository) UpdateRegistration(ctx context.Context, r *models.Registration) error {
	if m.UpdateRegistrationError != nil {
		return m.UpdateRegistrationError
	}
	return m.FullRepository.UpdateRegistration(ctx, r)
}

// ===== Attempt Methods =====

func (m *Repository) GetAttempt(ctx context.Context, id string) (*models.Attempt, error) {
	if m.GetAttemptError != nil {
		return nil, m.GetAttemptError
	}
	return m.FullRepository.GetAttempt(ctx, id)
}

func (m *Repository) CreateAttempt(ctx context.Context, a *models.Attempt) error {
	if m.CreateAttemptError != nil {
		return m.CreateAttemptError
	}
	return m.FullRepository.CreateAttempt(ctx, a)
}

func (m *Repository) UpdateAttempt(ctx context.Context, a *models.Attempt) error {
	if m.UpdateAttemptError != nil {
		return m.UpdateAttemptError
	}
	return m.FullRepository.UpdateAttempt(ctx, a)
}

// ===== Results Methods =====

func (m *Repository) LoadContestSnapshot(ctx context.Context, contestID string) (*repository.ContestSnapshot, error) {
	if m.LoadContestSnapshotError != nil {
		return nil, m.LoadContestSnapshotError
	}
	return m.FullRepository.LoadContestSnapshot(ctx, contestID)
}

func (m *Repository) SaveContestResults(ctx context.Context, contestID string, updates []repository.RegistrationScoring, rows []scoring.RankedRow, calculatedAt string) error {
	if m.SaveContestResultsError != nil {
		return m.SaveContestResultsError
	}
	return m.FullRepository.SaveContestResults(ctx, contestID, updates, rows, calculatedAt)
}

func (m *Repository) ListResults(ctx context.Context, contestID string) ([]models.ResultRow, error) {
	if m.ListResultsError != nil {
		return nil, m.ListResultsError
	}
	return m.FullRepository.ListResults(ctx, contestID)
}

// ===== Plate Methods =====

func (m *Repository) ListPlates(ctx context.Context) ([]models.Plate, error) {
	if m.ListPlatesError != nil {
		return nil, m.ListPlatesError
	}
	return m.FullRepository.ListPlates(ctx)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}
