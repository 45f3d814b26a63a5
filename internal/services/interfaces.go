package services

import (
	"context"

	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// Broadcaster pushes scoreboard updates to connected clients
type Broadcaster interface {
	BroadcastAttemptUpdated(contestID string, attempt models.Attempt)
	BroadcastResultsUpdated(contestID, calculatedAt string)
	BroadcastCurrentLifter(lifter models.CurrentLifter)
}

// Recalculator recomputes every result of a contest
type Recalculator interface {
	RecalculateContest(ctx context.Context, contestID string) (*RecalculationSummary, error)
}

// TableProvider hands out the current coefficient tables
type TableProvider interface {
	CoefficientTables() *scoring.Tables
}

// ContestServicer defines the interface for contest and descriptor operations
type ContestServicer interface {
	ListContests(ctx context.Context) ([]models.Contest, error)
	GetContest(ctx context.Context, id string) (*models.Contest, error)
	CreateContest(ctx context.Context, c Contest) (*models.Contest, error)
	UpdateContest(ctx context.Context, id string, c Contest) (*models.Contest, error)
	DeleteContest(ctx context.Context, id string) error
	EnsureDescriptors(ctx context.Context, contestID string) error
	ListAgeCategories(ctx context.Context, contestID string) ([]scoring.AgeCategory, error)
	CreateAgeCategory(ctx context.Context, contestID string, c scoring.AgeCategory) (*scoring.AgeCategory, error)
	UpdateAgeCategory(ctx context.Context, contestID, id string, c scoring.AgeCategory) (*scoring.AgeCategory, error)
	DeleteAgeCategory(ctx context.Context, contestID, id string) error
	ListWeightClasses(ctx context.Context, contestID string) ([]scoring.WeightClass, error)
	CreateWeightClass(ctx context.Context, contestID string, c scoring.WeightClass) (*scoring.WeightClass, error)
	UpdateWeightClass(ctx context.Context, contestID, id string, c scoring.WeightClass) (*scoring.WeightClass, error)
	DeleteWeightClass(ctx context.Context, contestID, id string) error
	ScoreboardQR(ctx context.Context, contestID string) ([]byte, error)
}

// CompetitorServicer defines the interface for competitor operations
type CompetitorServicer interface {
	ListCompetitors(ctx context.Context) ([]models.Competitor, error)
	GetCompetitor(ctx context.Context, id string) (*models.Competitor, error)
	CreateCompetitor(ctx context.Context, c Competitor) (*models.Competitor, error)
	UpdateCompetitor(ctx context.Context, id string, c Competitor) (*models.Competitor, error)
	DeleteCompetitor(ctx context.Context, id string) error
}

// RegistrationServicer defines the interface for registration operations
type RegistrationServicer interface {
	ListRegistrations(ctx context.Context, contestID string) ([]models.Registration, error)
	GetRegistration(ctx context.Context, id string) (*models.Registration, error)
	CreateRegistration(ctx context.Context, r Registration) (*models.Registration, error)
	UpdateRegistration(ctx context.Context, id string, r RegistrationUpdate) (*models.Registration, error)
	DeleteRegistration(ctx context.Context, id string) error
}

// AttemptServicer defines the interface for attempt and platform operations
type AttemptServicer interface {
	ListAttempts(ctx context.Context, registrationID string) ([]models.Attempt, error)
	DeclareAttempt(ctx context.Context, a Attempt) (*models.Attempt, error)
	UpdateAttempt(ctx context.Context, id string, u AttemptUpdate) (*models.Attempt, error)
	SetAttemptStatus(ctx context.Context, id, status string) (*models.Attempt, error)
	DeleteAttempt(ctx context.Context, id string) error
	SetCurrentLifter(ctx context.Context, lifter models.CurrentLifter) (*models.CurrentLifter, error)
	GetCurrentLifter(ctx context.Context, contestID string) (*models.CurrentLifter, error)
	SetBroadcaster(b Broadcaster)
}

// ResultsServicer defines the interface for results operations
type ResultsServicer interface {
	Recalculator
	GetResults(ctx context.Context, contestID string) ([]models.ResultRow, error)
	GetTeamResults(ctx context.Context, contestID string) (*models.TeamResults, error)
	SetBroadcaster(b Broadcaster)
}

// PlateServicer defines the interface for plate inventory and loading operations
type PlateServicer interface {
	ListPlates(ctx context.Context) ([]models.Plate, error)
	CreatePlate(ctx context.Context, p scoring.Plate) (*models.Plate, error)
	UpdatePlate(ctx context.Context, id string, p scoring.Plate) (*models.Plate, error)
	DeletePlate(ctx context.Context, id string) error
	PlanForTarget(ctx context.Context, req PlanRequest) (*scoring.PlatePlan, error)
	PlanForAttempt(ctx context.Context, attemptID string) (*scoring.PlatePlan, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	TableProvider
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ReloadCoefficients(ctx context.Context) error
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// ExportServicer defines the interface for results export
type ExportServicer interface {
	ExportResults(ctx context.Context, contestID string) (*Export, error)
}

// Ensure concrete types implement interfaces
var (
	_ ContestServicer      = (*ContestService)(nil)
	_ CompetitorServicer   = (*CompetitorService)(nil)
	_ RegistrationServicer = (*RegistrationService)(nil)
	_ AttemptServicer      = (*AttemptService)(nil)
	_ ResultsServicer      = (*ResultsService)(nil)
	_ PlateServicer        = (*PlateService)(nil)
	_ SettingsServicer     = (*SettingsService)(nil)
	_ ExportServicer       = (*ExportService)(nil)
)
