package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
	"github.com/abrezinsky/liftmeet/internal/services"
	"github.com/abrezinsky/liftmeet/internal/testutil"
)

// fakeBroadcaster records every message a service pushes
type fakeBroadcaster struct {
	mu       sync.Mutex
	attempts []models.Attempt
	results  []string
	lifters  []models.CurrentLifter
}

func (b *fakeBroadcaster) BroadcastAttemptUpdated(contestID string, attempt models.Attempt) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts = append(b.attempts, attempt)
}

func (b *fakeBroadcaster) BroadcastResultsUpdated(contestID, calculatedAt string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = append(b.results, contestID)
}

func (b *fakeBroadcaster) BroadcastCurrentLifter(lifter models.CurrentLifter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lifters = append(b.lifters, lifter)
}

func (b *fakeBroadcaster) resultCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.results)
}

// stack is every service wired over one in-memory database
type stack struct {
	repo          *repository.Repository
	tables        *scoring.TableCache
	settings      *services.SettingsService
	results       *services.ResultsService
	contests      *services.ContestService
	competitors   *services.CompetitorService
	registrations *services.RegistrationService
	attempts      *services.AttemptService
	plates        *services.PlateService
	export        *services.ExportService
	bc            *fakeBroadcaster
}

func quietLogger() logger.Logger {
	return logger.NewWithOptions(io.Discard, slog.LevelDebug, logger.FormatText)
}

func newStack(t *testing.T) *stack {
	t.Helper()
	return newStackWithRepo(t, testutil.NewTestRepository(t), nil)
}

// newStackWithRepo wires the services over repo; the results service reads
// through override when it is set
func newStackWithRepo(t *testing.T, real *repository.Repository, override repository.FullRepository) *stack {
	t.Helper()
	log := quietLogger()

	var repo repository.FullRepository = real
	if override != nil {
		repo = override
	}

	cache, err := scoring.NewTableCache(scoring.DefaultTables)
	require.NoError(t, err)

	s := &stack{repo: real, tables: cache, bc: &fakeBroadcaster{}}
	s.settings = services.NewSettingsService(log, repo, cache)
	s.results = services.NewResultsService(log, repo, s.settings)
	s.results.SetBroadcaster(s.bc)
	s.contests = services.NewContestService(log, repo, s.settings, s.results)
	s.competitors = services.NewCompetitorService(log, repo, s.results)
	s.registrations = services.NewRegistrationService(log, repo, s.settings, s.results)
	s.attempts = services.NewAttemptService(log, repo, s.results)
	s.attempts.SetBroadcaster(s.bc)
	s.plates = services.NewPlateService(log, repo, services.Equipment{BarWeightMaleKg: 20, BarWeightFemaleKg: 15, ClampWeightKg: 2.5})
	s.export = services.NewExportService(log, s.contests, s.results)
	return s
}

func (s *stack) contest(t *testing.T) *models.Contest {
	t.Helper()
	c, err := s.contests.CreateContest(context.Background(), services.Contest{
		Name: "Winter Classic", Location: "Main Gym", ContestDate: "2025-01-01", Discipline: "Powerlifting",
	})
	require.NoError(t, err)
	return c
}

func (s *stack) lifter(t *testing.T, contestID, first, gender, birth, club string, bw float64) *models.Registration {
	t.Helper()
	ctx := context.Background()
	comp, err := s.competitors.CreateCompetitor(ctx, services.Competitor{
		FirstName: first, LastName: "Lifter", Gender: gender, BirthDate: birth, Club: club,
	})
	require.NoError(t, err)
	reg, err := s.registrations.CreateRegistration(ctx, services.Registration{
		ContestID: contestID, CompetitorID: comp.ID, BodyweightKg: bw,
	})
	require.NoError(t, err)
	return reg
}

func (s *stack) lift(t *testing.T, regID, kind string, n int, kg float64, status string) *models.Attempt {
	t.Helper()
	a, err := s.attempts.DeclareAttempt(context.Background(), services.Attempt{
		RegistrationID: regID, LiftKind: kind, AttemptNumber: n, WeightKg: kg, Status: status,
	})
	require.NoError(t, err)
	return a
}

// fullTotal declares three good lifts
func (s *stack) fullTotal(t *testing.T, regID string, squat, bench, deadlift float64) {
	t.Helper()
	s.lift(t, regID, "Squat", 1, squat, "Successful")
	s.lift(t, regID, "Bench", 1, bench, "Successful")
	s.lift(t, regID, "Deadlift", 1, deadlift, "Successful")
}

func resultFor(t *testing.T, rows []models.ResultRow, regID string) models.ResultRow {
	t.Helper()
	for _, r := range rows {
		if r.RegistrationID == regID {
			return r
		}
	}
	t.Fatalf("no result for registration %s", regID)
	return models.ResultRow{}
}
