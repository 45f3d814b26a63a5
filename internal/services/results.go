package services

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/metrics"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// CoefficientChangeThreshold is the smallest coefficient change worth persisting
const CoefficientChangeThreshold = 1e-4

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.ContestRepository
	repository.ResultRepository
	repository.SettingsRepository
}

// ResultsService recalculates contests and serves individual and team results
type ResultsService struct {
	log         logger.Logger
	repo        ResultsServiceRepository
	tables      TableProvider
	broadcaster Broadcaster
	now         func() time.Time

	locks sync.Map // contest id -> *sync.Mutex
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository, tables TableProvider) *ResultsService {
	return &ResultsService{log: log, repo: repo, tables: tables, now: time.Now}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *ResultsService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// RecalculationSummary reports what one pass did
type RecalculationSummary struct {
	ContestID      string `json:"contest_id"`
	Registrations  int    `json:"registrations"`
	Disqualified   int    `json:"disqualified"`
	Reclassified   int    `json:"reclassified"`
	CalculatedAt   string `json:"calculated_at"`
	DurationMicros int64  `json:"duration_us"`
}

// RecalculateContest rebuilds every result of a contest from its attempts.
// Passes for the same contest are serialized; the read and the write each run
// in one transaction so a pass never sees or leaves a half-updated contest.
func (s *ResultsService) RecalculateContest(ctx context.Context, contestID string) (*RecalculationSummary, error) {
	mu := s.contestLock(contestID)
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()
	summary, err := s.recalculate(ctx, contestID)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordRecalculation(metrics.StatusError, elapsed)
		s.log.Error("Recalculation failed", "contest_id", contestID, "error", err)
		return nil, err
	}
	metrics.RecordRecalculation(metrics.StatusOK, elapsed)

	summary.DurationMicros = elapsed.Microseconds()
	s.log.Info("Contest recalculated",
		"contest_id", contestID,
		"registrations", summary.Registrations,
		"disqualified", summary.Disqualified,
		"reclassified", summary.Reclassified,
		"duration", elapsed)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastResultsUpdated(contestID, summary.CalculatedAt)
	}
	return summary, nil
}

func (s *ResultsService) contestLock(contestID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(contestID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *ResultsService) recalculate(ctx context.Context, contestID string) (*RecalculationSummary, error) {
	if _, err := s.repo.GetContest(ctx, contestID); err != nil {
		return nil, notFoundOr(err, "contest %s not found", contestID)
	}
	if err := ensureDescriptors(ctx, s.repo, contestID); err != nil {
		return nil, err
	}

	snap, err := s.repo.LoadContestSnapshot(ctx, contestID)
	if err != nil {
		return nil, notFoundOr(err, "contest %s not found", contestID)
	}

	var tables *scoring.Tables
	if s.tables != nil {
		tables = s.tables.CoefficientTables()
	}
	discipline, ok := scoring.ParseDiscipline(snap.Contest.Discipline)
	if !ok {
		discipline = scoring.Discipline(snap.Contest.Discipline)
	}

	summary := &RecalculationSummary{ContestID: contestID, Registrations: len(snap.Registrations)}
	updates := []repository.RegistrationScoring{}
	rows := make([]scoring.RankedRow, 0, len(snap.Registrations))

	for _, reg := range snap.Registrations {
		s.logSoftFailures(contestID, reg, snap.Contest.ContestDate)

		c := classifyRegistration(reg, snap.Contest.ContestDate, snap.AgeCategories, snap.WeightClasses, tables)
		reshel := keepUnlessChanged(reg.ReshelCoefficient, c.Reshel)
		mcc := keepUnlessChanged(reg.McCulloughCoefficient, c.McCullough)

		if !sameID(reg.AgeCategoryID, c.AgeCategoryID) || !sameID(reg.WeightClassID, c.WeightClassID) ||
			reshel != reg.ReshelCoefficient || mcc != reg.McCulloughCoefficient {
			updates = append(updates, repository.RegistrationScoring{
				RegistrationID:        reg.ID,
				AgeCategoryID:         c.AgeCategoryID,
				WeightClassID:         c.WeightClassID,
				ReshelCoefficient:     reshel,
				McCulloughCoefficient: mcc,
			})
		}

		attempts := make([]scoring.Attempt, 0, len(snap.Attempts[reg.ID]))
		for _, a := range snap.Attempts[reg.ID] {
			attempts = append(attempts, a.ToScoring())
		}
		result := scoring.ComputeResult(attempts, discipline, scoring.Coefficients{Reshel: reshel, McCullough: mcc})
		if result.IsDisqualified {
			summary.Disqualified++
		}

		rows = append(rows, scoring.RankedRow{
			Result:         result,
			RegistrationID: reg.ID,
			BodyweightKg:   reg.BodyweightKg,
			AgeCategoryID:  derefID(c.AgeCategoryID),
			WeightClassID:  derefID(c.WeightClassID),
			Labels:         reg.Labels,
		})
	}

	ranked := scoring.RankAllScopes(rows)
	summary.Reclassified = len(updates)
	summary.CalculatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.repo.SaveContestResults(ctx, contestID, updates, ranked, summary.CalculatedAt); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *ResultsService) logSoftFailures(contestID string, reg models.Registration, contestDate string) {
	if _, ok := scoring.ParseGender(reg.Competitor.Gender); !ok {
		s.log.Debug("Unknown gender, coefficient defaults to 1.0",
			"contest_id", contestID, "registration_id", reg.ID, "gender", reg.Competitor.Gender)
	}
	if _, ok := scoring.AgeOn(reg.Competitor.BirthDate, contestDate); !ok {
		s.log.Debug("Unparseable birth date, age coefficient defaults to 1.0",
			"contest_id", contestID, "registration_id", reg.ID, "birth_date", reg.Competitor.BirthDate)
	}
}

// GetResults returns a contest's ranked results ordered by open place, then name
func (s *ResultsService) GetResults(ctx context.Context, contestID string) ([]models.ResultRow, error) {
	if _, err := s.repo.GetContest(ctx, contestID); err != nil {
		return nil, notFoundOr(err, "contest %s not found", contestID)
	}
	return s.repo.ListResults(ctx, contestID)
}

// GetTeamResults scores clubs from the stored results
func (s *ResultsService) GetTeamResults(ctx context.Context, contestID string) (*models.TeamResults, error) {
	rows, err := s.GetResults(ctx, contestID)
	if err != nil {
		return nil, err
	}
	members := make([]scoring.TeamMember, 0, len(rows))
	for _, r := range rows {
		members = append(members, scoring.TeamMember{
			RegistrationID: r.RegistrationID,
			Name:           r.Name(),
			Club:           r.Club,
			Gender:         r.Gender,
			BodyweightKg:   r.BodyweightKg,
			Result:         r.Result,
		})
	}
	return &models.TeamResults{ContestID: contestID, TeamScoreboards: scoring.ComputeTeamResults(members)}, nil
}

// classification is the derived category, class and coefficients of a registration
type classification struct {
	AgeCategoryID *string
	WeightClassID *string
	Reshel        float64
	McCullough    float64
}

// classifyRegistration assigns the age category and weight class and resolves
// both coefficients. Without tables the coefficients are 1.0.
func classifyRegistration(reg models.Registration, contestDate string, ages []scoring.AgeCategory, classes []scoring.WeightClass, tables *scoring.Tables) classification {
	c := classification{Reshel: 1.0, McCullough: 1.0}
	if cat, ok := scoring.MatchAgeCategory(reg.Competitor.BirthDate, contestDate, ages); ok {
		id := cat.ID
		c.AgeCategoryID = &id
	}
	if class, ok := scoring.MatchWeightClass(reg.BodyweightKg, reg.Competitor.Gender, classes); ok {
		id := class.ID
		c.WeightClassID = &id
	}
	if tables != nil {
		c.Reshel = scoring.ResolveReshel(reg.BodyweightKg, reg.Competitor.Gender, tables.Reshel)
		c.McCullough = scoring.McCulloughForDates(reg.Competitor.BirthDate, contestDate, tables.McCullough)
	}
	return c
}

// keepUnlessChanged returns the stored coefficient unless the fresh one differs
// by more than the persistence threshold
func keepUnlessChanged(stored, fresh float64) float64 {
	if stored > 0 && math.Abs(fresh-stored) <= CoefficientChangeThreshold {
		return stored
	}
	return fresh
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func derefID(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
