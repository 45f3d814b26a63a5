package services

import (
	"context"
	"math"
	"strings"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// RegistrationServiceRepository defines the repository methods needed by RegistrationService
type RegistrationServiceRepository interface {
	repository.ContestRepository
	repository.CompetitorRepository
	repository.RegistrationRepository
	repository.SettingsRepository
}

// RegistrationService enters competitors into contests and keeps their
// category, class and coefficients current
type RegistrationService struct {
	log    logger.Logger
	repo   RegistrationServiceRepository
	tables TableProvider
	recalc Recalculator
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(log logger.Logger, repo RegistrationServiceRepository, tables TableProvider, recalc Recalculator) *RegistrationService {
	return &RegistrationService{log: log, repo: repo, tables: tables, recalc: recalc}
}

// Registration represents a new entry of a competitor into a contest
type Registration struct {
	ContestID    string   `json:"contest_id"`
	CompetitorID string   `json:"competitor_id"`
	BodyweightKg float64  `json:"bodyweight_kg"`
	LotNumber    int      `json:"lot_number"`
	Flight       string   `json:"flight"`
	Labels       []string `json:"labels"`
}

// RegistrationUpdate carries the fields to change; nil keeps the stored value
type RegistrationUpdate struct {
	BodyweightKg *float64 `json:"bodyweight_kg,omitempty"`
	LotNumber    *int     `json:"lot_number,omitempty"`
	Flight       *string  `json:"flight,omitempty"`
	Labels       []string `json:"labels,omitempty"`
}

// normalizeLabels trims and de-duplicates labels. No labels at all means Open.
func normalizeLabels(labels []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[strings.ToLower(l)] {
			continue
		}
		seen[strings.ToLower(l)] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		out = append(out, scoring.OpenLabel)
	}
	return out
}

// ListRegistrations returns a contest's registrations joined with competitor data
func (s *RegistrationService) ListRegistrations(ctx context.Context, contestID string) ([]models.Registration, error) {
	if _, err := s.repo.GetContest(ctx, contestID); err != nil {
		return nil, notFoundOr(err, "contest %s not found", contestID)
	}
	return s.repo.ListRegistrations(ctx, contestID)
}

// GetRegistration returns a registration or a NotFound error
func (s *RegistrationService) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := s.repo.GetRegistration(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "registration %s not found", id)
	}
	return reg, nil
}

// CreateRegistration registers a competitor, classifies them and recalculates the contest
func (s *RegistrationService) CreateRegistration(ctx context.Context, in Registration) (*models.Registration, error) {
	bodyweight := roundBodyweight(in.BodyweightKg)
	if bodyweight <= 0 {
		return nil, ErrInvalidBodyweight
	}
	contest, err := s.repo.GetContest(ctx, in.ContestID)
	if err != nil {
		return nil, notFoundOr(err, "contest %s not found", in.ContestID)
	}
	competitor, err := s.repo.GetCompetitor(ctx, in.CompetitorID)
	if err != nil {
		return nil, notFoundOr(err, "competitor %s not found", in.CompetitorID)
	}

	reg := &models.Registration{
		ContestID:    contest.ID,
		CompetitorID: competitor.ID,
		BodyweightKg: bodyweight,
		LotNumber:    in.LotNumber,
		Flight:       strings.TrimSpace(in.Flight),
		Labels:       normalizeLabels(in.Labels),
		Competitor:   *competitor,
	}
	if err := s.classify(ctx, contest, reg); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, conflictOr(err, "competitor %s is already registered in contest %s", competitor.ID, contest.ID)
	}
	s.log.Info("Competitor registered", "contest_id", contest.ID, "registration_id", reg.ID, "competitor_id", competitor.ID)

	recalculateAfterWrite(ctx, s.log, s.recalc, contest.ID)
	return s.repo.GetRegistration(ctx, reg.ID)
}

// UpdateRegistration changes weigh-in data and reclassifies the lifter
func (s *RegistrationService) UpdateRegistration(ctx context.Context, id string, u RegistrationUpdate) (*models.Registration, error) {
	reg, err := s.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.BodyweightKg != nil {
		bodyweight := roundBodyweight(*u.BodyweightKg)
		if bodyweight <= 0 {
			return nil, ErrInvalidBodyweight
		}
		reg.BodyweightKg = bodyweight
	}
	if u.LotNumber != nil {
		reg.LotNumber = *u.LotNumber
	}
	if u.Flight != nil {
		reg.Flight = strings.TrimSpace(*u.Flight)
	}
	if u.Labels != nil {
		reg.Labels = normalizeLabels(u.Labels)
	}

	contest, err := s.repo.GetContest(ctx, reg.ContestID)
	if err != nil {
		return nil, notFoundOr(err, "contest %s not found", reg.ContestID)
	}
	if err := s.classify(ctx, contest, reg); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRegistration(ctx, reg); err != nil {
		return nil, notFoundOr(err, "registration %s not found", id)
	}

	recalculateAfterWrite(ctx, s.log, s.recalc, reg.ContestID)
	return s.repo.GetRegistration(ctx, id)
}

// DeleteRegistration withdraws a lifter from a contest
func (s *RegistrationService) DeleteRegistration(ctx context.Context, id string) error {
	reg, err := s.GetRegistration(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRegistration(ctx, id); err != nil {
		return notFoundOr(err, "registration %s not found", id)
	}
	s.log.Info("Registration deleted", "contest_id", reg.ContestID, "registration_id", id)
	recalculateAfterWrite(ctx, s.log, s.recalc, reg.ContestID)
	return nil
}

func (s *RegistrationService) classify(ctx context.Context, contest *models.Contest, reg *models.Registration) error {
	if err := ensureDescriptors(ctx, s.repo, contest.ID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal, "seed contest descriptors")
	}
	ages, err := s.repo.ListAgeCategories(ctx, contest.ID)
	if err != nil {
		return err
	}
	classes, err := s.repo.ListWeightClasses(ctx, contest.ID)
	if err != nil {
		return err
	}

	var tables *scoring.Tables
	if s.tables != nil {
		tables = s.tables.CoefficientTables()
	}
	c := classifyRegistration(*reg, contest.ContestDate, ages, classes, tables)
	reg.AgeCategoryID = c.AgeCategoryID
	reg.WeightClassID = c.WeightClassID
	reg.ReshelCoefficient = c.Reshel
	reg.McCulloughCoefficient = c.McCullough
	return nil
}

// roundBodyweight snaps a weigh-in to the 0.01 kg the weight-class bounds are written in
func roundBodyweight(kg float64) float64 {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return 0
	}
	return math.Round(kg*100) / 100
}
