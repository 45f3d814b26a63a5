package services

import (
	"context"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// PlateServiceRepository defines the repository methods needed by PlateService
type PlateServiceRepository interface {
	repository.ContestRepository
	repository.RegistrationRepository
	repository.AttemptRepository
	repository.PlateRepository
}

// Equipment is the server-wide bar and clamp configuration
type Equipment struct {
	BarWeightMaleKg   float64
	BarWeightFemaleKg float64
	ClampWeightKg     float64 // per clamp
}

// PlateService manages the plate inventory and works out bar loading
type PlateService struct {
	log       logger.Logger
	repo      PlateServiceRepository
	equipment Equipment
}

// NewPlateService creates a new PlateService
func NewPlateService(log logger.Logger, repo PlateServiceRepository, equipment Equipment) *PlateService {
	return &PlateService{log: log, repo: repo, equipment: equipment}
}

// PlanRequest asks for a plate plan. ContestID and BarWeightKg are optional.
type PlanRequest struct {
	TargetKg    float64
	Gender      string
	ContestID   string
	BarWeightKg *float64
}

// ListPlates returns the inventory, heaviest first
func (s *PlateService) ListPlates(ctx context.Context) ([]models.Plate, error) {
	return s.repo.ListPlates(ctx)
}

func validatePlate(p scoring.Plate) error {
	if p.WeightKg <= 0 || p.PairsAvailable < 0 {
		return ErrInvalidPlate
	}
	return nil
}

// CreatePlate adds a denomination. Each weight appears once.
func (s *PlateService) CreatePlate(ctx context.Context, p scoring.Plate) (*models.Plate, error) {
	if err := validatePlate(p); err != nil {
		return nil, err
	}
	plate := &models.Plate{Plate: p}
	if err := s.repo.CreatePlate(ctx, plate); err != nil {
		return nil, conflictOr(err, "a %g kg plate already exists", p.WeightKg)
	}
	return plate, nil
}

// UpdatePlate replaces a denomination's weight, pair count and color
func (s *PlateService) UpdatePlate(ctx context.Context, id string, p scoring.Plate) (*models.Plate, error) {
	if err := validatePlate(p); err != nil {
		return nil, err
	}
	plate := &models.Plate{ID: id, Plate: p}
	if err := s.repo.UpdatePlate(ctx, plate); err != nil {
		err = notFoundOr(err, "plate %s not found", id)
		return nil, conflictOr(err, "a %g kg plate already exists", p.WeightKg)
	}
	return plate, nil
}

// DeletePlate removes a denomination from the inventory
func (s *PlateService) DeletePlate(ctx context.Context, id string) error {
	if err := s.repo.DeletePlate(ctx, id); err != nil {
		return notFoundOr(err, "plate %s not found", id)
	}
	return nil
}

// PlanForTarget loads the bar for a target weight. The bar is the explicit
// override, else the contest's bar for the gender, else the configured one.
func (s *PlateService) PlanForTarget(ctx context.Context, req PlanRequest) (*scoring.PlatePlan, error) {
	if req.TargetKg <= 0 {
		return nil, ErrInvalidTargetKg
	}
	if req.BarWeightKg != nil && *req.BarWeightKg <= 0 {
		return nil, apperrors.Validation("bar weight must be positive")
	}

	var contest *models.Contest
	if req.ContestID != "" {
		c, err := s.repo.GetContest(ctx, req.ContestID)
		if err != nil {
			return nil, notFoundOr(err, "contest %s not found", req.ContestID)
		}
		contest = c
	}

	bar, clamp := s.barAndClamp(contest, req.Gender)
	if req.BarWeightKg != nil {
		bar = *req.BarWeightKg
	}

	rows, err := s.repo.ListPlates(ctx)
	if err != nil {
		return nil, err
	}
	inventory := make([]scoring.Plate, 0, len(rows))
	for _, p := range rows {
		inventory = append(inventory, p.Plate)
	}

	plan := scoring.BuildPlatePlan(inventory, req.TargetKg, bar, clamp)
	if !plan.Exact {
		s.log.Debug("Target not loadable exactly", "target_kg", req.TargetKg, "loaded_kg", plan.TotalLoaded)
	}
	return &plan, nil
}

// PlanForAttempt loads the bar for a declared attempt using the lifter's gender and contest
func (s *PlateService) PlanForAttempt(ctx context.Context, attemptID string) (*scoring.PlatePlan, error) {
	a, err := s.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, notFoundOr(err, "attempt %s not found", attemptID)
	}
	reg, err := s.repo.GetRegistration(ctx, a.RegistrationID)
	if err != nil {
		return nil, notFoundOr(err, "registration %s not found", a.RegistrationID)
	}
	return s.PlanForTarget(ctx, PlanRequest{
		TargetKg:  a.WeightKg,
		Gender:    reg.Competitor.Gender,
		ContestID: reg.ContestID,
	})
}

// barAndClamp picks the per-gender bar and the per-clamp weight. Unknown
// genders use the men's bar.
func (s *PlateService) barAndClamp(contest *models.Contest, gender string) (bar, clamp float64) {
	female := false
	if g, ok := scoring.ParseGender(gender); ok && g == scoring.GenderFemale {
		female = true
	}

	bar = s.equipment.BarWeightMaleKg
	if female {
		bar = s.equipment.BarWeightFemaleKg
	}
	clamp = s.equipment.ClampWeightKg

	if contest != nil {
		if female && contest.BarWeightFemaleKg != nil {
			bar = *contest.BarWeightFemaleKg
		}
		if !female && contest.BarWeightMaleKg != nil {
			bar = *contest.BarWeightMaleKg
		}
		if contest.ClampWeightKg != nil {
			clamp = *contest.ClampWeightKg
		}
	}
	return bar, clamp
}
