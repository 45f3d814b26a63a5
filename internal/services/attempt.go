package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// AttemptServiceRepository defines the repository methods needed by AttemptService
type AttemptServiceRepository interface {
	repository.ContestRepository
	repository.RegistrationRepository
	repository.AttemptRepository
	repository.SettingsRepository
}

// AttemptService records declared lifts and judging, and tracks who is on the platform
type AttemptService struct {
	log         logger.Logger
	repo        AttemptServiceRepository
	recalc      Recalculator
	broadcaster Broadcaster
}

// NewAttemptService creates a new AttemptService
func NewAttemptService(log logger.Logger, repo AttemptServiceRepository, recalc Recalculator) *AttemptService {
	return &AttemptService{log: log, repo: repo, recalc: recalc}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *AttemptService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Attempt represents a newly declared attempt
type Attempt struct {
	RegistrationID string  `json:"registration_id"`
	LiftKind       string  `json:"lift_kind"`
	AttemptNumber  int     `json:"attempt_number"`
	WeightKg       float64 `json:"weight_kg"`
	Status         string  `json:"status,omitempty"`
}

// AttemptUpdate carries the fields to change; nil keeps the stored value
type AttemptUpdate struct {
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Status   *string  `json:"status,omitempty"`
}

func currentLifterKey(contestID string) string {
	return "current_lifter:" + contestID
}

// ListAttempts returns a registration's attempts in lift order
func (s *AttemptService) ListAttempts(ctx context.Context, registrationID string) ([]models.Attempt, error) {
	if _, err := s.repo.GetRegistration(ctx, registrationID); err != nil {
		return nil, notFoundOr(err, "registration %s not found", registrationID)
	}
	return s.repo.ListAttempts(ctx, registrationID)
}

// DeclareAttempt records the weight a lifter asks for. A new attempt is Pending
// unless a status is given.
func (s *AttemptService) DeclareAttempt(ctx context.Context, in Attempt) (*models.Attempt, error) {
	kind, ok := scoring.ParseLiftKind(in.LiftKind)
	if !ok {
		return nil, ErrInvalidLiftKind
	}
	if in.AttemptNumber < 1 || in.AttemptNumber > 3 {
		return nil, ErrInvalidAttemptNum
	}
	if in.WeightKg <= 0 {
		return nil, ErrInvalidAttemptKg
	}
	status := scoring.StatusPending
	if in.Status != "" {
		if status, ok = scoring.ParseAttemptStatus(in.Status); !ok {
			return nil, ErrInvalidStatus
		}
	}

	reg, err := s.repo.GetRegistration(ctx, in.RegistrationID)
	if err != nil {
		return nil, notFoundOr(err, "registration %s not found", in.RegistrationID)
	}

	a := &models.Attempt{
		RegistrationID: reg.ID,
		LiftKind:       string(kind),
		AttemptNumber:  in.AttemptNumber,
		WeightKg:       in.WeightKg,
		Status:         string(status),
	}
	if err := s.repo.CreateAttempt(ctx, a); err != nil {
		return nil, conflictOr(err, "%s attempt %d is already declared", kind, in.AttemptNumber)
	}
	s.log.Debug("Attempt declared", "contest_id", reg.ContestID, "registration_id", reg.ID,
		"lift", a.LiftKind, "attempt", a.AttemptNumber, "weight_kg", a.WeightKg)

	return s.afterWrite(ctx, reg.ContestID, a.ID)
}

// UpdateAttempt changes the declared weight and/or judging status
func (s *AttemptService) UpdateAttempt(ctx context.Context, id string, u AttemptUpdate) (*models.Attempt, error) {
	a, err := s.repo.GetAttempt(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "attempt %s not found", id)
	}
	if u.WeightKg != nil {
		if *u.WeightKg <= 0 {
			return nil, ErrInvalidAttemptKg
		}
		a.WeightKg = *u.WeightKg
	}
	if u.Status != nil {
		status, ok := scoring.ParseAttemptStatus(*u.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		a.Status = string(status)
	}

	reg, err := s.repo.GetRegistration(ctx, a.RegistrationID)
	if err != nil {
		return nil, notFoundOr(err, "registration %s not found", a.RegistrationID)
	}
	if err := s.repo.UpdateAttempt(ctx, a); err != nil {
		return nil, notFoundOr(err, "attempt %s not found", id)
	}
	s.log.Info("Attempt updated", "contest_id", reg.ContestID, "attempt_id", id,
		"lift", a.LiftKind, "attempt", a.AttemptNumber, "weight_kg", a.WeightKg, "status", a.Status)

	return s.afterWrite(ctx, reg.ContestID, id)
}

// SetAttemptStatus records the referees' decision
func (s *AttemptService) SetAttemptStatus(ctx context.Context, id, status string) (*models.Attempt, error) {
	return s.UpdateAttempt(ctx, id, AttemptUpdate{Status: &status})
}

// DeleteAttempt removes an attempt and recalculates its contest
func (s *AttemptService) DeleteAttempt(ctx context.Context, id string) error {
	a, err := s.repo.GetAttempt(ctx, id)
	if err != nil {
		return notFoundOr(err, "attempt %s not found", id)
	}
	reg, err := s.repo.GetRegistration(ctx, a.RegistrationID)
	if err != nil {
		return notFoundOr(err, "registration %s not found", a.RegistrationID)
	}
	if err := s.repo.DeleteAttempt(ctx, id); err != nil {
		return notFoundOr(err, "attempt %s not found", id)
	}

	recalculateAfterWrite(ctx, s.log, s.recalc, reg.ContestID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAttemptUpdated(reg.ContestID, *a)
	}
	return nil
}

func (s *AttemptService) afterWrite(ctx context.Context, contestID, attemptID string) (*models.Attempt, error) {
	recalculateAfterWrite(ctx, s.log, s.recalc, contestID)

	a, err := s.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAttemptUpdated(contestID, *a)
	}
	return a, nil
}

// SetCurrentLifter records which registration is on the platform and tells every scoreboard
func (s *AttemptService) SetCurrentLifter(ctx context.Context, lifter models.CurrentLifter) (*models.CurrentLifter, error) {
	if _, err := s.repo.GetContest(ctx, lifter.ContestID); err != nil {
		return nil, notFoundOr(err, "contest %s not found", lifter.ContestID)
	}
	reg, err := s.repo.GetRegistration(ctx, lifter.RegistrationID)
	if err != nil {
		return nil, notFoundOr(err, "registration %s not found", lifter.RegistrationID)
	}
	if reg.ContestID != lifter.ContestID {
		return nil, apperrors.Validationf("registration %s is not in contest %s", reg.ID, lifter.ContestID)
	}
	if lifter.LiftKind != "" {
		kind, ok := scoring.ParseLiftKind(lifter.LiftKind)
		if !ok {
			return nil, ErrInvalidLiftKind
		}
		lifter.LiftKind = string(kind)
	}
	if lifter.AttemptNumber != 0 && (lifter.AttemptNumber < 1 || lifter.AttemptNumber > 3) {
		return nil, ErrInvalidAttemptNum
	}
	lifter.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(lifter)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetSetting(ctx, currentLifterKey(lifter.ContestID), string(data)); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastCurrentLifter(lifter)
	}
	return &lifter, nil
}

// GetCurrentLifter returns the lifter on the platform, or ErrNoCurrentLifter
func (s *AttemptService) GetCurrentLifter(ctx context.Context, contestID string) (*models.CurrentLifter, error) {
	value, err := s.repo.GetSetting(ctx, currentLifterKey(contestID))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoCurrentLifter
		}
		return nil, err
	}
	var lifter models.CurrentLifter
	if err := json.Unmarshal([]byte(value), &lifter); err != nil || lifter.RegistrationID == "" {
		return nil, ErrNoCurrentLifter
	}
	return &lifter, nil
}
