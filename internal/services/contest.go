package services

import (
	"context"
	"strings"

	"github.com/skip2/go-qrcode"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// ContestServiceRepository defines the repository methods needed by ContestService
type ContestServiceRepository interface {
	repository.ContestRepository
	repository.SettingsRepository
}

// ContestService handles contests and their age/weight descriptors
type ContestService struct {
	log      logger.Logger
	repo     ContestServiceRepository
	settings SettingsServicer
	recalc   Recalculator
}

// NewContestService creates a new ContestService. recalc may be nil, in which
// case descriptor edits do not refresh results.
func NewContestService(log logger.Logger, repo ContestServiceRepository, settings SettingsServicer, recalc Recalculator) *ContestService {
	return &ContestService{log: log, repo: repo, settings: settings, recalc: recalc}
}

// Contest represents a contest for create/update operations
type Contest struct {
	Name              string   `json:"name"`
	Location          string   `json:"location"`
	ContestDate       string   `json:"contest_date"`
	Discipline        string   `json:"discipline"`
	BarWeightMaleKg   *float64 `json:"bar_weight_male_kg,omitempty"`
	BarWeightFemaleKg *float64 `json:"bar_weight_female_kg,omitempty"`
	ClampWeightKg     *float64 `json:"clamp_weight_kg,omitempty"`
}

func (c Contest) normalize() (*models.Contest, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, ErrMissingContestName
	}
	if _, ok := scoring.ParseDate(c.ContestDate); !ok {
		return nil, ErrInvalidDate
	}
	discipline, ok := scoring.ParseDiscipline(c.Discipline)
	if !ok {
		return nil, ErrInvalidDiscipline
	}
	for _, bar := range []*float64{c.BarWeightMaleKg, c.BarWeightFemaleKg} {
		if bar != nil && *bar <= 0 {
			return nil, apperrors.Validation("bar weight must be positive")
		}
	}
	if c.ClampWeightKg != nil && *c.ClampWeightKg < 0 {
		return nil, apperrors.Validation("clamp weight must not be negative")
	}
	return &models.Contest{
		Name:              name,
		Location:          strings.TrimSpace(c.Location),
		ContestDate:       strings.TrimSpace(c.ContestDate),
		Discipline:        string(discipline),
		BarWeightMaleKg:   c.BarWeightMaleKg,
		BarWeightFemaleKg: c.BarWeightFemaleKg,
		ClampWeightKg:     c.ClampWeightKg,
	}, nil
}

// ListContests returns all contests
func (s *ContestService) ListContests(ctx context.Context) ([]models.Contest, error) {
	return s.repo.ListContests(ctx)
}

// GetContest returns a contest or a NotFound error
func (s *ContestService) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	c, err := s.repo.GetContest(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "contest %s not found", id)
	}
	return c, nil
}

// CreateContest validates and stores a contest, then seeds its default descriptors
func (s *ContestService) CreateContest(ctx context.Context, in Contest) (*models.Contest, error) {
	c, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateContest(ctx, c); err != nil {
		return nil, err
	}
	if err := ensureDescriptors(ctx, s.repo, c.ID); err != nil {
		return nil, err
	}
	s.log.Info("Contest created", "contest_id", c.ID, "name", c.Name, "discipline", c.Discipline)
	return s.repo.GetContest(ctx, c.ID)
}

// UpdateContest replaces a contest's fields. Date and discipline changes alter
// every result, so the contest is recalculated.
func (s *ContestService) UpdateContest(ctx context.Context, id string, in Contest) (*models.Contest, error) {
	c, err := in.normalize()
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.UpdateContest(ctx, c); err != nil {
		return nil, notFoundOr(err, "contest %s not found", id)
	}
	s.refresh(ctx, id)
	return s.repo.GetContest(ctx, id)
}

// DeleteContest removes a contest with everything registered in it
func (s *ContestService) DeleteContest(ctx context.Context, id string) error {
	if err := s.repo.DeleteContest(ctx, id); err != nil {
		return notFoundOr(err, "contest %s not found", id)
	}
	s.log.Info("Contest deleted", "contest_id", id)
	return nil
}

// EnsureDescriptors seeds the default age and weight templates into a contest
// that has never been seeded
func (s *ContestService) EnsureDescriptors(ctx context.Context, contestID string) error {
	if _, err := s.GetContest(ctx, contestID); err != nil {
		return err
	}
	return ensureDescriptors(ctx, s.repo, contestID)
}

// ==================== Age Categories ====================

// ListAgeCategories returns a contest's age categories in sort order
func (s *ContestService) ListAgeCategories(ctx context.Context, contestID string) ([]scoring.AgeCategory, error) {
	if err := s.EnsureDescriptors(ctx, contestID); err != nil {
		return nil, err
	}
	return s.repo.ListAgeCategories(ctx, contestID)
}

func validateAgeCategory(c *scoring.AgeCategory) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return ErrInvalidDescriptor
	}
	if c.MinAge != nil && c.MaxAge != nil && *c.MinAge > *c.MaxAge {
		return ErrInvalidDescriptor
	}
	return nil
}

// CreateAgeCategory adds an age category. Codes are unique per contest.
func (s *ContestService) CreateAgeCategory(ctx context.Context, contestID string, c scoring.AgeCategory) (*scoring.AgeCategory, error) {
	if err := validateAgeCategory(&c); err != nil {
		return nil, err
	}
	if _, err := s.GetContest(ctx, contestID); err != nil {
		return nil, err
	}
	c.ID = ""
	if err := s.repo.CreateAgeCategory(ctx, contestID, &c); err != nil {
		return nil, conflictOr(err, "age category %s already exists", c.Code)
	}
	s.refresh(ctx, contestID)
	return &c, nil
}

// UpdateAgeCategory replaces an age category
func (s *ContestService) UpdateAgeCategory(ctx context.Context, contestID, id string, c scoring.AgeCategory) (*scoring.AgeCategory, error) {
	if err := validateAgeCategory(&c); err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.UpdateAgeCategory(ctx, contestID, &c); err != nil {
		err = notFoundOr(err, "age category %s not found", id)
		return nil, conflictOr(err, "age category %s already exists", c.Code)
	}
	s.refresh(ctx, contestID)
	return &c, nil
}

// DeleteAgeCategory removes an age category; registrations in it are reclassified
func (s *ContestService) DeleteAgeCategory(ctx context.Context, contestID, id string) error {
	if err := s.repo.DeleteAgeCategory(ctx, contestID, id); err != nil {
		return notFoundOr(err, "age category %s not found", id)
	}
	s.refresh(ctx, contestID)
	return nil
}

// ==================== Weight Classes ====================

// ListWeightClasses returns a contest's weight classes in sort order
func (s *ContestService) ListWeightClasses(ctx context.Context, contestID string) ([]scoring.WeightClass, error) {
	if err := s.EnsureDescriptors(ctx, contestID); err != nil {
		return nil, err
	}
	return s.repo.ListWeightClasses(ctx, contestID)
}

func validateWeightClass(c *scoring.WeightClass) error {
	c.Code = strings.TrimSpace(c.Code)
	if c.Code == "" {
		return ErrInvalidDescriptor
	}
	g, ok := scoring.ParseGender(string(c.Gender))
	if !ok {
		return ErrInvalidGender
	}
	c.Gender = g
	if c.MinWeight != nil && c.MaxWeight != nil && *c.MinWeight > *c.MaxWeight {
		return ErrInvalidDescriptor
	}
	return nil
}

// CreateWeightClass adds a weight class. Codes are unique per contest and gender.
func (s *ContestService) CreateWeightClass(ctx context.Context, contestID string, c scoring.WeightClass) (*scoring.WeightClass, error) {
	if err := validateWeightClass(&c); err != nil {
		return nil, err
	}
	if _, err := s.GetContest(ctx, contestID); err != nil {
		return nil, err
	}
	c.ID = ""
	if err := s.repo.CreateWeightClass(ctx, contestID, &c); err != nil {
		return nil, conflictOr(err, "weight class %s %s already exists", c.Gender, c.Code)
	}
	s.refresh(ctx, contestID)
	return &c, nil
}

// UpdateWeightClass replaces a weight class
func (s *ContestService) UpdateWeightClass(ctx context.Context, contestID, id string, c scoring.WeightClass) (*scoring.WeightClass, error) {
	if err := validateWeightClass(&c); err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.UpdateWeightClass(ctx, contestID, &c); err != nil {
		err = notFoundOr(err, "weight class %s not found", id)
		return nil, conflictOr(err, "weight class %s %s already exists", c.Gender, c.Code)
	}
	s.refresh(ctx, contestID)
	return &c, nil
}

// DeleteWeightClass removes a weight class; registrations in it are reclassified
func (s *ContestService) DeleteWeightClass(ctx context.Context, contestID, id string) error {
	if err := s.repo.DeleteWeightClass(ctx, contestID, id); err != nil {
		return notFoundOr(err, "weight class %s not found", id)
	}
	s.refresh(ctx, contestID)
	return nil
}

// ScoreboardQR returns a PNG QR code pointing at the contest's public results
func (s *ContestService) ScoreboardQR(ctx context.Context, contestID string) ([]byte, error) {
	if _, err := s.GetContest(ctx, contestID); err != nil {
		return nil, err
	}
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, apperrors.Validation("base URL is not configured")
	}
	url := ScoreboardURL(baseURL, contestID)
	return qrcode.Encode(url, qrcode.Medium, 256)
}

// ScoreboardURL is the public results address of a contest
func ScoreboardURL(baseURL, contestID string) string {
	return strings.TrimRight(baseURL, "/") + "/api/contests/" + contestID + "/results"
}

func (s *ContestService) refresh(ctx context.Context, contestID string) {
	recalculateAfterWrite(ctx, s.log, s.recalc, contestID)
}

// recalculateAfterWrite refreshes results once a write has been committed.
// The write stands even if the pass fails; the next pass picks it up.
func recalculateAfterWrite(ctx context.Context, log logger.Logger, recalc Recalculator, contestID string) {
	if recalc == nil {
		return
	}
	if _, err := recalc.RecalculateContest(ctx, contestID); err != nil {
		log.Error("Recalculation after write failed", "contest_id", contestID, "error", err)
	}
}
