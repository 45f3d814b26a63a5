package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// CompetitorService handles lifters independent of any contest
type CompetitorService struct {
	log    logger.Logger
	repo   repository.CompetitorRepository
	recalc Recalculator
}

// NewCompetitorService creates a new CompetitorService
func NewCompetitorService(log logger.Logger, repo repository.CompetitorRepository, recalc Recalculator) *CompetitorService {
	return &CompetitorService{log: log, repo: repo, recalc: recalc}
}

// Competitor represents a competitor for create/update operations
type Competitor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"`
	Club      string `json:"club"`
}

func (c Competitor) normalize() (*models.Competitor, error) {
	first := strings.TrimSpace(c.FirstName)
	last := strings.TrimSpace(c.LastName)
	if first == "" || last == "" {
		return nil, ErrMissingName
	}
	gender, ok := scoring.ParseGender(c.Gender)
	if !ok {
		return nil, ErrInvalidGender
	}
	if _, ok := scoring.ParseDate(c.BirthDate); !ok {
		return nil, ErrInvalidDate
	}
	return &models.Competitor{
		FirstName: first,
		LastName:  last,
		Gender:    string(gender),
		BirthDate: strings.TrimSpace(c.BirthDate),
		Club:      strings.TrimSpace(c.Club),
	}, nil
}

// ListCompetitors returns all competitors ordered by name
func (s *CompetitorService) ListCompetitors(ctx context.Context) ([]models.Competitor, error) {
	return s.repo.ListCompetitors(ctx)
}

// GetCompetitor returns a competitor or a NotFound error
func (s *CompetitorService) GetCompetitor(ctx context.Context, id string) (*models.Competitor, error) {
	c, err := s.repo.GetCompetitor(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "competitor %s not found", id)
	}
	return c, nil
}

// CreateCompetitor validates and stores a competitor
func (s *CompetitorService) CreateCompetitor(ctx context.Context, in Competitor) (*models.Competitor, error) {
	c, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCompetitor(ctx, c); err != nil {
		return nil, err
	}
	s.log.Debug("Competitor created", "competitor_id", c.ID)
	return s.repo.GetCompetitor(ctx, c.ID)
}

// UpdateCompetitor replaces a competitor. Gender, birth date and club feed
// classification and team scoring, so every contest they are in is recalculated.
func (s *CompetitorService) UpdateCompetitor(ctx context.Context, id string, in Competitor) (*models.Competitor, error) {
	c, err := in.normalize()
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.UpdateCompetitor(ctx, c); err != nil {
		return nil, notFoundOr(err, "competitor %s not found", id)
	}
	s.refreshContests(ctx, id)
	return s.repo.GetCompetitor(ctx, id)
}

// DeleteCompetitor removes a competitor with all their registrations
func (s *CompetitorService) DeleteCompetitor(ctx context.Context, id string) error {
	contestIDs, err := s.repo.ListCompetitorContestIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCompetitor(ctx, id); err != nil {
		return notFoundOr(err, "competitor %s not found", id)
	}
	for _, contestID := range contestIDs {
		recalculateAfterWrite(ctx, s.log, s.recalc, contestID)
	}
	return nil
}

func (s *CompetitorService) refreshContests(ctx context.Context, competitorID string) {
	contestIDs, err := s.repo.ListCompetitorContestIDs(ctx, competitorID)
	if err != nil {
		s.log.Warn("Failed to list competitor contests", "competitor_id", competitorID, "error", err)
		return
	}
	for _, contestID := range contestIDs {
		recalculateAfterWrite(ctx, s.log, s.recalc, contestID)
	}
}
