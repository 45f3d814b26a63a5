package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/services"
)

func TestCompetitorService_CreateValidation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input services.Competitor
		want  error
	}{
		{"missing first", services.Competitor{LastName: "X", Gender: "Male", BirthDate: "1990-01-01"}, services.ErrMissingName},
		{"missing last", services.Competitor{FirstName: "X", Gender: "Male", BirthDate: "1990-01-01"}, services.ErrMissingName},
		{"bad gender", services.Competitor{FirstName: "X", LastName: "Y", Gender: "robot", BirthDate: "1990-01-01"}, services.ErrInvalidGender},
		{"bad date", services.Competitor{FirstName: "X", LastName: "Y", Gender: "Male", BirthDate: "1990-13-01"}, services.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.competitors.CreateCompetitor(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompetitorService_CreateNormalizes(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	c, err := s.competitors.CreateCompetitor(ctx, services.Competitor{
		FirstName: " Jo ", LastName: "Smith", Gender: "f", BirthDate: "1994-05-05", Club: "  Barbell Club ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jo", c.FirstName)
	assert.Equal(t, "Female", c.Gender)
	assert.Equal(t, "Barbell Club", c.Club)
	assert.Equal(t, "Jo Smith", c.FullName())

	got, err := s.competitors.GetCompetitor(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	list, err := s.competitors.ListCompetitors(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// TestCompetitorService_UpdateReclassifies tests that a birth date correction moves the lifter's age category
func TestCompetitorService_UpdateReclassifies(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)
	reg := s.lifter(t, c.ID, "Kim", "Male", "1990-01-01", "Iron", 80)
	assert.Equal(t, "SENIOR", reg.AgeCategoryCode)

	_, err := s.competitors.UpdateCompetitor(ctx, reg.CompetitorID, services.Competitor{
		FirstName: "Kim", LastName: "Lifter", Gender: "Male", BirthDate: "1970-01-01", Club: "Iron",
	})
	require.NoError(t, err)

	got, err := s.registrations.GetRegistration(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "MASTERS2", got.AgeCategoryCode)
	assert.Greater(t, got.McCulloughCoefficient, 1.0)

	_, err = s.competitors.UpdateCompetitor(ctx, "missing", services.Competitor{
		FirstName: "A", LastName: "B", Gender: "Male", BirthDate: "1990-01-01",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCompetitorService_Delete(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)
	reg := s.lifter(t, c.ID, "Lou", "Male", "1990-01-01", "Iron", 80)
	s.fullTotal(t, reg.ID, 100, 80, 150)

	require.NoError(t, s.competitors.DeleteCompetitor(ctx, reg.CompetitorID))

	_, err := s.competitors.GetCompetitor(ctx, reg.CompetitorID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	rows, err := s.results.GetResults(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	err = s.competitors.DeleteCompetitor(ctx, reg.CompetitorID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
