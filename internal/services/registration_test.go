package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/scoring"
	"github.com/abrezinsky/liftmeet/internal/services"
)

func TestRegistrationService_CreateValidation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)
	comp, err := s.competitors.CreateCompetitor(ctx, services.Competitor{
		FirstName: "Max", LastName: "Power", Gender: "Male", BirthDate: "1990-01-01",
	})
	require.NoError(t, err)

	_, err = s.registrations.CreateRegistration(ctx, services.Registration{ContestID: c.ID, CompetitorID: comp.ID})
	assert.ErrorIs(t, err, services.ErrInvalidBodyweight)

	_, err = s.registrations.CreateRegistration(ctx, services.Registration{ContestID: "missing", CompetitorID: comp.ID, BodyweightKg: 80})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = s.registrations.CreateRegistration(ctx, services.Registration{ContestID: c.ID, CompetitorID: "missing", BodyweightKg: 80})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = s.registrations.CreateRegistration(ctx, services.Registration{ContestID: c.ID, CompetitorID: comp.ID, BodyweightKg: 80})
	require.NoError(t, err)
	_, err = s.registrations.CreateRegistration(ctx, services.Registration{ContestID: c.ID, CompetitorID: comp.ID, BodyweightKg: 81})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestRegistrationService_Classification(t *testing.T) {
	s := newStack(t)
	c := s.contest(t)

	tests := []struct {
		name     string
		gender   string
		birth    string
		bw       float64
		ageCode  string
		weightCd string
	}{
		{"men's 83", "Male", "1990-01-01", 82.5, "SENIOR", "83"},
		{"on the 83 limit", "Male", "1990-01-01", 83, "SENIOR", "83"},
		{"just over 83", "Male", "1990-01-01", 83.5, "SENIOR", "93"},
		{"men's 93", "Male", "1980-01-01", 90, "MASTERS1", "93"},
		{"women's 63", "Female", "2008-01-01", 60, "SUBJUNIOR", "63"},
		{"women's open", "Female", "2003-01-01", 95, "JUNIOR", "84+"},
		{"men's lightest", "Male", "1950-06-01", 52, "MASTERS4", "59"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := s.lifter(t, c.ID, string(rune('A'+i)), tt.gender, tt.birth, "", tt.bw)
			assert.Equal(t, tt.ageCode, reg.AgeCategoryCode)
			assert.Equal(t, tt.weightCd, reg.WeightClassCode)
			assert.Equal(t, []string{scoring.OpenLabel}, reg.Labels)
			assert.Greater(t, reg.ReshelCoefficient, 0.0)
			assert.GreaterOrEqual(t, reg.McCulloughCoefficient, 1.0)
		})
	}
}

func TestRegistrationService_RoundsBodyweight(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)

	tests := []struct {
		name     string
		bw       float64
		stored   float64
		weightCd string
	}{
		{"between 59 and 59.01 rounds down", 59.004, 59, "59"},
		{"between 59 and 59.01 rounds up", 59.006, 59.01, "66"},
		{"between 120 and 120.01", 120.003, 120, "120"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := s.lifter(t, c.ID, string(rune('A'+i)), "Male", "1990-01-01", "", tt.bw)
			assert.Equal(t, tt.stored, reg.BodyweightKg)
			assert.Equal(t, tt.weightCd, reg.WeightClassCode)
		})
	}

	comp, err := s.competitors.CreateCompetitor(ctx, services.Competitor{
		FirstName: "Tiny", LastName: "Tim", Gender: "Male", BirthDate: "1990-01-01",
	})
	require.NoError(t, err)
	_, err = s.registrations.CreateRegistration(ctx, services.Registration{ContestID: c.ID, CompetitorID: comp.ID, BodyweightKg: 0.004})
	assert.ErrorIs(t, err, services.ErrInvalidBodyweight)

	reg := s.lifter(t, c.ID, "Zed", "Female", "1990-01-01", "", 60)
	bw := 63.005
	updated, err := s.registrations.UpdateRegistration(ctx, reg.ID, services.RegistrationUpdate{BodyweightKg: &bw})
	require.NoError(t, err)
	assert.NotEqual(t, "84+", updated.WeightClassCode)
	assert.InDelta(t, 63.0, updated.BodyweightKg, 0.011)
}

func TestRegistrationService_Labels(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)
	comp, err := s.competitors.CreateCompetitor(ctx, services.Competitor{
		FirstName: "Rae", LastName: "Lee", Gender: "Female", BirthDate: "1991-01-01",
	})
	require.NoError(t, err)

	reg, err := s.registrations.CreateRegistration(ctx, services.Registration{
		ContestID: c.ID, CompetitorID: comp.ID, BodyweightKg: 57, Flight: " A ",
		Labels: []string{" Open ", "Raw", "raw", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Open", "Raw"}, reg.Labels)
	assert.Equal(t, "A", reg.Flight)
}

func TestRegistrationService_UpdateReclassifies(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)
	reg := s.lifter(t, c.ID, "Sam", "Male", "1990-01-01", "Iron", 82.5)
	before := reg.ReshelCoefficient

	bw := 100.0
	lot := 7
	updated, err := s.registrations.UpdateRegistration(ctx, reg.ID, services.RegistrationUpdate{BodyweightKg: &bw, LotNumber: &lot})
	require.NoError(t, err)
	assert.Equal(t, "105", updated.WeightClassCode)
	assert.Equal(t, 7, updated.LotNumber)
	assert.NotEqual(t, before, updated.ReshelCoefficient)
	assert.Equal(t, []string{scoring.OpenLabel}, updated.Labels)

	bad := -1.0
	_, err = s.registrations.UpdateRegistration(ctx, reg.ID, services.RegistrationUpdate{BodyweightKg: &bad})
	assert.ErrorIs(t, err, services.ErrInvalidBodyweight)

	_, err = s.registrations.UpdateRegistration(ctx, "missing", services.RegistrationUpdate{})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestRegistrationService_ListAndDelete(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)
	a := s.lifter(t, c.ID, "Ada", "Female", "1990-01-01", "Iron", 60)
	b := s.lifter(t, c.ID, "Bo", "Male", "1990-01-01", "Iron", 80)
	s.fullTotal(t, b.ID, 150, 100, 200)

	regs, err := s.registrations.ListRegistrations(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 2)

	_, err = s.registrations.ListRegistrations(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, s.registrations.DeleteRegistration(ctx, b.ID))
	rows, err := s.results.GetResults(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].RegistrationID)

	err = s.registrations.DeleteRegistration(ctx, b.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
