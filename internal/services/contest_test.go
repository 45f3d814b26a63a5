package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
	"github.com/abrezinsky/liftmeet/internal/repository/mock"
	"github.com/abrezinsky/liftmeet/internal/scoring"
	"github.com/abrezinsky/liftmeet/internal/services"
	"github.com/abrezinsky/liftmeet/internal/testutil"
)

func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func TestContestService_CreateValidation(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input services.Contest
		want  error
	}{
		{"missing name", services.Contest{Name: "  ", ContestDate: "2025-01-01", Discipline: "Powerlifting"}, services.ErrMissingContestName},
		{"bad date", services.Contest{Name: "Meet", ContestDate: "01/01/2025", Discipline: "Powerlifting"}, services.ErrInvalidDate},
		{"bad discipline", services.Contest{Name: "Meet", ContestDate: "2025-01-01", Discipline: "Strongman"}, services.ErrInvalidDiscipline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.contests.CreateContest(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
		})
	}

	_, err := s.contests.CreateContest(ctx, services.Contest{
		Name: "Meet", ContestDate: "2025-01-01", Discipline: "Powerlifting", BarWeightMaleKg: ptrFloat(0),
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestContestService_CreateSeedsDescriptors(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	c, err := s.contests.CreateContest(ctx, services.Contest{
		Name: " Spring Open ", ContestDate: "2025-04-01", Discipline: "bench",
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring Open", c.Name)
	assert.Equal(t, "Bench", c.Discipline)

	ages, err := s.contests.ListAgeCategories(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, ages, 7)
	assert.Equal(t, "SUBJUNIOR", ages[0].Code)

	classes, err := s.contests.ListWeightClasses(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, classes, 16)

	got, err := s.contests.GetContest(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
}

// TestContestService_DeletedDescriptorsStayDeleted tests that seeding only happens once per contest
func TestContestService_DeletedDescriptorsStayDeleted(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)

	ages, err := s.contests.ListAgeCategories(ctx, c.ID)
	require.NoError(t, err)
	for _, a := range ages {
		require.NoError(t, s.contests.DeleteAgeCategory(ctx, c.ID, a.ID))
	}
	classes, err := s.contests.ListWeightClasses(ctx, c.ID)
	require.NoError(t, err)
	for _, wc := range classes {
		require.NoError(t, s.contests.DeleteWeightClass(ctx, c.ID, wc.ID))
	}

	ages, err = s.contests.ListAgeCategories(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, ages)
	classes, err = s.contests.ListWeightClasses(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, classes)

	// a lifter in a contest without descriptors still gets results
	reg := s.lifter(t, c.ID, "Nia", "Female", "1990-01-01", "Iron", 60)
	assert.Nil(t, reg.AgeCategoryID)
	assert.Nil(t, reg.WeightClassID)
	s.fullTotal(t, reg.ID, 100, 50, 120)

	rows, err := s.results.GetResults(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].PlaceOpen)
	assert.Nil(t, rows[0].PlaceInAgeClass)
	assert.Nil(t, rows[0].PlaceInWeightClass)
}

func TestContestService_AgeCategoryCRUD(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)

	created, err := s.contests.CreateAgeCategory(ctx, c.ID, scoring.AgeCategory{Code: " teen ", MinAge: ptrInt(13), MaxAge: ptrInt(15), SortOrder: 0})
	require.NoError(t, err)
	assert.Equal(t, "TEEN", created.Code)
	assert.NotEmpty(t, created.ID)

	_, err = s.contests.CreateAgeCategory(ctx, c.ID, scoring.AgeCategory{Code: "teen"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = s.contests.CreateAgeCategory(ctx, c.ID, scoring.AgeCategory{Code: "X", MinAge: ptrInt(30), MaxAge: ptrInt(20)})
	assert.ErrorIs(t, err, services.ErrInvalidDescriptor)

	_, err = s.contests.CreateAgeCategory(ctx, c.ID, scoring.AgeCategory{Code: ""})
	assert.ErrorIs(t, err, services.ErrInvalidDescriptor)

	_, err = s.contests.CreateAgeCategory(ctx, "missing", scoring.AgeCategory{Code: "OK"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	updated, err := s.contests.UpdateAgeCategory(ctx, c.ID, created.ID, scoring.AgeCategory{Code: "YOUTH", MinAge: ptrInt(12), MaxAge: ptrInt(15)})
	require.NoError(t, err)
	assert.Equal(t, "YOUTH", updated.Code)

	_, err = s.contests.UpdateAgeCategory(ctx, c.ID, "missing", scoring.AgeCategory{Code: "NONE"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, s.contests.DeleteAgeCategory(ctx, c.ID, created.ID))
	err = s.contests.DeleteAgeCategory(ctx, c.ID, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestContestService_WeightClassCRUD(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)

	_, err := s.contests.CreateWeightClass(ctx, c.ID, scoring.WeightClass{Code: "83", Gender: "Male"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "default ladder already has a men's 83")

	created, err := s.contests.CreateWeightClass(ctx, c.ID, scoring.WeightClass{Code: "43", Gender: "f", MaxWeight: ptrFloat(43), SortOrder: 0})
	require.NoError(t, err)
	assert.Equal(t, scoring.GenderFemale, created.Gender)

	_, err = s.contests.CreateWeightClass(ctx, c.ID, scoring.WeightClass{Code: "50", Gender: "Other"})
	assert.ErrorIs(t, err, services.ErrInvalidGender)

	_, err = s.contests.CreateWeightClass(ctx, c.ID, scoring.WeightClass{Code: "50", Gender: "Male", MinWeight: ptrFloat(60), MaxWeight: ptrFloat(50)})
	assert.ErrorIs(t, err, services.ErrInvalidDescriptor)

	_, err = s.contests.UpdateWeightClass(ctx, c.ID, created.ID, scoring.WeightClass{Code: "47", Gender: "Female"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	require.NoError(t, s.contests.DeleteWeightClass(ctx, c.ID, created.ID))
	err = s.contests.DeleteWeightClass(ctx, c.ID, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestContestService_UpdateAndDelete(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)

	updated, err := s.contests.UpdateContest(ctx, c.ID, services.Contest{
		Name: "Winter Classic II", ContestDate: "2025-02-01", Discipline: "Powerlifting", ClampWeightKg: ptrFloat(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "Winter Classic II", updated.Name)
	require.NotNil(t, updated.ClampWeightKg)
	assert.Equal(t, 0.0, *updated.ClampWeightKg)

	_, err = s.contests.UpdateContest(ctx, "missing", services.Contest{Name: "X", ContestDate: "2025-01-01", Discipline: "Squat"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	list, err := s.contests.ListContests(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.contests.DeleteContest(ctx, c.ID))
	_, err = s.contests.GetContest(ctx, c.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.True(t, apperrors.Is(s.contests.DeleteContest(ctx, c.ID), apperrors.ErrNotFound))
}

func TestContestService_ScoreboardQR(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)

	_, err := s.contests.ScoreboardQR(ctx, c.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	require.NoError(t, s.settings.SetBaseURL(ctx, "http://192.168.1.10:8081/"))
	png, err := s.contests.ScoreboardQR(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = s.contests.ScoreboardQR(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestScoreboardURL(t *testing.T) {
	assert.Equal(t, "http://host:8081/api/contests/abc/results", services.ScoreboardURL("http://host:8081/", "abc"))
	assert.Equal(t, "http://host/api/contests/abc/results", services.ScoreboardURL("http://host", "abc"))
}

func TestContestService_RepositoryError(t *testing.T) {
	real := testutil.NewTestRepository(t)
	m := mock.NewRepository(real)
	m.ListContestsError = errors.New("db down")
	s := newStackWithRepo(t, real, m)

	_, err := s.contests.ListContests(context.Background())
	assert.EqualError(t, err, "db down")

	m.ListContestsError = nil
	m.CreateContestError = errors.New("insert failed")
	_, err = s.contests.CreateContest(context.Background(), services.Contest{Name: "A", ContestDate: "2025-01-01", Discipline: "Squat"})
	assert.Error(t, err)
}

func TestDefaultDescriptors(t *testing.T) {
	ages := services.DefaultAgeCategories()
	require.Len(t, ages, 7)
	assert.Nil(t, ages[0].MinAge)
	assert.Equal(t, 18, *ages[0].MaxAge)
	assert.Nil(t, ages[6].MaxAge)

	classes := services.DefaultWeightClasses()
	require.Len(t, classes, 16)
	assert.Equal(t, "59", classes[0].Code)
	assert.Nil(t, classes[0].MinWeight)
	assert.Equal(t, "120+", classes[7].Code)
	assert.Nil(t, classes[7].MaxWeight)
	assert.InDelta(t, 120.01, *classes[7].MinWeight, 1e-9)
	assert.Equal(t, scoring.GenderFemale, classes[8].Gender)
	assert.Equal(t, "84+", classes[15].Code)
}
