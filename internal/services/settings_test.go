package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/liftmeet/internal/repository/mock"
	"github.com/abrezinsky/liftmeet/internal/scoring"
	"github.com/abrezinsky/liftmeet/internal/services"
	"github.com/abrezinsky/liftmeet/internal/testutil"
)

func TestSettingsService_BaseURL(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	url, err := s.settings.GetBaseURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)

	require.NoError(t, s.settings.SetBaseURL(ctx, "http://10.0.0.5:8081"))
	url, err = s.settings.GetBaseURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8081", url)
}

func TestSettingsService_AllAndUpdate(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	notes := "warm-up room is downstairs"
	require.NoError(t, s.settings.UpdateSettings(ctx, services.Settings{BaseURL: "http://meet.local", AdminNotes: &notes}))

	all, err := s.settings.AllSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://meet.local", all["base_url"])
	assert.Equal(t, notes, all["admin_notes"])
	assert.Equal(t, scoring.DefaultReshelIncrementKg, all["reshel_increment_kg"])
	assert.Greater(t, all["mccullough_rows"], 0)

	// empty base URL leaves the stored one alone
	require.NoError(t, s.settings.UpdateSettings(ctx, services.Settings{}))
	url, err := s.settings.GetBaseURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://meet.local", url)

	require.NoError(t, s.settings.SetSetting(ctx, "custom", "1"))
	v, err := s.settings.GetSetting(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestSettingsService_ResetTables(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.contest(t)
	reg := s.lifter(t, c.ID, "Zed", "Male", "1990-01-01", "Iron", 80)
	s.fullTotal(t, reg.ID, 150, 100, 200)

	_, err := s.settings.ResetTables(ctx, nil)
	assert.ErrorIs(t, err, services.ErrNoTablesSpecified)

	_, err = s.settings.ResetTables(ctx, []string{"plates"})
	var unknown *services.UnknownTableError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "plates", unknown.Table)

	res, err := s.settings.ResetTables(ctx, []string{"registrations"})
	require.NoError(t, err)
	assert.Equal(t, []string{"results", "attempts", "registrations"}, res.Tables)

	regs, err := s.registrations.ListRegistrations(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, regs)

	// the contest and competitor survive
	_, err = s.contests.GetContest(ctx, c.ID)
	assert.NoError(t, err)
	_, err = s.competitors.GetCompetitor(ctx, reg.CompetitorID)
	assert.NoError(t, err)
}

func TestSettingsService_ResetTablesRepositoryError(t *testing.T) {
	real := testutil.NewTestRepository(t)
	m := mock.NewRepository(real)
	m.ClearTableError = errors.New("locked")
	s := newStackWithRepo(t, real, m)

	_, err := s.settings.ResetTables(context.Background(), []string{"results"})
	assert.EqualError(t, err, "locked")
}

func TestSettingsService_ReloadCoefficients(t *testing.T) {
	repo := testutil.NewTestRepository(t)

	calls := 0
	failNext := false
	cache, err := scoring.NewTableCache(func() (*scoring.Tables, error) {
		calls++
		if failNext {
			return nil, errors.New("table file unreadable")
		}
		return scoring.DefaultTables()
	})
	require.NoError(t, err)

	settings := services.NewSettingsService(quietLogger(), repo, cache)
	before := settings.CoefficientTables()
	require.NotNil(t, before)

	require.NoError(t, settings.ReloadCoefficients(context.Background()))
	assert.Equal(t, 2, calls)

	failNext = true
	err = settings.ReloadCoefficients(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, settings.CoefficientTables(), "previous tables stay active")

	none := services.NewSettingsService(quietLogger(), repo, nil)
	assert.Nil(t, none.CoefficientTables())
	assert.NoError(t, none.ReloadCoefficients(context.Background()))
}
