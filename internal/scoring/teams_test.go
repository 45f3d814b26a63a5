package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/liftmeet/internal/scoring"
)

func member(id, club, gender string, overall, squat float64) scoring.TeamMember {
	return scoring.TeamMember{
		RegistrationID: id,
		Club:           club,
		Gender:         gender,
		BodyweightKg:   80,
		Result: scoring.Result{
			CoefficientPoints: overall,
			TotalWeight:       overall,
			SquatPoints:       squat,
			BestSquat:         squat,
		},
	}
}

func realIDs(row scoring.TeamResultRow) []string {
	var ids []string
	for _, c := range row.Contributors {
		if !c.IsPlaceholder {
			ids = append(ids, c.RegistrationID)
		}
	}
	return ids
}

// TestComputeTeamResults_GenderQuota tests the 4 men + 1 woman selection per metric
func TestComputeTeamResults_GenderQuota(t *testing.T) {
	members := []scoring.TeamMember{
		member("m1", "Iron", "Male", 500, 150),
		member("m2", "Iron", "Male", 450, 140),
		member("m3", "Iron", "Male", 400, 130),
		member("m4", "Iron", "Male", 350, 100),
		member("m5", "Iron", "Male", 300, 200),
		member("f1", "Iron", "Female", 420, 90),
		member("f2", "Iron", "Female", 380, 95),
	}
	boards := scoring.ComputeTeamResults(members)

	require.Len(t, boards.Overall, 1)
	overall := boards.Overall[0]
	assert.Equal(t, []string{"m1", "m2", "f1", "m3", "m4"}, realIDs(overall))
	assert.InDelta(t, 500+450+400+350+420, overall.TotalPoints, 1e-9)
	assert.Equal(t, 1, overall.Rank)

	require.Len(t, boards.Squat, 1)
	squat := boards.Squat[0]
	assert.Equal(t, []string{"m5", "m1", "m2", "m3", "f2"}, realIDs(squat))
	assert.InDelta(t, 200+150+140+130+95, squat.TotalPoints, 1e-9)

	assert.Equal(t, overall.TotalPoints, overall.OverallPoints)
	assert.Equal(t, overall.TotalPoints, squat.OverallPoints)
	assert.Equal(t, overall.TotalPoints, boards.Board(scoring.MetricDeadlift)[0].OverallPoints)
}

// TestComputeTeamResults_PlaceholderPadding tests that short clubs still report five slots
func TestComputeTeamResults_PlaceholderPadding(t *testing.T) {
	boards := scoring.ComputeTeamResults([]scoring.TeamMember{
		member("a", "Small", "m", 300, 0),
		member("b", "Small", "M", 250, 0),
	})

	require.Len(t, boards.Overall, 1)
	row := boards.Overall[0]
	require.Len(t, row.Contributors, scoring.TeamMaleQuota+scoring.TeamFemaleQuota)

	var realMen, placeholderMen, placeholderWomen int
	for _, c := range row.Contributors {
		switch {
		case !c.IsPlaceholder:
			realMen++
		case c.Gender == scoring.GenderMale:
			placeholderMen++
			assert.Zero(t, c.Points)
		case c.Gender == scoring.GenderFemale:
			placeholderWomen++
			assert.Zero(t, c.Points)
		}
	}
	assert.Equal(t, 2, realMen)
	assert.Equal(t, 2, placeholderMen)
	assert.Equal(t, 1, placeholderWomen)
	assert.InDelta(t, 550.0, row.TotalPoints, 1e-9)
}

// TestComputeTeamResults_Exclusions tests that disqualified lifters, unknown genders and blank clubs are skipped
func TestComputeTeamResults_Exclusions(t *testing.T) {
	dq := member("dq", "Iron", "Male", 900, 0)
	dq.Result.IsDisqualified = true

	boards := scoring.ComputeTeamResults([]scoring.TeamMember{
		dq,
		member("x", "Iron", "Other", 800, 0),
		member("blank", "   ", "Male", 700, 0),
		member("ok", " Iron ", "Male", 100, 0),
	})

	require.Len(t, boards.Overall, 1)
	assert.Equal(t, "Iron", boards.Overall[0].Club)
	assert.Equal(t, []string{"ok"}, realIDs(boards.Overall[0]))
	assert.InDelta(t, 100.0, boards.Overall[0].TotalPoints, 1e-9)
}

// TestComputeTeamResults_CompetitionRanks tests ordering, contributor tie-breaks and shared ranks
func TestComputeTeamResults_CompetitionRanks(t *testing.T) {
	boards := scoring.ComputeTeamResults([]scoring.TeamMember{
		// Alpha and Bravo tie exactly
		member("a1", "Alpha", "Male", 300, 0),
		member("a2", "Alpha", "Male", 200, 0),
		member("b1", "Bravo", "Male", 300, 0),
		member("b2", "Bravo", "Male", 200, 0),
		// Charlie has the same total but a stronger top lifter
		member("c1", "Charlie", "Male", 400, 0),
		member("c2", "Charlie", "Male", 100, 0),
		member("d1", "Delta", "Female", 900, 0),
	})

	var got []string
	var ranks []int
	for _, r := range boards.Overall {
		got = append(got, r.Club)
		ranks = append(ranks, r.Rank)
	}
	assert.Equal(t, []string{"Delta", "Charlie", "Alpha", "Bravo"}, got)
	assert.Equal(t, []int{1, 2, 3, 3}, ranks)
}

// TestComputeTeamResults_Empty tests that no members produce empty scoreboards
func TestComputeTeamResults_Empty(t *testing.T) {
	boards := scoring.ComputeTeamResults(nil)
	for _, metric := range scoring.TeamMetrics {
		assert.Empty(t, boards.Board(metric), metric)
	}
}

// TestSelectGenderQuota tests the bounded selections directly
func TestSelectGenderQuota(t *testing.T) {
	men := []scoring.TeamContributor{
		{RegistrationID: "m1", Gender: scoring.GenderMale, Points: 10},
		{RegistrationID: "m2", Gender: scoring.GenderMale, Points: 30},
		{RegistrationID: "m3", Gender: scoring.GenderMale, Points: 30, Secondary: 1},
	}
	women := []scoring.TeamContributor{
		{RegistrationID: "w1", Gender: scoring.GenderFemale, Points: 20, BodyweightKg: 60},
		{RegistrationID: "w2", Gender: scoring.GenderFemale, Points: 20, BodyweightKg: 55},
	}

	slots := scoring.SelectGenderQuota(men, women, 2, 1)
	require.Len(t, slots, 3)
	assert.Equal(t, "m3", slots[0].RegistrationID)
	assert.Equal(t, "m2", slots[1].RegistrationID)
	assert.Equal(t, "w2", slots[2].RegistrationID, "lighter woman wins the tie")
}
