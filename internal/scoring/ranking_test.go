package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/liftmeet/internal/scoring"
)

func row(id string, points, total, bw float64) scoring.RankedRow {
	return scoring.RankedRow{
		Result:         scoring.Result{CoefficientPoints: points, TotalWeight: total},
		RegistrationID: id,
		BodyweightKg:   bw,
		AgeCategoryID:  "senior",
		WeightClassID:  "83",
		Labels:         []string{"Open"},
	}
}

func placeOf(t *testing.T, rows []scoring.RankedRow, id string, scope scoring.Scope) *int {
	t.Helper()
	for _, r := range rows {
		if r.RegistrationID != id {
			continue
		}
		switch scope {
		case scoring.ScopeAge:
			return r.PlaceInAgeClass
		case scoring.ScopeWeight:
			return r.PlaceInWeightClass
		default:
			return r.PlaceOpen
		}
	}
	t.Fatalf("row %s not found", id)
	return nil
}

// TestRankRows_TieBreakChain tests every step of the tie-break chain
func TestRankRows_TieBreakChain(t *testing.T) {
	rows := []scoring.RankedRow{
		row("e", 400, 500, 80),
		row("d", 400, 500, 80),
		row("c", 400, 500, 75),
		row("b", 400, 520, 90),
		row("a", 450, 480, 90),
	}
	ranked := scoring.RankRows(rows, scoring.ScopeOpen)

	want := map[string]int{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}
	for id, place := range want {
		p := placeOf(t, ranked, id, scoring.ScopeOpen)
		require.NotNil(t, p, id)
		assert.Equal(t, place, *p, id)
	}
	assert.Equal(t, "e", ranked[0].RegistrationID, "input order is preserved")
}

// TestRankRows_DisqualifiedNeverPlaced tests that a disqualified row gets no placement in any scope
func TestRankRows_DisqualifiedNeverPlaced(t *testing.T) {
	dq := row("dq", 900, 900, 70)
	dq.IsDisqualified = true
	stale := 1
	dq.PlaceOpen = &stale
	dq.PlaceInAgeClass = &stale

	ranked := scoring.RankAllScopes([]scoring.RankedRow{dq, row("ok", 300, 400, 80)})

	for _, scope := range scoring.Scopes {
		assert.Nil(t, placeOf(t, ranked, "dq", scope), "scope %s", scope)
		p := placeOf(t, ranked, "ok", scope)
		require.NotNil(t, p)
		assert.Equal(t, 1, *p)
	}
	assert.NotNil(t, dq.PlaceOpen, "input rows are not mutated")
}

// TestRankRows_OpenEligibility tests the Open label rule
func TestRankRows_OpenEligibility(t *testing.T) {
	noLabels := row("none", 100, 100, 80)
	noLabels.Labels = nil
	guest := row("guest", 500, 500, 80)
	guest.Labels = []string{"Guest"}
	lower := row("lower", 200, 200, 80)
	lower.Labels = []string{"Masters", "open"}

	ranked := scoring.RankRows([]scoring.RankedRow{noLabels, guest, lower}, scoring.ScopeOpen)

	assert.Nil(t, placeOf(t, ranked, "guest", scoring.ScopeOpen))
	assert.Equal(t, 1, *placeOf(t, ranked, "lower", scoring.ScopeOpen))
	assert.Equal(t, 2, *placeOf(t, ranked, "none", scoring.ScopeOpen))
}

// TestRankRows_GroupsByCategory tests independent placings per age category and weight class
func TestRankRows_GroupsByCategory(t *testing.T) {
	a := row("a", 300, 400, 80)
	b := row("b", 350, 400, 80)
	b.AgeCategoryID = "junior"
	c := row("c", 320, 400, 90)
	c.WeightClassID = "93"
	d := row("d", 310, 400, 80)
	d.AgeCategoryID = ""

	ranked := scoring.RankAllScopes([]scoring.RankedRow{a, b, c, d})

	assert.Equal(t, 1, *placeOf(t, ranked, "b", scoring.ScopeAge))
	assert.Equal(t, 1, *placeOf(t, ranked, "c", scoring.ScopeAge))
	assert.Equal(t, 2, *placeOf(t, ranked, "a", scoring.ScopeAge))
	assert.Nil(t, placeOf(t, ranked, "d", scoring.ScopeAge), "no category means no age placing")

	assert.Equal(t, 1, *placeOf(t, ranked, "c", scoring.ScopeWeight))
	assert.Equal(t, 1, *placeOf(t, ranked, "b", scoring.ScopeWeight))
	assert.Equal(t, 2, *placeOf(t, ranked, "d", scoring.ScopeWeight))
	assert.Equal(t, 3, *placeOf(t, ranked, "a", scoring.ScopeWeight))

	assert.Equal(t, 1, *placeOf(t, ranked, "b", scoring.ScopeOpen))
	assert.Equal(t, 4, *placeOf(t, ranked, "a", scoring.ScopeOpen))
}

// TestRankRows_Idempotent tests that ranking an unchanged set twice gives the same placements
func TestRankRows_Idempotent(t *testing.T) {
	rows := []scoring.RankedRow{row("x", 300, 400, 80), row("y", 300, 400, 80), row("z", 100, 200, 60)}

	first := scoring.RankAllScopes(rows)
	second := scoring.RankAllScopes(first)
	assert.Equal(t, first, second)
}

// TestIsOpenEligible tests label matching
func TestIsOpenEligible(t *testing.T) {
	assert.True(t, scoring.IsOpenEligible(nil))
	assert.True(t, scoring.IsOpenEligible([]string{" OPEN "}))
	assert.False(t, scoring.IsOpenEligible([]string{"Guest"}))
}
