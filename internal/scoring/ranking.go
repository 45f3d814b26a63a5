package scoring

import (
	"slices"
	"strings"
)

// OpenLabel marks a registration as eligible for the open placing
const OpenLabel = "Open"

// Scope is one of the three placing groups
type Scope string

const (
	ScopeOpen   Scope = "open"
	ScopeAge    Scope = "age"
	ScopeWeight Scope = "weight"
)

// Scopes lists every placing scope
var Scopes = []Scope{ScopeOpen, ScopeAge, ScopeWeight}

// RankedRow is a Result with the data needed to place it
type RankedRow struct {
	Result
	RegistrationID     string   `json:"registration_id"`
	BodyweightKg       float64  `json:"bodyweight_kg"`
	AgeCategoryID      string   `json:"age_category_id,omitempty"`
	WeightClassID      string   `json:"weight_class_id,omitempty"`
	Labels             []string `json:"labels,omitempty"`
	PlaceOpen          *int     `json:"place_open"`
	PlaceInAgeClass    *int     `json:"place_in_age_class"`
	PlaceInWeightClass *int     `json:"place_in_weight_class"`
}

// rankingOrder: points, then total, then the lighter lifter, then registration id
var rankingOrder = ByDesc(func(r RankedRow) float64 { return r.CoefficientPoints }).
	ThenDesc(func(r RankedRow) float64 { return r.TotalWeight }).
	ThenAsc(func(r RankedRow) float64 { return r.BodyweightKg }).
	ThenAscString(func(r RankedRow) string { return r.RegistrationID })

// IsOpenEligible reports whether labels admit the open placing. No labels at all counts as open.
func IsOpenEligible(labels []string) bool {
	if len(labels) == 0 {
		return true
	}
	for _, l := range labels {
		if strings.EqualFold(strings.TrimSpace(l), OpenLabel) {
			return true
		}
	}
	return false
}

// groupKey returns the group a row is placed in for scope, or ok=false when it does not qualify
func groupKey(r RankedRow, scope Scope) (string, bool) {
	if r.IsDisqualified {
		return "", false
	}
	switch scope {
	case ScopeOpen:
		return "", IsOpenEligible(r.Labels)
	case ScopeAge:
		return r.AgeCategoryID, r.AgeCategoryID != ""
	case ScopeWeight:
		return r.WeightClassID, r.WeightClassID != ""
	}
	return "", false
}

func placeField(r *RankedRow, scope Scope) **int {
	switch scope {
	case ScopeAge:
		return &r.PlaceInAgeClass
	case ScopeWeight:
		return &r.PlaceInWeightClass
	default:
		return &r.PlaceOpen
	}
}

// RankRows places rows within one scope. The returned slice keeps the input
// order; the scope's placement is overwritten on every row, nil for rows that
// do not qualify.
func RankRows(rows []RankedRow, scope Scope) []RankedRow {
	out := slices.Clone(rows)
	groups := make(map[string][]int)
	var order []string

	for i := range out {
		*placeField(&out[i], scope) = nil
		key, ok := groupKey(out[i], scope)
		if !ok {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		idx := groups[key]
		slices.SortFunc(idx, func(a, b int) int {
			return rankingOrder(out[a], out[b])
		})
		for pos, i := range idx {
			place := pos + 1
			*placeField(&out[i], scope) = &place
		}
	}
	return out
}

// RankAllScopes applies RankRows for the open, age and weight scopes
func RankAllScopes(rows []RankedRow) []RankedRow {
	out := rows
	for _, scope := range Scopes {
		out = RankRows(out, scope)
	}
	return out
}
