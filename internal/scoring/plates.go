package scoring

import (
	"cmp"
	"math"
	"slices"
)

const (
	// weightEpsilon is the tolerance for comparing loaded weight against a target
	weightEpsilon = 1e-6

	// DefaultPlateIncrementKg is reported when the inventory has no usable plates
	DefaultPlateIncrementKg = 2.5
)

// Plate is one inventory denomination, counted in pairs since a bar is loaded symmetrically
type Plate struct {
	WeightKg       float64 `json:"weight_kg"`
	PairsAvailable int     `json:"pairs_available"`
	Color          string  `json:"color,omitempty"`
}

// PlateLoad is the number of pairs of one denomination on the bar
type PlateLoad struct {
	PlateWeight float64 `json:"plate_weight"`
	PairCount   int     `json:"pair_count"`
	Color       string  `json:"color,omitempty"`
}

// PlatePlan describes how to load a bar for a target weight
type PlatePlan struct {
	Plates             []PlateLoad `json:"plates"`
	Exact              bool        `json:"exact"`
	TotalLoaded        float64     `json:"total_loaded"`
	IncrementKg        float64     `json:"increment_kg"`
	BarWeightKg        float64     `json:"bar_weight_kg"`
	ClampWeightTotalKg float64     `json:"clamp_weight_total_kg"`
	WeightToLoadKg     float64     `json:"weight_to_load_kg"`
	TargetWeightKg     float64     `json:"target_weight_kg"`
}

// BuildPlatePlan fills each side greedily from the heaviest plate down. It
// never overshoots the target; when the target cannot be reached exactly the
// plan loads the heaviest weight the greedy fill finds below it.
func BuildPlatePlan(inventory []Plate, targetWeightKg, barWeightKg, clampWeightPerClampKg float64) PlatePlan {
	clampTotal := 2 * clampWeightPerClampKg
	base := barWeightKg + clampTotal
	toLoad := math.Max(0, targetWeightKg-base)

	plan := PlatePlan{
		Plates:             []PlateLoad{},
		TotalLoaded:        base,
		IncrementKg:        plateIncrement(inventory),
		BarWeightKg:        barWeightKg,
		ClampWeightTotalKg: clampTotal,
		WeightToLoadKg:     toLoad,
		TargetWeightKg:     targetWeightKg,
	}
	if len(inventory) == 0 || toLoad <= weightEpsilon {
		plan.Exact = toLoad <= weightEpsilon
		return plan
	}

	sorted := slices.Clone(inventory)
	slices.SortStableFunc(sorted, func(a, b Plate) int {
		return cmp.Compare(b.WeightKg, a.WeightKg)
	})

	perSide := toLoad / 2
	remaining := perSide
	for _, p := range sorted {
		if p.WeightKg <= 0 || p.PairsAvailable <= 0 {
			continue
		}
		if p.WeightKg > remaining+weightEpsilon {
			continue
		}
		usable := min(int(math.Floor((remaining+weightEpsilon)/p.WeightKg)), p.PairsAvailable)
		if usable <= 0 {
			continue
		}
		plan.Plates = append(plan.Plates, PlateLoad{PlateWeight: p.WeightKg, PairCount: usable, Color: p.Color})
		remaining -= p.WeightKg * float64(usable)
		if remaining < 0 {
			remaining = 0
		}
	}

	plan.Exact = remaining <= weightEpsilon
	plan.TotalLoaded = base + 2*(perSide-remaining)
	return plan
}

// plateIncrement is the finest adjustment the inventory allows: twice the smallest available plate
func plateIncrement(inventory []Plate) float64 {
	smallest := 0.0
	for _, p := range inventory {
		if p.PairsAvailable <= 0 || p.WeightKg <= 0 {
			continue
		}
		if smallest == 0 || p.WeightKg < smallest {
			smallest = p.WeightKg
		}
	}
	if smallest == 0 {
		return DefaultPlateIncrementKg
	}
	return 2 * smallest
}
