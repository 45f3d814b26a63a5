package scoring

import (
	"cmp"
	"slices"
	"strings"
)

// FallbackAgeCategoryCode is used when a contest has no age categories at all
const FallbackAgeCategoryCode = "SENIOR"

// AgeCategory is a contest-scoped age bracket. Nil bounds are unbounded.
type AgeCategory struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	MinAge    *int   `json:"min_age,omitempty"`
	MaxAge    *int   `json:"max_age,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// Contains reports whether age falls inside the inclusive bounds
func (c AgeCategory) Contains(age int) bool {
	if c.MinAge != nil && age < *c.MinAge {
		return false
	}
	if c.MaxAge != nil && age > *c.MaxAge {
		return false
	}
	return true
}

// WeightClass is a contest-scoped bodyweight bracket for one gender. Nil bounds are unbounded.
type WeightClass struct {
	ID        string   `json:"id"`
	Code      string   `json:"code"`
	Gender    Gender   `json:"gender"`
	MinWeight *float64 `json:"min_weight,omitempty"`
	MaxWeight *float64 `json:"max_weight,omitempty"`
	SortOrder int      `json:"sort_order"`
}

// Contains reports whether bodyweightKg falls inside the inclusive bounds
func (c WeightClass) Contains(bodyweightKg float64) bool {
	if c.MinWeight != nil && bodyweightKg < *c.MinWeight {
		return false
	}
	if c.MaxWeight != nil && bodyweightKg > *c.MaxWeight {
		return false
	}
	return true
}

// MatchAgeCategory picks the age category for a lifter. The first category in
// sort order containing the age wins; otherwise SENIOR or OPEN, otherwise the
// first category. ok is false only when there are no categories.
func MatchAgeCategory(birthDate, contestDate string, categories []AgeCategory) (AgeCategory, bool) {
	if len(categories) == 0 {
		return AgeCategory{}, false
	}
	sorted := slices.Clone(categories)
	slices.SortStableFunc(sorted, func(a, b AgeCategory) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	if age, ok := AgeOn(birthDate, contestDate); ok {
		for _, c := range sorted {
			if c.Contains(age) {
				return c, true
			}
		}
	}

	for _, c := range sorted {
		if strings.EqualFold(c.Code, "SENIOR") || strings.EqualFold(c.Code, "OPEN") {
			return c, true
		}
	}
	return sorted[0], true
}

// DetermineAgeCategory returns the code of the matched age category, or SENIOR
// when the contest has none.
func DetermineAgeCategory(birthDate, contestDate string, categories []AgeCategory) string {
	c, ok := MatchAgeCategory(birthDate, contestDate, categories)
	if !ok {
		return FallbackAgeCategoryCode
	}
	return c.Code
}

// MatchWeightClass picks the weight class for a lifter. Classes are filtered
// to the lifter's gender (all classes when none match the gender) and the
// first in sort order containing the bodyweight wins. Overflow lands in the
// last class, which is the open/heaviest one.
func MatchWeightClass(bodyweightKg float64, gender string, classes []WeightClass) (WeightClass, bool) {
	if len(classes) == 0 {
		return WeightClass{}, false
	}
	g := NormalizeWeightClassGender(gender)

	var candidates []WeightClass
	for _, c := range classes {
		if c.Gender == g {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		candidates = slices.Clone(classes)
	}
	slices.SortStableFunc(candidates, func(a, b WeightClass) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})

	for _, c := range candidates {
		if c.Contains(bodyweightKg) {
			return c, true
		}
	}
	return candidates[len(candidates)-1], true
}

// DetermineWeightClass returns the code of the matched weight class, or "" when there are none
func DetermineWeightClass(bodyweightKg float64, gender string, classes []WeightClass) string {
	c, ok := MatchWeightClass(bodyweightKg, gender, classes)
	if !ok {
		return ""
	}
	return c.Code
}
