package scoring

import (
	"math"

	apperrors "github.com/abrezinsky/liftmeet/internal/errors"
)

const (
	// DefaultReshelIncrementKg is the bodyweight step Reshel tables are tabulated in
	DefaultReshelIncrementKg = 0.25

	keyTolerance = 1e-4
)

// CoefficientEntry is one row of a coefficient table. Key is a bodyweight
// in kg for Reshel tables and an age in years for McCullough tables.
type CoefficientEntry struct {
	Key         float64 `json:"key" yaml:"key"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
}

// ReshelTable holds the bodyweight multipliers per gender
type ReshelTable struct {
	IncrementKg float64
	Male        []CoefficientEntry
	Female      []CoefficientEntry
}

// McCulloughTable holds the age multipliers
type McCulloughTable struct {
	Entries []CoefficientEntry
}

// Tables is an immutable snapshot of every coefficient table. Never mutate a
// Tables value after it has been handed to a TableCache.
type Tables struct {
	Reshel     ReshelTable
	McCullough McCulloughTable
}

// Validate checks the table invariant: every sequence non-empty and strictly ascending by key
func (t *Tables) Validate() error {
	if t.Reshel.IncrementKg <= 0 || math.IsNaN(t.Reshel.IncrementKg) || math.IsInf(t.Reshel.IncrementKg, 0) {
		return apperrors.InvalidTablef("reshel increment must be positive, got %v", t.Reshel.IncrementKg)
	}
	if err := validateEntries("reshel male", t.Reshel.Male); err != nil {
		return err
	}
	if err := validateEntries("reshel female", t.Reshel.Female); err != nil {
		return err
	}
	return validateEntries("mccullough", t.McCullough.Entries)
}

func validateEntries(name string, entries []CoefficientEntry) error {
	if len(entries) == 0 {
		return apperrors.InvalidTablef("%s table is empty", name)
	}
	for i, e := range entries {
		if !finite(e.Key) || !finite(e.Coefficient) {
			return apperrors.InvalidTablef("%s table row %d is not a finite number", name, i)
		}
		if i > 0 && e.Key <= entries[i-1].Key {
			return apperrors.InvalidTablef("%s table keys not strictly ascending at %v", name, e.Key)
		}
	}
	return nil
}

// ResolveReshel returns the Reshel multiplier for a bodyweight. Non-positive
// or non-finite bodyweights and unrecognized genders yield 1.0.
func ResolveReshel(bodyweightKg float64, gender string, table ReshelTable) float64 {
	if !finite(bodyweightKg) || bodyweightKg <= 0 {
		return 1.0
	}
	g, ok := ParseGender(gender)
	if !ok {
		return 1.0
	}
	entries := table.Male
	if g == GenderFemale {
		entries = table.Female
	}

	increment := table.IncrementKg
	if increment <= 0 {
		increment = DefaultReshelIncrementKg
	}
	rounded := math.RoundToEven(bodyweightKg/increment) * increment
	return lookupNearest(entries, rounded)
}

// ResolveMcCullough returns the age multiplier. Negative or non-finite ages yield 1.0.
func ResolveMcCullough(age float64, table McCulloughTable) float64 {
	if !finite(age) || age < 0 {
		return 1.0
	}
	return lookupNearest(table.Entries, math.Floor(age))
}

// McCulloughForDates resolves the age multiplier from a birth date and a
// contest date. Unparseable dates yield 1.0.
func McCulloughForDates(birthDate, contestDate string, table McCulloughTable) float64 {
	age, ok := AgeOn(birthDate, contestDate)
	if !ok {
		return 1.0
	}
	return ResolveMcCullough(float64(age), table)
}

// lookupNearest clamps key into the table range, prefers an entry within
// keyTolerance and otherwise takes the closest key. On equal distance the
// lower key wins because the scan runs in ascending order.
func lookupNearest(entries []CoefficientEntry, key float64) float64 {
	if len(entries) == 0 {
		return 1.0
	}
	key = math.Max(entries[0].Key, math.Min(key, entries[len(entries)-1].Key))

	for _, e := range entries {
		if math.Abs(e.Key-key) <= keyTolerance {
			return e.Coefficient
		}
	}

	best := entries[0]
	bestDist := math.Abs(best.Key - key)
	for _, e := range entries[1:] {
		if d := math.Abs(e.Key - key); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best.Coefficient
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
