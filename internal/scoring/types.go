// Package scoring holds the pure meet calculators: coefficient lookup,
// category and weight-class assignment, per-lifter results, placings,
// team scoreboards and plate loading. Nothing here performs I/O; callers
// pass in snapshots and persist what comes back.
package scoring

import "strings"

// Gender of a competitor as used by coefficient tables, weight classes and team quotas
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender recognizes male/female (or m/f) case-insensitively.
// Anything else is reported as not ok.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return GenderMale, true
	case "f", "female":
		return GenderFemale, true
	}
	return "", false
}

// NormalizeWeightClassGender maps any value starting with "f" to Female, everything else to Male
func NormalizeWeightClassGender(s string) Gender {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "f") {
		return GenderFemale
	}
	return GenderMale
}

// LiftKind identifies one of the three competition lifts
type LiftKind string

const (
	LiftSquat    LiftKind = "Squat"
	LiftBench    LiftKind = "Bench"
	LiftDeadlift LiftKind = "Deadlift"
)

// Lifts lists the lifts in competition order
var Lifts = []LiftKind{LiftSquat, LiftBench, LiftDeadlift}

// ParseLiftKind accepts the lift names case-insensitively
func ParseLiftKind(s string) (LiftKind, bool) {
	for _, k := range Lifts {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, true
		}
	}
	return "", false
}

// AttemptStatus is the judging outcome of an attempt
type AttemptStatus string

const (
	StatusPending    AttemptStatus = "Pending"
	StatusSuccessful AttemptStatus = "Successful"
	StatusFailed     AttemptStatus = "Failed"
)

// ParseAttemptStatus accepts the status names case-insensitively
func ParseAttemptStatus(s string) (AttemptStatus, bool) {
	for _, st := range []AttemptStatus{StatusPending, StatusSuccessful, StatusFailed} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Discipline decides which lifts count toward a total
type Discipline string

const (
	DisciplinePowerlifting Discipline = "Powerlifting"
	DisciplineSquat        Discipline = "Squat"
	DisciplineBench        Discipline = "Bench"
	DisciplineDeadlift     Discipline = "Deadlift"
)

// ParseDiscipline accepts the discipline names case-insensitively
func ParseDiscipline(s string) (Discipline, bool) {
	for _, d := range []Discipline{DisciplinePowerlifting, DisciplineSquat, DisciplineBench, DisciplineDeadlift} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

// TotalLifts returns the lifts that count toward the total. Unknown
// disciplines count all three.
func (d Discipline) TotalLifts() []LiftKind {
	switch d {
	case DisciplineSquat:
		return []LiftKind{LiftSquat}
	case DisciplineBench:
		return []LiftKind{LiftBench}
	case DisciplineDeadlift:
		return []LiftKind{LiftDeadlift}
	default:
		return Lifts
	}
}
