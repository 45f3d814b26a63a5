package scoring

import "math"

// ReasonMissingLifts is the disqualification reason for a lifter without a good lift in every discipline
const ReasonMissingLifts = "Missing required lifts"

// Attempt is a single declared lift
type Attempt struct {
	LiftKind      LiftKind      `json:"lift_kind"`
	AttemptNumber int           `json:"attempt_number"`
	WeightKg      float64       `json:"weight_kg"`
	Status        AttemptStatus `json:"status"`
}

// Coefficients are the multipliers applied to a lifter's weights
type Coefficients struct {
	Reshel     float64 `json:"reshel"`
	McCullough float64 `json:"mccullough"`
}

// Result is the derived outcome for one registration
type Result struct {
	BestSquat              float64 `json:"best_squat"`
	BestBench              float64 `json:"best_bench"`
	BestDeadlift           float64 `json:"best_deadlift"`
	TotalWeight            float64 `json:"total_weight"`
	CoefficientPoints      float64 `json:"coefficient_points"`
	SquatPoints            float64 `json:"squat_points"`
	BenchPoints            float64 `json:"bench_points"`
	DeadliftPoints         float64 `json:"deadlift_points"`
	IsDisqualified         bool    `json:"is_disqualified"`
	DisqualificationReason string  `json:"disqualification_reason,omitempty"`
}

// Best returns the best weight recorded for a lift
func (r Result) Best(kind LiftKind) float64 {
	switch kind {
	case LiftSquat:
		return r.BestSquat
	case LiftBench:
		return r.BestBench
	case LiftDeadlift:
		return r.BestDeadlift
	}
	return 0
}

// LiftPoints returns the coefficient points for a single lift
func (r Result) LiftPoints(kind LiftKind) float64 {
	switch kind {
	case LiftSquat:
		return r.SquatPoints
	case LiftBench:
		return r.BenchPoints
	case LiftDeadlift:
		return r.DeadliftPoints
	}
	return 0
}

// BestSuccessful returns the heaviest successful attempt of a lift, or 0
func BestSuccessful(attempts []Attempt, kind LiftKind) float64 {
	best := 0.0
	for _, a := range attempts {
		if a.LiftKind == kind && a.Status == StatusSuccessful && a.WeightKg > best {
			best = a.WeightKg
		}
	}
	return best
}

// ComputeResult aggregates attempts into a Result. Missing or non-finite
// coefficients count as 1.0. Per-lift points are filled for every lift
// whatever the discipline, since team boards score single lifts.
func ComputeResult(attempts []Attempt, discipline Discipline, coeffs Coefficients) Result {
	reshel := coefficientOrOne(coeffs.Reshel)
	mcc := coefficientOrOne(coeffs.McCullough)

	r := Result{
		BestSquat:    BestSuccessful(attempts, LiftSquat),
		BestBench:    BestSuccessful(attempts, LiftBench),
		BestDeadlift: BestSuccessful(attempts, LiftDeadlift),
	}
	for _, kind := range discipline.TotalLifts() {
		r.TotalWeight += r.Best(kind)
	}

	r.CoefficientPoints = r.TotalWeight * reshel * mcc
	r.SquatPoints = r.BestSquat * reshel * mcc
	r.BenchPoints = r.BestBench * reshel * mcc
	r.DeadliftPoints = r.BestDeadlift * reshel * mcc

	if r.BestSquat == 0 || r.BestBench == 0 || r.BestDeadlift == 0 {
		r.IsDisqualified = true
		r.DisqualificationReason = ReasonMissingLifts
	}
	return r
}

func coefficientOrOne(c float64) float64 {
	if c == 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return 1.0
	}
	return c
}
