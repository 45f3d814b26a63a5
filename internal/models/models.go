package models

import (
	"strings"

	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// Contest is a single meet
type Contest struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Location          string   `json:"location"`
	ContestDate       string   `json:"contest_date"`
	Discipline        string   `json:"discipline"`
	BarWeightMaleKg   *float64 `json:"bar_weight_male_kg,omitempty"`
	BarWeightFemaleKg *float64 `json:"bar_weight_female_kg,omitempty"`
	ClampWeightKg     *float64 `json:"clamp_weight_kg,omitempty"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

// Competitor is a lifter, independent of any contest
type Competitor struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"`
	Club      string `json:"club"`
	CreatedAt string `json:"created_at,omitempty"`
}

// FullName joins first and last name
func (c Competitor) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Registration enters a competitor into a contest. The competitor and
// descriptor fields are filled by joins when listing.
type Registration struct {
	ID                    string   `json:"id"`
	ContestID             string   `json:"contest_id"`
	CompetitorID          string   `json:"competitor_id"`
	BodyweightKg          float64  `json:"bodyweight_kg"`
	LotNumber             int      `json:"lot_number"`
	Flight                string   `json:"flight"`
	Labels                []string `json:"labels"`
	AgeCategoryID         *string  `json:"age_category_id"`
	WeightClassID         *string  `json:"weight_class_id"`
	ReshelCoefficient     float64  `json:"reshel_coefficient"`
	McCulloughCoefficient float64  `json:"mccullough_coefficient"`

	Competitor      Competitor `json:"competitor"`
	AgeCategoryCode string     `json:"age_category_code,omitempty"`
	WeightClassCode string     `json:"weight_class_code,omitempty"`
}

// Attempt is a declared lift of one registration
type Attempt struct {
	ID             string  `json:"id"`
	RegistrationID string  `json:"registration_id"`
	LiftKind       string  `json:"lift_kind"`
	AttemptNumber  int     `json:"attempt_number"`
	WeightKg       float64 `json:"weight_kg"`
	Status         string  `json:"status"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// ToScoring converts a stored attempt for the calculators. Unknown kinds and
// statuses come through as-is and simply never count as a good lift.
func (a Attempt) ToScoring() scoring.Attempt {
	kind, ok := scoring.ParseLiftKind(a.LiftKind)
	if !ok {
		kind = scoring.LiftKind(a.LiftKind)
	}
	status, ok := scoring.ParseAttemptStatus(a.Status)
	if !ok {
		status = scoring.AttemptStatus(a.Status)
	}
	return scoring.Attempt{
		LiftKind:      kind,
		AttemptNumber: a.AttemptNumber,
		WeightKg:      a.WeightKg,
		Status:        status,
	}
}

// ResultRow is a stored, ranked result joined with who lifted it
type ResultRow struct {
	scoring.RankedRow
	ContestID       string `json:"contest_id"`
	CompetitorID    string `json:"competitor_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Gender          string `json:"gender"`
	Club            string `json:"club"`
	AgeCategoryCode string `json:"age_category_code,omitempty"`
	WeightClassCode string `json:"weight_class_code,omitempty"`
	CalculatedAt    string `json:"calculated_at"`
}

// Name returns the lifter's display name
func (r ResultRow) Name() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Plate is one inventory row
type Plate struct {
	ID string `json:"id"`
	scoring.Plate
}

// CurrentLifter is the registration on the platform for a contest
type CurrentLifter struct {
	ContestID      string `json:"contest_id"`
	RegistrationID string `json:"registration_id"`
	LiftKind       string `json:"lift_kind,omitempty"`
	AttemptNumber  int    `json:"attempt_number,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// TeamResults is the set of club scoreboards for a contest
type TeamResults struct {
	ContestID string `json:"contest_id"`
	scoring.TeamScoreboards
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
