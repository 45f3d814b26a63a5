package scoring

import (
	"cmp"
	"slices"
	"strings"
)

// Team quota: the best four men and the best woman of a club score
const (
	TeamMaleQuota   = 4
	TeamFemaleQuota = 1
)

// TeamMetric names a team scoreboard
type TeamMetric string

const (
	MetricOverall  TeamMetric = "overall"
	MetricSquat    TeamMetric = "squat"
	MetricBench    TeamMetric = "bench"
	MetricDeadlift TeamMetric = "deadlift"
)

// TeamMetrics lists the scoreboards in display order
var TeamMetrics = []TeamMetric{MetricOverall, MetricSquat, MetricBench, MetricDeadlift}

// TeamMember is one lifter's result with the club and gender needed for team scoring
type TeamMember struct {
	RegistrationID string  `json:"registration_id"`
	Name           string  `json:"name,omitempty"`
	Club           string  `json:"club"`
	Gender         string  `json:"gender"`
	BodyweightKg   float64 `json:"bodyweight_kg"`
	Result         Result  `json:"result"`
}

// TeamContributor fills one of the five scoring slots of a club
type TeamContributor struct {
	RegistrationID string  `json:"registration_id,omitempty"`
	Name           string  `json:"name,omitempty"`
	Gender         Gender  `json:"gender"`
	Points         float64 `json:"points"`
	Secondary      float64 `json:"secondary"`
	BodyweightKg   float64 `json:"bodyweight_kg"`
	IsPlaceholder  bool    `json:"is_placeholder"`
}

// TeamResultRow is one club on one scoreboard
type TeamResultRow struct {
	Club          string            `json:"club"`
	Rank          int               `json:"rank"`
	TotalPoints   float64           `json:"total_points"`
	OverallPoints float64           `json:"overall_points"`
	Contributors  []TeamContributor `json:"contributors"`
}

// TeamScoreboards holds the four club rankings
type TeamScoreboards struct {
	Overall  []TeamResultRow `json:"overall"`
	Squat    []TeamResultRow `json:"squat"`
	Bench    []TeamResultRow `json:"bench"`
	Deadlift []TeamResultRow `json:"deadlift"`
}

// Board returns the scoreboard for a metric
func (s TeamScoreboards) Board(metric TeamMetric) []TeamResultRow {
	switch metric {
	case MetricSquat:
		return s.Squat
	case MetricBench:
		return s.Bench
	case MetricDeadlift:
		return s.Deadlift
	default:
		return s.Overall
	}
}

var contributorOrder = ByDesc(func(c TeamContributor) float64 { return c.Points }).
	ThenDesc(func(c TeamContributor) float64 { return c.Secondary }).
	ThenAsc(func(c TeamContributor) float64 { return c.BodyweightKg }).
	ThenAscString(func(c TeamContributor) string { return c.RegistrationID })

// metricValues returns the scoring points and the secondary tie-break value of a result
func metricValues(metric TeamMetric, r Result) (points, secondary float64) {
	switch metric {
	case MetricSquat:
		return r.SquatPoints, r.BestSquat
	case MetricBench:
		return r.BenchPoints, r.BestBench
	case MetricDeadlift:
		return r.DeadliftPoints, r.BestDeadlift
	default:
		return r.CoefficientPoints, r.TotalWeight
	}
}

type clubPool struct {
	men   []TeamMember
	women []TeamMember
}

// ComputeTeamResults builds the four club scoreboards. Disqualified lifters,
// unrecognized genders and blank clubs are left out.
func ComputeTeamResults(members []TeamMember) TeamScoreboards {
	pools := make(map[string]*clubPool)
	var clubs []string
	for _, m := range members {
		if m.Result.IsDisqualified {
			continue
		}
		club := strings.TrimSpace(m.Club)
		if club == "" {
			continue
		}
		g, ok := ParseGender(m.Gender)
		if !ok {
			continue
		}
		p, exists := pools[club]
		if !exists {
			p = &clubPool{}
			pools[club] = p
			clubs = append(clubs, club)
		}
		if g == GenderFemale {
			p.women = append(p.women, m)
		} else {
			p.men = append(p.men, m)
		}
	}
	slices.Sort(clubs)

	boards := make(map[TeamMetric][]TeamResultRow, len(TeamMetrics))
	for _, metric := range TeamMetrics {
		rows := make([]TeamResultRow, 0, len(clubs))
		for _, club := range clubs {
			rows = append(rows, scoreClub(club, metric, pools[club]))
		}
		boards[metric] = rankClubs(rows)
	}

	overall := make(map[string]float64, len(clubs))
	for _, row := range boards[MetricOverall] {
		overall[row.Club] = row.TotalPoints
	}
	for _, metric := range TeamMetrics {
		for i := range boards[metric] {
			boards[metric][i].OverallPoints = overall[boards[metric][i].Club]
		}
	}

	return TeamScoreboards{
		Overall:  boards[MetricOverall],
		Squat:    boards[MetricSquat],
		Bench:    boards[MetricBench],
		Deadlift: boards[MetricDeadlift],
	}
}

func scoreClub(club string, metric TeamMetric, pool *clubPool) TeamResultRow {
	men := toContributors(metric, GenderMale, pool.men)
	women := toContributors(metric, GenderFemale, pool.women)
	slots := SelectGenderQuota(men, women, TeamMaleQuota, TeamFemaleQuota)

	total := 0.0
	for _, c := range slots {
		if !c.IsPlaceholder {
			total += c.Points
		}
	}
	return TeamResultRow{Club: club, TotalPoints: total, Contributors: slots}
}

func toContributors(metric TeamMetric, gender Gender, members []TeamMember) []TeamContributor {
	out := make([]TeamContributor, 0, len(members))
	for _, m := range members {
		points, secondary := metricValues(metric, m.Result)
		out = append(out, TeamContributor{
			RegistrationID: m.RegistrationID,
			Name:           m.Name,
			Gender:         gender,
			Points:         points,
			Secondary:      secondary,
			BodyweightKg:   m.BodyweightKg,
		})
	}
	return out
}

// SelectGenderQuota takes the best maleQuota men and the best femaleQuota
// women independently, never a mixed top-N. The real contributors come back
// in ranking order followed by placeholders for every empty slot (men first),
// so the result always has maleQuota+femaleQuota entries.
func SelectGenderQuota(men, women []TeamContributor, maleQuota, femaleQuota int) []TeamContributor {
	topMen := topK(men, maleQuota)
	topWomen := topK(women, femaleQuota)

	slots := make([]TeamContributor, 0, maleQuota+femaleQuota)
	slots = append(slots, topMen...)
	slots = append(slots, topWomen...)
	slices.SortFunc(slots, contributorOrder)

	for i := len(topMen); i < maleQuota; i++ {
		slots = append(slots, TeamContributor{Gender: GenderMale, IsPlaceholder: true})
	}
	for i := len(topWomen); i < femaleQuota; i++ {
		slots = append(slots, TeamContributor{Gender: GenderFemale, IsPlaceholder: true})
	}
	return slots
}

func topK(candidates []TeamContributor, k int) []TeamContributor {
	sorted := slices.Clone(candidates)
	slices.SortFunc(sorted, contributorOrder)
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// compareClubStanding orders by total points, then slot by slot points; it
// ignores the club name so equal standings can share a rank.
func compareClubStanding(a, b TeamResultRow) int {
	if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
		return c
	}
	n := min(len(a.Contributors), len(b.Contributors))
	for i := 0; i < n; i++ {
		if c := cmp.Compare(b.Contributors[i].Points, a.Contributors[i].Points); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(b.Contributors), len(a.Contributors))
}

// rankClubs sorts rows and assigns competition ranks (1, 2, 2, 4)
func rankClubs(rows []TeamResultRow) []TeamResultRow {
	slices.SortFunc(rows, func(a, b TeamResultRow) int {
		if c := compareClubStanding(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.Club, b.Club)
	})
	for i := range rows {
		if i > 0 && compareClubStanding(rows[i-1], rows[i]) == 0 {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
	return rows
}
