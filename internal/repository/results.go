package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// ContestSnapshot is everything a recalculation pass reads, loaded in one transaction
type ContestSnapshot struct {
	Contest       models.Contest
	AgeCategories []scoring.AgeCategory
	WeightClasses []scoring.WeightClass
	Registrations []models.Registration
	Attempts      map[string][]models.Attempt // by registration id
}

// RegistrationScoring is the classification and coefficient state a pass
// writes back to a registration
type RegistrationScoring struct {
	RegistrationID        string
	AgeCategoryID         *string
	WeightClassID         *string
	ReshelCoefficient     float64
	McCulloughCoefficient float64
}

// ==================== Result Methods ====================

// LoadContestSnapshot reads a contest with its descriptors, registrations and
// attempts inside a single transaction so the pass sees one consistent state.
func (r *Repository) LoadContestSnapshot(ctx context.Context, contestID string) (*ContestSnapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	contest, err := getContest(ctx, tx, contestID)
	if err != nil {
		return nil, err
	}
	snap := &ContestSnapshot{Contest: *contest, Attempts: map[string][]models.Attempt{}}

	if snap.AgeCategories, err = listAgeCategories(ctx, tx, contestID); err != nil {
		return nil, err
	}
	if snap.WeightClasses, err = listWeightClasses(ctx, tx, contestID); err != nil {
		return nil, err
	}
	if snap.Registrations, err = listRegistrations(ctx, tx, contestID); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT a.id, a.registration_id, a.lift_kind, a.attempt_number, a.weight_kg, a.status, COALESCE(a.updated_at, '')
		FROM attempts a JOIN registrations r ON r.id = a.registration_id
		WHERE r.contest_id = ?
		ORDER BY a.registration_id, a.lift_kind, a.attempt_number
	`, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		snap.Attempts[a.RegistrationID] = append(snap.Attempts[a.RegistrationID], *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snap, tx.Commit()
}

// SaveContestResults writes one recalculation pass atomically: registration
// classification and coefficients, then a full replace of the contest's
// result rows with every placement written, NULL included.
func (r *Repository) SaveContestResults(ctx context.Context, contestID string, updates []RegistrationScoring, rows []scoring.RankedRow, calculatedAt string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range updates {
		_, err := tx.ExecContext(ctx, `
			UPDATE registrations SET age_category_id = ?, weight_class_id = ?, reshel_coefficient = ?, mccullough_coefficient = ?
			WHERE id = ? AND contest_id = ?
		`, u.AgeCategoryID, u.WeightClassID, u.ReshelCoefficient, u.McCulloughCoefficient, u.RegistrationID, contestID)
		if err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM results WHERE registration_id IN (SELECT id FROM registrations WHERE contest_id = ?)
	`, contestID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (registration_id, best_squat, best_bench, best_deadlift, total_weight,
			coefficient_points, squat_points, bench_points, deadlift_points, is_disqualified,
			disqualification_reason, place_open, place_in_age_class, place_in_weight_class, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		var reason *string
		if row.DisqualificationReason != "" {
			reason = &row.DisqualificationReason
		}
		_, err := stmt.ExecContext(ctx, row.RegistrationID, row.BestSquat, row.BestBench, row.BestDeadlift, row.TotalWeight,
			row.CoefficientPoints, row.SquatPoints, row.BenchPoints, row.DeadliftPoints, row.IsDisqualified,
			reason, row.PlaceOpen, row.PlaceInAgeClass, row.PlaceInWeightClass, calculatedAt)
		if err != nil {
			return translate(err)
		}
	}

	return tx.Commit()
}

// ListResults returns a contest's stored results joined with lifter data,
// ordered by open placing (unplaced last) then name.
func (r *Repository) ListResults(ctx context.Context, contestID string) ([]models.ResultRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT res.registration_id, res.best_squat, res.best_bench, res.best_deadlift, res.total_weight,
			res.coefficient_points, res.squat_points, res.bench_points, res.deadlift_points, res.is_disqualified,
			COALESCE(res.disqualification_reason, ''), res.place_open, res.place_in_age_class, res.place_in_weight_class,
			res.calculated_at, reg.contest_id, reg.competitor_id, reg.bodyweight_kg, reg.labels,
			reg.age_category_id, reg.weight_class_id,
			c.first_name, c.last_name, c.gender, COALESCE(c.club, ''),
			COALESCE(ac.code, ''), COALESCE(wc.code, '')
		FROM results res
		JOIN registrations reg ON reg.id = res.registration_id
		JOIN competitors c ON c.id = reg.competitor_id
		LEFT JOIN age_categories ac ON ac.id = reg.age_category_id
		LEFT JOIN weight_classes wc ON wc.id = reg.weight_class_id
		WHERE reg.contest_id = ?
		ORDER BY res.place_open IS NULL, res.place_open, c.last_name, c.first_name
	`, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.ResultRow{}
	for rows.Next() {
		var row models.ResultRow
		var placeOpen, placeAge, placeWeight sql.NullInt64
		var labels, ageID, classID sql.NullString
		err := rows.Scan(&row.RegistrationID, &row.BestSquat, &row.BestBench, &row.BestDeadlift, &row.TotalWeight,
			&row.CoefficientPoints, &row.SquatPoints, &row.BenchPoints, &row.DeadliftPoints, &row.IsDisqualified,
			&row.DisqualificationReason, &placeOpen, &placeAge, &placeWeight,
			&row.CalculatedAt, &row.ContestID, &row.CompetitorID, &row.BodyweightKg, &labels,
			&ageID, &classID,
			&row.FirstName, &row.LastName, &row.Gender, &row.Club,
			&row.AgeCategoryCode, &row.WeightClassCode)
		if err != nil {
			return nil, err
		}
		row.PlaceOpen = nullInt(placeOpen)
		row.PlaceInAgeClass = nullInt(placeAge)
		row.PlaceInWeightClass = nullInt(placeWeight)
		row.Labels = decodeLabels(labels)
		if ageID.Valid {
			row.AgeCategoryID = ageID.String
		}
		if classID.Valid {
			row.WeightClassID = classID.String
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ==================== Plate Methods ====================

// ListPlates returns the inventory, heaviest first
func (r *Repository) ListPlates(ctx context.Context) ([]models.Plate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, weight_kg, pairs_available, COALESCE(color, '') FROM plates ORDER BY weight_kg DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plates := []models.Plate{}
	for rows.Next() {
		var p models.Plate
		if err := rows.Scan(&p.ID, &p.WeightKg, &p.PairsAvailable, &p.Color); err != nil {
			return nil, err
		}
		plates = append(plates, p)
	}
	return plates, rows.Err()
}

// GetPlate retrieves an inventory row
func (r *Repository) GetPlate(ctx context.Context, id string) (*models.Plate, error) {
	var p models.Plate
	err := r.db.QueryRowContext(ctx, `
		SELECT id, weight_kg, pairs_available, COALESCE(color, '') FROM plates WHERE id = ?
	`, id).Scan(&p.ID, &p.WeightKg, &p.PairsAvailable, &p.Color)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePlate adds a denomination to the inventory
func (r *Repository) CreatePlate(ctx context.Context, p *models.Plate) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plates (id, weight_kg, pairs_available, color) VALUES (?, ?, ?, ?)
	`, p.ID, p.WeightKg, p.PairsAvailable, p.Color)
	return translate(err)
}

// UpdatePlate replaces an inventory row
func (r *Repository) UpdatePlate(ctx context.Context, p *models.Plate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE plates SET weight_kg = ?, pairs_available = ?, color = ? WHERE id = ?
	`, p.WeightKg, p.PairsAvailable, p.Color, p.ID)
	return affectedOne(res, translate(err))
}

// DeletePlate removes a denomination from the inventory
func (r *Repository) DeletePlate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plates WHERE id = ?`, id)
	return affectedOne(res, err)
}
