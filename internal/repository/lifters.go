package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/abrezinsky/liftmeet/internal/models"
)

// ==================== Competitor Methods ====================

const competitorColumns = `id, first_name, last_name, gender, COALESCE(birth_date, ''), COALESCE(club, ''), COALESCE(created_at, '')`

// ListCompetitors returns every competitor ordered by name
func (r *Repository) ListCompetitors(ctx context.Context) ([]models.Competitor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+competitorColumns+` FROM competitors ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitors := []models.Competitor{}
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Gender, &c.BirthDate, &c.Club, &c.CreatedAt); err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}
	return competitors, rows.Err()
}

// GetCompetitor retrieves a competitor by id
func (r *Repository) GetCompetitor(ctx context.Context, id string) (*models.Competitor, error) {
	var c models.Competitor
	err := r.db.QueryRowContext(ctx, `SELECT `+competitorColumns+` FROM competitors WHERE id = ?`, id).
		Scan(&c.ID, &c.FirstName, &c.LastName, &c.Gender, &c.BirthDate, &c.Club, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompetitor inserts a competitor, assigning an id when none is set
func (r *Repository) CreateCompetitor(ctx context.Context, c *models.Competitor) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO competitors (id, first_name, last_name, gender, birth_date, club)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.FirstName, c.LastName, c.Gender, c.BirthDate, c.Club)
	return translate(err)
}

// UpdateCompetitor replaces a competitor's fields
func (r *Repository) UpdateCompetitor(ctx context.Context, c *models.Competitor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE competitors SET first_name = ?, last_name = ?, gender = ?, birth_date = ?, club = ?
		WHERE id = ?
	`, c.FirstName, c.LastName, c.Gender, c.BirthDate, c.Club, c.ID)
	return affectedOne(res, err)
}

// DeleteCompetitor removes a competitor and all their registrations
func (r *Repository) DeleteCompetitor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM competitors WHERE id = ?`, id)
	return affectedOne(res, err)
}

// ListCompetitorContestIDs returns the contests a competitor is registered in
func (r *Repository) ListCompetitorContestIDs(ctx context.Context, competitorID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT contest_id FROM registrations WHERE competitor_id = ? ORDER BY contest_id
	`, competitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ==================== Registration Methods ====================

const registrationSelect = `
	SELECT r.id, r.contest_id, r.competitor_id, r.bodyweight_kg, r.lot_number, COALESCE(r.flight, ''),
		r.labels, r.age_category_id, r.weight_class_id, r.reshel_coefficient, r.mccullough_coefficient,
		c.first_name, c.last_name, c.gender, COALESCE(c.birth_date, ''), COALESCE(c.club, ''),
		COALESCE(ac.code, ''), COALESCE(wc.code, '')
	FROM registrations r
	JOIN competitors c ON c.id = r.competitor_id
	LEFT JOIN age_categories ac ON ac.id = r.age_category_id
	LEFT JOIN weight_classes wc ON wc.id = r.weight_class_id`

func scanRegistration(s interface{ Scan(...any) error }) (*models.Registration, error) {
	var reg models.Registration
	var labels, ageID, classID sql.NullString
	err := s.Scan(&reg.ID, &reg.ContestID, &reg.CompetitorID, &reg.BodyweightKg, &reg.LotNumber, &reg.Flight,
		&labels, &ageID, &classID, &reg.ReshelCoefficient, &reg.McCulloughCoefficient,
		&reg.Competitor.FirstName, &reg.Competitor.LastName, &reg.Competitor.Gender, &reg.Competitor.BirthDate,
		&reg.Competitor.Club, &reg.AgeCategoryCode, &reg.WeightClassCode)
	if err != nil {
		return nil, err
	}
	reg.Competitor.ID = reg.CompetitorID
	reg.AgeCategoryID = nullString(ageID)
	reg.WeightClassID = nullString(classID)
	reg.Labels = decodeLabels(labels)
	return &reg, nil
}

// decodeLabels reads the JSON label list. NULL or malformed data means no labels.
func decodeLabels(v sql.NullString) []string {
	labels := []string{}
	if v.Valid && v.String != "" {
		_ = json.Unmarshal([]byte(v.String), &labels)
	}
	return labels
}

func encodeLabels(labels []string) string {
	if labels == nil {
		labels = []string{}
	}
	b, _ := json.Marshal(labels)
	return string(b)
}

// ListRegistrations returns a contest's registrations joined with competitor data
func (r *Repository) ListRegistrations(ctx context.Context, contestID string) ([]models.Registration, error) {
	return listRegistrations(ctx, r.db, contestID)
}

func listRegistrations(ctx context.Context, q querier, contestID string) ([]models.Registration, error) {
	rows, err := q.QueryContext(ctx, registrationSelect+`
		WHERE r.contest_id = ?
		ORDER BY r.flight, r.lot_number, c.last_name, c.first_name
	`, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

// GetRegistration retrieves a registration with its competitor
func (r *Repository) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRowContext(ctx, registrationSelect+` WHERE r.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return reg, err
}

// CreateRegistration inserts a registration, assigning an id when none is set
func (r *Repository) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registrations (id, contest_id, competitor_id, bodyweight_kg, lot_number, flight, labels,
			age_category_id, weight_class_id, reshel_coefficient, mccullough_coefficient)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, reg.ID, reg.ContestID, reg.CompetitorID, reg.BodyweightKg, reg.LotNumber, reg.Flight, encodeLabels(reg.Labels),
		reg.AgeCategoryID, reg.WeightClassID, reg.ReshelCoefficient, reg.McCulloughCoefficient)
	return translate(err)
}

// UpdateRegistration replaces a registration's editable fields
func (r *Repository) UpdateRegistration(ctx context.Context, reg *models.Registration) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE registrations SET bodyweight_kg = ?, lot_number = ?, flight = ?, labels = ?,
			age_category_id = ?, weight_class_id = ?, reshel_coefficient = ?, mccullough_coefficient = ?
		WHERE id = ?
	`, reg.BodyweightKg, reg.LotNumber, reg.Flight, encodeLabels(reg.Labels),
		reg.AgeCategoryID, reg.WeightClassID, reg.ReshelCoefficient, reg.McCulloughCoefficient, reg.ID)
	return affectedOne(res, translate(err))
}

// DeleteRegistration removes a registration with its attempts and result
func (r *Repository) DeleteRegistration(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	return affectedOne(res, err)
}

// ==================== Attempt Methods ====================

const attemptColumns = `id, registration_id, lift_kind, attempt_number, weight_kg, status, COALESCE(updated_at, '')`

func scanAttempt(s interface{ Scan(...any) error }) (*models.Attempt, error) {
	var a models.Attempt
	if err := s.Scan(&a.ID, &a.RegistrationID, &a.LiftKind, &a.AttemptNumber, &a.WeightKg, &a.Status, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttempts returns a registration's attempts in lift and attempt order
func (r *Repository) ListAttempts(ctx context.Context, registrationID string) ([]models.Attempt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+attemptColumns+` FROM attempts WHERE registration_id = ?
		ORDER BY CASE lift_kind WHEN 'Squat' THEN 1 WHEN 'Bench' THEN 2 ELSE 3 END, attempt_number
	`, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []models.Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// GetAttempt retrieves an attempt by id
func (r *Repository) GetAttempt(ctx context.Context, id string) (*models.Attempt, error) {
	a, err := scanAttempt(r.db.QueryRowContext(ctx, `SELECT `+attemptColumns+` FROM attempts WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return a, err
}

// CreateAttempt inserts an attempt, assigning an id when none is set
func (r *Repository) CreateAttempt(ctx context.Context, a *models.Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attempts (id, registration_id, lift_kind, attempt_number, weight_kg, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.RegistrationID, a.LiftKind, a.AttemptNumber, a.WeightKg, a.Status)
	return translate(err)
}

// UpdateAttempt replaces an attempt's weight and status
func (r *Repository) UpdateAttempt(ctx context.Context, a *models.Attempt) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attempts SET weight_kg = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, a.WeightKg, a.Status, a.ID)
	return affectedOne(res, err)
}

// DeleteAttempt removes an attempt
func (r *Repository) DeleteAttempt(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attempts WHERE id = ?`, id)
	return affectedOne(res, err)
}
