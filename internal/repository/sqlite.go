package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// defaultPlates is the inventory a fresh database starts with
var defaultPlates = []scoring.Plate{
	{WeightKg: 25, PairsAvailable: 10, Color: "red"},
	{WeightKg: 20, PairsAvailable: 10, Color: "blue"},
	{WeightKg: 15, PairsAvailable: 4, Color: "yellow"},
	{WeightKg: 10, PairsAvailable: 4, Color: "green"},
	{WeightKg: 5, PairsAvailable: 4, Color: "white"},
	{WeightKg: 2.5, PairsAvailable: 4, Color: "black"},
	{WeightKg: 1.25, PairsAvailable: 4, Color: "chrome"},
	{WeightKg: 0.5, PairsAvailable: 2, Color: "chrome"},
	{WeightKg: 0.25, PairsAvailable: 2, Color: "chrome"},
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS contests (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT,
			contest_date TEXT NOT NULL,
			discipline TEXT NOT NULL DEFAULT 'Powerlifting',
			bar_weight_male_kg REAL,
			bar_weight_female_kg REAL,
			clamp_weight_kg REAL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS competitors (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT NOT NULL,
			birth_date TEXT,
			club TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS age_categories (
			id TEXT PRIMARY KEY,
			contest_id TEXT NOT NULL,
			code TEXT NOT NULL,
			min_age INTEGER,
			max_age INTEGER,
			sort_order INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (contest_id) REFERENCES contests(id) ON DELETE CASCADE,
			UNIQUE(contest_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS weight_classes (
			id TEXT PRIMARY KEY,
			contest_id TEXT NOT NULL,
			code TEXT NOT NULL,
			gender TEXT NOT NULL,
			min_weight REAL,
			max_weight REAL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (contest_id) REFERENCES contests(id) ON DELETE CASCADE,
			UNIQUE(contest_id, gender, code)
		)`,
		`CREATE TABLE IF NOT EXISTS registrations (
			id TEXT PRIMARY KEY,
			contest_id TEXT NOT NULL,
			competitor_id TEXT NOT NULL,
			bodyweight_kg REAL NOT NULL,
			lot_number INTEGER NOT NULL DEFAULT 0,
			flight TEXT,
			labels TEXT,
			age_category_id TEXT,
			weight_class_id TEXT,
			reshel_coefficient REAL NOT NULL DEFAULT 1,
			mccullough_coefficient REAL NOT NULL DEFAULT 1,
			FOREIGN KEY (contest_id) REFERENCES contests(id) ON DELETE CASCADE,
			FOREIGN KEY (competitor_id) REFERENCES competitors(id) ON DELETE CASCADE,
			FOREIGN KEY (age_category_id) REFERENCES age_categories(id) ON DELETE SET NULL,
			FOREIGN KEY (weight_class_id) REFERENCES weight_classes(id) ON DELETE SET NULL,
			UNIQUE(contest_id, competitor_id)
		)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			registration_id TEXT NOT NULL,
			lift_kind TEXT NOT NULL,
			attempt_number INTEGER NOT NULL CHECK (attempt_number BETWEEN 1 AND 3),
			weight_kg REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'Pending',
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (registration_id) REFERENCES registrations(id) ON DELETE CASCADE,
			UNIQUE(registration_id, lift_kind, attempt_number)
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			registration_id TEXT PRIMARY KEY,
			best_squat REAL NOT NULL,
			best_bench REAL NOT NULL,
			best_deadlift REAL NOT NULL,
			total_weight REAL NOT NULL,
			coefficient_points REAL NOT NULL,
			squat_points REAL NOT NULL,
			bench_points REAL NOT NULL,
			deadlift_points REAL NOT NULL,
			is_disqualified BOOLEAN NOT NULL DEFAULT 0,
			disqualification_reason TEXT,
			place_open INTEGER,
			place_in_age_class INTEGER,
			place_in_weight_class INTEGER,
			calculated_at TEXT NOT NULL,
			FOREIGN KEY (registration_id) REFERENCES registrations(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS plates (
			id TEXT PRIMARY KEY,
			weight_kg REAL NOT NULL UNIQUE,
			pairs_available INTEGER NOT NULL DEFAULT 0,
			color TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_registrations_contest ON registrations(contest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_registration ON attempts(registration_id)`,
		`CREATE INDEX IF NOT EXISTS idx_age_categories_contest ON age_categories(contest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_weight_classes_contest ON weight_classes(contest_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return r.seedPlates()
}

// seedPlates loads the default inventory once per database. The marker
// setting keeps a deliberately emptied inventory empty across restarts.
func (r *Repository) seedPlates() error {
	var seeded string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = 'plates_seeded'`).Scan(&seeded)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	for _, p := range defaultPlates {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO plates (id, weight_kg, pairs_available, color) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), p.WeightKg, p.PairsAvailable, p.Color)
		if err != nil {
			return err
		}
	}
	_, err = r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES ('plates_seeded', 'true')`)
	return err
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting creates or replaces a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"results": true, "attempts": true, "registrations": true, "competitors": true, "contests": true,
}

// ClearTable clears all data from a table
// Only allows clearing whitelisted tables to prevent SQL injection
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrUnknownTable
	}

	// Safe to use string concatenation now that we've validated the table name
	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}

// ==================== Contest Methods ====================

const contestColumns = `id, name, COALESCE(location, ''), contest_date, discipline,
	bar_weight_male_kg, bar_weight_female_kg, clamp_weight_kg, COALESCE(created_at, '')`

func scanContest(s interface{ Scan(...any) error }) (*models.Contest, error) {
	var c models.Contest
	var barMale, barFemale, clamp sql.NullFloat64
	if err := s.Scan(&c.ID, &c.Name, &c.Location, &c.ContestDate, &c.Discipline,
		&barMale, &barFemale, &clamp, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.BarWeightMaleKg = nullFloat(barMale)
	c.BarWeightFemaleKg = nullFloat(barFemale)
	c.ClampWeightKg = nullFloat(clamp)
	return &c, nil
}

// ListContests returns every contest, newest date first
func (r *Repository) ListContests(ctx context.Context) ([]models.Contest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contestColumns+` FROM contests ORDER BY contest_date DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contests := []models.Contest{}
	for rows.Next() {
		c, err := scanContest(rows)
		if err != nil {
			return nil, err
		}
		contests = append(contests, *c)
	}
	return contests, rows.Err()
}

// GetContest retrieves a contest by id
func (r *Repository) GetContest(ctx context.Context, id string) (*models.Contest, error) {
	return getContest(ctx, r.db, id)
}

func getContest(ctx context.Context, q querier, id string) (*models.Contest, error) {
	c, err := scanContest(q.QueryRowContext(ctx, `SELECT `+contestColumns+` FROM contests WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// CreateContest inserts a contest, assigning an id when none is set
func (r *Repository) CreateContest(ctx context.Context, c *models.Contest) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contests (id, name, location, contest_date, discipline, bar_weight_male_kg, bar_weight_female_kg, clamp_weight_kg)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Location, c.ContestDate, c.Discipline, c.BarWeightMaleKg, c.BarWeightFemaleKg, c.ClampWeightKg)
	return translate(err)
}

// UpdateContest replaces a contest's fields
func (r *Repository) UpdateContest(ctx context.Context, c *models.Contest) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contests SET name = ?, location = ?, contest_date = ?, discipline = ?,
			bar_weight_male_kg = ?, bar_weight_female_kg = ?, clamp_weight_kg = ?
		WHERE id = ?
	`, c.Name, c.Location, c.ContestDate, c.Discipline, c.BarWeightMaleKg, c.BarWeightFemaleKg, c.ClampWeightKg, c.ID)
	return affectedOne(res, err)
}

// DeleteContest removes a contest with its descriptors, registrations, attempts and results
func (r *Repository) DeleteContest(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contests WHERE id = ?`, id)
	return affectedOne(res, err)
}

// ==================== Descriptor Methods ====================

// ListAgeCategories returns a contest's age categories in sort order
func (r *Repository) ListAgeCategories(ctx context.Context, contestID string) ([]scoring.AgeCategory, error) {
	return listAgeCategories(ctx, r.db, contestID)
}

func listAgeCategories(ctx context.Context, q querier, contestID string) ([]scoring.AgeCategory, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, code, min_age, max_age, sort_order
		FROM age_categories WHERE contest_id = ?
		ORDER BY sort_order, code
	`, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []scoring.AgeCategory{}
	for rows.Next() {
		var c scoring.AgeCategory
		var minAge, maxAge sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Code, &minAge, &maxAge, &c.SortOrder); err != nil {
			return nil, err
		}
		c.MinAge = nullInt(minAge)
		c.MaxAge = nullInt(maxAge)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateAgeCategory inserts an age category into a contest
func (r *Repository) CreateAgeCategory(ctx context.Context, contestID string, c *scoring.AgeCategory) error {
	return insertAgeCategory(ctx, r.db, contestID, c)
}

func insertAgeCategory(ctx context.Context, q querier, contestID string, c *scoring.AgeCategory) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO age_categories (id, contest_id, code, min_age, max_age, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, contestID, c.Code, c.MinAge, c.MaxAge, c.SortOrder)
	return translate(err)
}

// UpdateAgeCategory replaces an age category's fields
func (r *Repository) UpdateAgeCategory(ctx context.Context, contestID string, c *scoring.AgeCategory) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE age_categories SET code = ?, min_age = ?, max_age = ?, sort_order = ?
		WHERE id = ? AND contest_id = ?
	`, c.Code, c.MinAge, c.MaxAge, c.SortOrder, c.ID, contestID)
	return affectedOne(res, translate(err))
}

// DeleteAgeCategory removes an age category; registrations in it lose their category
func (r *Repository) DeleteAgeCategory(ctx context.Context, contestID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM age_categories WHERE id = ? AND contest_id = ?`, id, contestID)
	return affectedOne(res, err)
}

// ListWeightClasses returns a contest's weight classes in sort order
func (r *Repository) ListWeightClasses(ctx context.Context, contestID string) ([]scoring.WeightClass, error) {
	return listWeightClasses(ctx, r.db, contestID)
}

func listWeightClasses(ctx context.Context, q querier, contestID string) ([]scoring.WeightClass, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, code, gender, min_weight, max_weight, sort_order
		FROM weight_classes WHERE contest_id = ?
		ORDER BY gender, sort_order, code
	`, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []scoring.WeightClass{}
	for rows.Next() {
		var c scoring.WeightClass
		var gender string
		var minW, maxW sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.Code, &gender, &minW, &maxW, &c.SortOrder); err != nil {
			return nil, err
		}
		c.Gender = scoring.Gender(gender)
		c.MinWeight = nullFloat(minW)
		c.MaxWeight = nullFloat(maxW)
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// CreateWeightClass inserts a weight class into a contest
func (r *Repository) CreateWeightClass(ctx context.Context, contestID string, c *scoring.WeightClass) error {
	return insertWeightClass(ctx, r.db, contestID, c)
}

func insertWeightClass(ctx context.Context, q querier, contestID string, c *scoring.WeightClass) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO weight_classes (id, contest_id, code, gender, min_weight, max_weight, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, contestID, c.Code, string(c.Gender), c.MinWeight, c.MaxWeight, c.SortOrder)
	return translate(err)
}

// UpdateWeightClass replaces a weight class's fields
func (r *Repository) UpdateWeightClass(ctx context.Context, contestID string, c *scoring.WeightClass) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE weight_classes SET code = ?, gender = ?, min_weight = ?, max_weight = ?, sort_order = ?
		WHERE id = ? AND contest_id = ?
	`, c.Code, string(c.Gender), c.MinWeight, c.MaxWeight, c.SortOrder, c.ID, contestID)
	return affectedOne(res, translate(err))
}

// DeleteWeightClass removes a weight class; registrations in it lose their class
func (r *Repository) DeleteWeightClass(ctx context.Context, contestID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weight_classes WHERE id = ? AND contest_id = ?`, id, contestID)
	return affectedOne(res, err)
}

// SeedDescriptors inserts a full descriptor set in one transaction
func (r *Repository) SeedDescriptors(ctx context.Context, contestID string, ages []scoring.AgeCategory, classes []scoring.WeightClass) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range ages {
		if err := insertAgeCategory(ctx, tx, contestID, &ages[i]); err != nil {
			return err
		}
	}
	for i := range classes {
		if err := insertWeightClass(ctx, tx, contestID, &classes[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ==================== Helpers ====================

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

// affectedOne turns a zero-row update or delete into ErrNotFound
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
