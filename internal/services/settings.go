package services

import (
	"context"
	stderrors "errors"
	"slices"

	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// SettingsService handles key/value settings and the coefficient table snapshot
type SettingsService struct {
	log    logger.Logger
	repo   repository.SettingsRepository
	tables *scoring.TableCache
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, tables *scoring.TableCache) *SettingsService {
	return &SettingsService{log: log, repo: repo, tables: tables}
}

// CoefficientTables returns the current coefficient snapshot
func (s *SettingsService) CoefficientTables() *scoring.Tables {
	if s.tables == nil {
		return nil
	}
	return s.tables.Snapshot()
}

// ReloadCoefficients re-reads the configured table files and swaps the
// snapshot in. On failure the previous tables stay active.
func (s *SettingsService) ReloadCoefficients(ctx context.Context) error {
	if s.tables == nil {
		return nil
	}
	if err := s.tables.Reload(); err != nil {
		s.log.Warn("Coefficient reload failed, keeping previous tables", "error", err)
		return err
	}
	t := s.tables.Snapshot()
	s.log.Info("Coefficient tables reloaded",
		"reshel_male", len(t.Reshel.Male),
		"reshel_female", len(t.Reshel.Female),
		"mccullough", len(t.McCullough.Entries))
	return nil
}

// GetBaseURL returns the public base URL used in scoreboard links
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, "base_url")
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return "", nil // not configured yet
		}
		return "", err
	}
	return value, nil
}

// SetBaseURL saves the public base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, "base_url", url)
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// AllSettings returns the admin-visible settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	settings["base_url"] = baseURL

	notes, err := s.repo.GetSetting(ctx, "admin_notes")
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	settings["admin_notes"] = notes

	if t := s.CoefficientTables(); t != nil {
		settings["reshel_increment_kg"] = t.Reshel.IncrementKg
		settings["reshel_rows"] = len(t.Reshel.Male) + len(t.Reshel.Female)
		settings["mccullough_rows"] = len(t.McCullough.Entries)
	}
	return settings, nil
}

// Settings represents application settings for update operations
type Settings struct {
	BaseURL    string  `json:"base_url"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.AdminNotes != nil {
		if err := s.SetSetting(ctx, "admin_notes", *settings.AdminNotes); err != nil {
			return err
		}
	}
	return nil
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"results": true, "attempts": true, "registrations": true, "competitors": true, "contests": true,
}

// resetOrder clears dependents before the rows they point at
var resetOrder = []string{"results", "attempts", "registrations", "competitors", "contests"}

// tableDependents lists what must go along with a table
var tableDependents = map[string][]string{
	"attempts":      {"results"},
	"registrations": {"attempts", "results"},
	"competitors":   {"registrations", "attempts", "results"},
	"contests":      {"registrations", "attempts", "results"},
}

// ResetTables validates and clears the named tables together with their dependents
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	selected := map[string]bool{}
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &UnknownTableError{Table: table}
		}
		selected[table] = true
		for _, dep := range tableDependents[table] {
			selected[dep] = true
		}
	}

	var tablesToReset []string
	for _, table := range resetOrder {
		if selected[table] {
			tablesToReset = append(tablesToReset, table)
		}
	}

	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
	}
	s.log.Warn("Tables reset", "tables", tablesToReset)

	return &ResetTablesResult{
		Tables:  slices.Clip(tablesToReset),
		Message: "Successfully deleted data from tables",
	}, nil
}
