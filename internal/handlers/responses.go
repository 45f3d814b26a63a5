package handlers

import "github.com/abrezinsky/liftmeet/internal/models"

// LoginResponse reports the session state after login or logout
type LoginResponse struct {
	Authenticated bool `json:"authenticated"`
}

// HealthResponse is the body of /healthz
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ResultsResponse wraps a contest's ranked rows
type ResultsResponse struct {
	ContestID string             `json:"contest_id"`
	Results   []models.ResultRow `json:"results"`
}

// ResetResponse reports which tables a reset cleared
type ResetResponse struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}
