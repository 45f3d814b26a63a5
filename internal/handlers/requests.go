package handlers

// LoginRequest represents an admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// AttemptStatusRequest represents the judges' decision on an attempt
type AttemptStatusRequest struct {
	Status string `json:"status"`
}

// CurrentLifterRequest puts a registration on the platform
type CurrentLifterRequest struct {
	RegistrationID string `json:"registration_id"`
	LiftKind       string `json:"lift_kind"`
	AttemptNumber  int    `json:"attempt_number"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
