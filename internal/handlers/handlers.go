package handlers

import (
	"context"

	"github.com/abrezinsky/liftmeet/internal/auth"
	"github.com/abrezinsky/liftmeet/internal/services"
	"github.com/abrezinsky/liftmeet/internal/websocket"
)

// Services bundles every service the HTTP layer calls
type Services struct {
	Contests      services.ContestServicer
	Competitors   services.CompetitorServicer
	Registrations services.RegistrationServicer
	Attempts      services.AttemptServicer
	Results       services.ResultsServicer
	Plates        services.PlateServicer
	Settings      services.SettingsServicer
	Export        services.ExportServicer
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Contests      services.ContestServicer
	Competitors   services.CompetitorServicer
	Registrations services.RegistrationServicer
	Attempts      services.AttemptServicer
	Results       services.ResultsServicer
	Plates        services.PlateServicer
	Settings      services.SettingsServicer
	Export        services.ExportServicer
	Auth          *auth.Auth
	Hub           *websocket.Hub
	Health        Pinger
	Log           HTTPLogger
	limiter       *IPRateLimiter
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies. A nil limiter
// leaves the public API unthrottled.
func New(svc Services, adminAuth *auth.Auth, hub *websocket.Hub, health Pinger, limiter *IPRateLimiter, log HTTPLogger) *Handlers {
	return &Handlers{
		Contests:      svc.Contests,
		Competitors:   svc.Competitors,
		Registrations: svc.Registrations,
		Attempts:      svc.Attempts,
		Results:       svc.Results,
		Plates:        svc.Plates,
		Settings:      svc.Settings,
		Export:        svc.Export,
		Auth:          adminAuth,
		Hub:           hub,
		Health:        health,
		Log:           log,
		limiter:       limiter,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance with a known admin password,
// no websocket hub and no rate limit
func NewForTesting(svc Services, health Pinger) *Handlers {
	return New(svc, auth.New("test-password"), nil, health, nil, NoopHTTPLogger{})
}
