package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abrezinsky/liftmeet/internal/metrics"
)

// DefaultRequestTimeout bounds handlers when the caller does not pass one
const DefaultRequestTimeout = 60 * time.Second

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// throttle applies the public rate limit when one is configured
func (h *Handlers) throttle(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Middleware(next)
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	return h.RouterWithTimeout(DefaultRequestTimeout)
}

// RouterWithTimeout returns the router with a custom per-request timeout
func (h *Handlers) RouterWithTimeout(timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(metrics.InstrumentHandler)

	// Operational endpoints
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	// WebSocket
	if h.Hub != nil {
		r.With(h.throttle).Get("/ws", h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		// Scoreboard API (public)
		r.Group(func(r chi.Router) {
			r.Use(h.throttle)
			r.Get("/api/contests", h.handleListContests)
			r.Get("/api/contests/{id}", h.handleGetContest)
			r.Get("/api/contests/{id}/results", h.handleGetResults)
			r.Get("/api/contests/{id}/team-results", h.handleGetTeamResults)
			r.Get("/api/contests/{id}/current-lifter", h.handleGetCurrentLifter)
			r.Get("/api/plates/plan", h.handlePlanPlates)
		})

		// Auth routes (public)
		r.With(h.throttle).Post("/api/admin/login", h.handleLogin)
		r.Post("/api/admin/logout", h.handleLogout)

		// Admin API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			// Contests
			r.Get("/api/admin/contests", h.handleListContests)
			r.Post("/api/admin/contests", h.handleCreateContest)
			r.Get("/api/admin/contests/{id}", h.handleGetContest)
			r.Put("/api/admin/contests/{id}", h.handleUpdateContest)
			r.Delete("/api/admin/contests/{id}", h.handleDeleteContest)

			// Descriptors
			r.Get("/api/admin/contests/{id}/age-categories", h.handleListAgeCategories)
			r.Post("/api/admin/contests/{id}/age-categories", h.handleCreateAgeCategory)
			r.Put("/api/admin/contests/{id}/age-categories/{categoryID}", h.handleUpdateAgeCategory)
			r.Delete("/api/admin/contests/{id}/age-categories/{categoryID}", h.handleDeleteAgeCategory)
			r.Get("/api/admin/contests/{id}/weight-classes", h.handleListWeightClasses)
			r.Post("/api/admin/contests/{id}/weight-classes", h.handleCreateWeightClass)
			r.Put("/api/admin/contests/{id}/weight-classes/{classID}", h.handleUpdateWeightClass)
			r.Delete("/api/admin/contests/{id}/weight-classes/{classID}", h.handleDeleteWeightClass)

			// Registrations
			r.Get("/api/admin/contests/{id}/registrations", h.handleListRegistrations)
			r.Post("/api/admin/contests/{id}/registrations", h.handleCreateRegistration)
			r.Get("/api/admin/registrations/{id}", h.handleGetRegistration)
			r.Put("/api/admin/registrations/{id}", h.handleUpdateRegistration)
			r.Delete("/api/admin/registrations/{id}", h.handleDeleteRegistration)

			// Attempts
			r.Get("/api/admin/registrations/{id}/attempts", h.handleListAttempts)
			r.Post("/api/admin/attempts", h.handleDeclareAttempt)
			r.Put("/api/admin/attempts/{id}", h.handleUpdateAttempt)
			r.Put("/api/admin/attempts/{id}/status", h.handleSetAttemptStatus)
			r.Delete("/api/admin/attempts/{id}", h.handleDeleteAttempt)
			r.Get("/api/admin/attempts/{id}/plate-plan", h.handleAttemptPlatePlan)

			// Platform & results
			r.Post("/api/admin/contests/{id}/current-lifter", h.handleSetCurrentLifter)
			r.Post("/api/admin/contests/{id}/recalculate", h.handleRecalculate)
			r.Get("/api/admin/contests/{id}/export.xlsx", h.handleExportResults)
			r.Get("/api/admin/contests/{id}/scoreboard-qr", h.handleScoreboardQR)

			// Competitors
			r.Get("/api/admin/competitors", h.handleListCompetitors)
			r.Post("/api/admin/competitors", h.handleCreateCompetitor)
			r.Get("/api/admin/competitors/{id}", h.handleGetCompetitor)
			r.Put("/api/admin/competitors/{id}", h.handleUpdateCompetitor)
			r.Delete("/api/admin/competitors/{id}", h.handleDeleteCompetitor)

			// Plate inventory
			r.Get("/api/admin/plates", h.handleListPlates)
			r.Post("/api/admin/plates", h.handleCreatePlate)
			r.Put("/api/admin/plates/{id}", h.handleUpdatePlate)
			r.Delete("/api/admin/plates/{id}", h.handleDeletePlate)

			// Settings & maintenance
			r.Get("/api/admin/settings", h.handleGetSettings)
			r.Put("/api/admin/settings", h.handleUpdateSettings)
			r.Post("/api/admin/coefficients/reload", h.handleReloadCoefficients)
			r.Post("/api/admin/reset-database", h.handleResetDatabase)
		})
	})

	return r
}
