package handlers

import (
	"net/http"

	"github.com/abrezinsky/liftmeet/internal/services"
)

// ==================== Competitors ====================

func (h *Handlers) handleListCompetitors(w http.ResponseWriter, r *http.Request) {
	competitors, err := h.Competitors.ListCompetitors(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, competitors)
}

func (h *Handlers) handleGetCompetitor(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	competitor, err := h.Competitors.GetCompetitor(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, competitor)
}

func (h *Handlers) handleCreateCompetitor(w http.ResponseWriter, r *http.Request) {
	var req services.Competitor
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	competitor, err := h.Competitors.CreateCompetitor(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, competitor)
}

func (h *Handlers) handleUpdateCompetitor(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.Competitor
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	competitor, err := h.Competitors.UpdateCompetitor(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, competitor)
}

func (h *Handlers) handleDeleteCompetitor(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Competitors.DeleteCompetitor(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Registrations ====================

func (h *Handlers) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	registrations, err := h.Registrations.ListRegistrations(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, registrations)
}

func (h *Handlers) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	registration, err := h.Registrations.GetRegistration(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, registration)
}

// handleCreateRegistration enters a competitor into the contest named in the path
func (h *Handlers) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.Registration
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	req.ContestID = contestID

	registration, err := h.Registrations.CreateRegistration(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, registration)
}

func (h *Handlers) handleUpdateRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.RegistrationUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	registration, err := h.Registrations.UpdateRegistration(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, registration)
}

func (h *Handlers) handleDeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Registrations.DeleteRegistration(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
