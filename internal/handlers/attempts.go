package handlers

import (
	"net/http"

	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/services"
)

// ==================== Attempts ====================

func (h *Handlers) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	registrationID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	attempts, err := h.Attempts.ListAttempts(r.Context(), registrationID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, attempts)
}

func (h *Handlers) handleDeclareAttempt(w http.ResponseWriter, r *http.Request) {
	var req services.Attempt
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	attempt, err := h.Attempts.DeclareAttempt(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, attempt)
}

func (h *Handlers) handleUpdateAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.AttemptUpdate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	attempt, err := h.Attempts.UpdateAttempt(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, attempt)
}

// handleSetAttemptStatus records the judges' decision
func (h *Handlers) handleSetAttemptStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req AttemptStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	attempt, err := h.Attempts.SetAttemptStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, attempt)
}

func (h *Handlers) handleDeleteAttempt(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Attempts.DeleteAttempt(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Platform ====================

func (h *Handlers) handleGetCurrentLifter(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	lifter, err := h.Attempts.GetCurrentLifter(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, lifter)
}

func (h *Handlers) handleSetCurrentLifter(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req CurrentLifterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	lifter, err := h.Attempts.SetCurrentLifter(r.Context(), models.CurrentLifter{
		ContestID:      contestID,
		RegistrationID: req.RegistrationID,
		LiftKind:       req.LiftKind,
		AttemptNumber:  req.AttemptNumber,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, lifter)
}
