package handlers

import (
	"net/http"
	"strings"

	"github.com/abrezinsky/liftmeet/internal/scoring"
	"github.com/abrezinsky/liftmeet/internal/services"
)

// ==================== Plate Inventory ====================

func (h *Handlers) handleListPlates(w http.ResponseWriter, r *http.Request) {
	plates, err := h.Plates.ListPlates(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, plates)
}

func (h *Handlers) handleCreatePlate(w http.ResponseWriter, r *http.Request) {
	var req scoring.Plate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	plate, err := h.Plates.CreatePlate(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, plate)
}

func (h *Handlers) handleUpdatePlate(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req scoring.Plate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	plate, err := h.Plates.UpdatePlate(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, plate)
}

func (h *Handlers) handleDeletePlate(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Plates.DeletePlate(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Loading ====================

// handlePlanPlates answers ?target=&gender=&contest=&bar= for the loaders
func (h *Handlers) handlePlanPlates(w http.ResponseWriter, r *http.Request) {
	target, _, err := queryFloat(r, "target")
	if err != nil {
		respondError(w, err)
		return
	}
	bar, hasBar, err := queryFloat(r, "bar")
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	req := services.PlanRequest{
		TargetKg:  target,
		Gender:    strings.TrimSpace(q.Get("gender")),
		ContestID: strings.TrimSpace(q.Get("contest")),
	}
	if hasBar {
		req.BarWeightKg = &bar
	}

	plan, err := h.Plates.PlanForTarget(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, plan)
}

func (h *Handlers) handleAttemptPlatePlan(w http.ResponseWriter, r *http.Request) {
	attemptID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	plan, err := h.Plates.PlanForAttempt(r.Context(), attemptID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, plan)
}
