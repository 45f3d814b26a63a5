package handlers

import (
	"net/http"

	"github.com/abrezinsky/liftmeet/internal/scoring"
	"github.com/abrezinsky/liftmeet/internal/services"
)

// ==================== Contests ====================

func (h *Handlers) handleListContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.Contests.ListContests(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, contests)
}

func (h *Handlers) handleGetContest(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	contest, err := h.Contests.GetContest(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, contest)
}

func (h *Handlers) handleCreateContest(w http.ResponseWriter, r *http.Request) {
	var req services.Contest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	contest, err := h.Contests.CreateContest(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, contest)
}

func (h *Handlers) handleUpdateContest(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req services.Contest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	contest, err := h.Contests.UpdateContest(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, contest)
}

func (h *Handlers) handleDeleteContest(w http.ResponseWriter, r *http.Request) {
	id, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Contests.DeleteContest(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Age Categories ====================

func (h *Handlers) handleListAgeCategories(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	categories, err := h.Contests.ListAgeCategories(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, categories)
}

func (h *Handlers) handleCreateAgeCategory(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req scoring.AgeCategory
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	category, err := h.Contests.CreateAgeCategory(r.Context(), contestID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, category)
}

func (h *Handlers) handleUpdateAgeCategory(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	categoryID, err := urlParam(r, "categoryID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req scoring.AgeCategory
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	category, err := h.Contests.UpdateAgeCategory(r.Context(), contestID, categoryID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, category)
}

func (h *Handlers) handleDeleteAgeCategory(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	categoryID, err := urlParam(r, "categoryID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Contests.DeleteAgeCategory(r.Context(), contestID, categoryID); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== Weight Classes ====================

func (h *Handlers) handleListWeightClasses(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	classes, err := h.Contests.ListWeightClasses(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, classes)
}

func (h *Handlers) handleCreateWeightClass(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req scoring.WeightClass
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	class, err := h.Contests.CreateWeightClass(r.Context(), contestID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, class)
}

func (h *Handlers) handleUpdateWeightClass(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	classID, err := urlParam(r, "classID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req scoring.WeightClass
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	class, err := h.Contests.UpdateWeightClass(r.Context(), contestID, classID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, class)
}

func (h *Handlers) handleDeleteWeightClass(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	classID, err := urlParam(r, "classID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Contests.DeleteWeightClass(r.Context(), contestID, classID); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// ==================== QR Codes ====================

func (h *Handlers) handleScoreboardQR(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Contests.ScoreboardQR(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondFile(w, "image/png", "", png)
}
