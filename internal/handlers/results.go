package handlers

import (
	"net/http"

	"github.com/abrezinsky/liftmeet/internal/services"
)

// ==================== Results ====================

func (h *Handlers) handleGetResults(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	rows, err := h.Results.GetResults(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ResultsResponse{ContestID: contestID, Results: rows})
}

func (h *Handlers) handleGetTeamResults(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	teams, err := h.Results.GetTeamResults(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, teams)
}

// handleRecalculate forces a full recalculation pass
func (h *Handlers) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.Results.RecalculateContest(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, summary)
}

func (h *Handlers) handleExportResults(w http.ResponseWriter, r *http.Request) {
	contestID, err := urlParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	export, err := h.Export.ExportResults(r.Context(), contestID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondFile(w, services.XLSXContentType, export.Filename, export.Data)
}
