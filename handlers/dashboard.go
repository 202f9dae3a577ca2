package handlers

import (
	"net/http"

	"github.com/Dosada05/league-ledger/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stats, err := h.dashboardService.GetStats(r.Context(), scope)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
