package handlers

import (
	"net/http"

	"github.com/Dosada05/league-ledger/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
	seasonService services.SeasonService
}

func NewLeagueHandler(leagueService services.LeagueService, seasonService services.SeasonService) *LeagueHandler {
	return &LeagueHandler{
		leagueService: leagueService,
		seasonService: seasonService,
	}
}

func (h *LeagueHandler) InitSeason(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	finances, err := h.seasonService.Init(r.Context(), scope)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"season": scope.String(), "finances": finances}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListFinances(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	finances, err := h.leagueService.ListFinances(r.Context(), scope)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"finances": finances}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTransactions поддерживает ?team=, ?limit=, ?offset=
func (h *LeagueHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	limit, offset, err := getPagination(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	txs, err := h.leagueService.ListTransactions(r.Context(), scope, r.URL.Query().Get("team"), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transactions": txs}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.leagueService.ListPlayers(r.Context(), scope, r.URL.Query().Get("team"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) ListAwards(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	awards, err := h.leagueService.ListAwards(r.Context(), scope)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"awards": awards}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeagueHandler) Teams(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": h.leagueService.Teams()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
