package handlers

import (
	"net/http"

	"github.com/Dosada05/league-ledger/services"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rosterService services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

type playerInput struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

type banInput struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Games  int    `json:"games"`
}

func (h *RosterHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input playerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.AddPlayer(r.Context(), scope, input.Name, input.Team)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RosterHandler) AddBan(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input banInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ban, err := h.rosterService.AddBan(r.Context(), scope, input.Player, input.Team, input.Games)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"ban": ban}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
