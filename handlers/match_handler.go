package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/services"
)

const dateLayout = "2006-01-02"

type MatchHandler struct {
	settlementService services.SettlementService
	reversalService   services.ReversalService
	matchService      services.MatchService
}

func NewMatchHandler(settlementService services.SettlementService, reversalService services.ReversalService, matchService services.MatchService) *MatchHandler {
	return &MatchHandler{
		settlementService: settlementService,
		reversalService:   reversalService,
		matchService:      matchService,
	}
}

// matchInput - тело запроса на запись матча. Без goals_a/goals_b счёт
// считается по спискам бомбардиров.
type matchInput struct {
	Date          string               `json:"date"`
	TeamA         string               `json:"team_a"`
	TeamB         string               `json:"team_b"`
	GoalsA        *int                 `json:"goals_a"`
	GoalsB        *int                 `json:"goals_b"`
	ScorersA      []models.ScorerEntry `json:"scorers_a"`
	ScorersB      []models.ScorerEntry `json:"scorers_b"`
	YellowA       int                  `json:"yellow_a"`
	RedA          int                  `json:"red_a"`
	YellowB       int                  `json:"yellow_b"`
	RedB          int                  `json:"red_b"`
	ManOfTheMatch *string              `json:"man_of_the_match"`
}

func (in matchInput) toDraft() (models.MatchDraft, error) {
	draft := models.MatchDraft{
		TeamA:         in.TeamA,
		TeamB:         in.TeamB,
		ScorersA:      in.ScorersA,
		ScorersB:      in.ScorersB,
		YellowA:       in.YellowA,
		RedA:          in.RedA,
		YellowB:       in.YellowB,
		RedB:          in.RedB,
		ManOfTheMatch: in.ManOfTheMatch,
	}
	if date := strings.TrimSpace(in.Date); date != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return models.MatchDraft{}, fmt.Errorf("date must be in format %s", dateLayout)
		}
		draft.Date = parsed
	}

	if (in.GoalsA == nil) != (in.GoalsB == nil) {
		return models.MatchDraft{}, errors.New("goals_a and goals_b must be given together")
	}
	if in.GoalsA != nil {
		draft.GoalsA, draft.GoalsB = *in.GoalsA, *in.GoalsB
	} else {
		draft.GoalsA, draft.GoalsB = models.DeriveGoals(in.ScorersA, in.ScorersB)
	}
	return draft, nil
}

func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, nil)
}

func (h *MatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.settle(w, r, &matchID)
}

func (h *MatchHandler) settle(w http.ResponseWriter, r *http.Request, editID *int) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input matchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	draft, err := input.toDraft()
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.settlementService.Settle(r.Context(), scope, draft, editID)
	if err != nil {
		if report != nil {
			partialFailureResponse(w, r, err, report)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if editID != nil {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, jsonResponse{"settlement": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.reversalService.Reverse(r.Context(), scope, matchID)
	if err != nil {
		if report != nil {
			partialFailureResponse(w, r, err, report)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"reversal": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
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

	matches, err := h.matchService.ListMatches(r.Context(), scope, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, err := getScopeFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), scope, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
