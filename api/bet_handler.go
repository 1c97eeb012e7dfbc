package api

import (
	"net/http"

	"betledger/service"
)

// BetHandler serves the bet routes
type BetHandler struct {
	bets service.BetService
}

func NewBetHandler(bets service.BetService) *BetHandler {
	return &BetHandler{bets: bets}
}

func (h *BetHandler) GetBets(w http.ResponseWriter, r *http.Request) {
	filter, err := betFilterFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.bets.GetBets(r.Context(), UserIDFromContext(r.Context()), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithPage(w, page)
}

func (h *BetHandler) CreateBet(w http.ResponseWriter, r *http.Request) {
	var req createBetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := h.bets.CreateBet(r.Context(), UserIDFromContext(r.Context()), input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusCreated, bet)
}

func (h *BetHandler) GetBet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := h.bets.GetBetByID(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bet)
}

func (h *BetHandler) UpdateBet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateBetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := h.bets.UpdateBet(r.Context(), UserIDFromContext(r.Context()), id, req.toInput())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bet)
}

func (h *BetHandler) SettleBet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req settleBetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bet, err := h.bets.SettleBet(r.Context(), UserIDFromContext(r.Context()), id, req.Status, req.Result)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bet)
}

func (h *BetHandler) DeleteBet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bets.DeleteBet(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]string{"id": id.String()})
}
