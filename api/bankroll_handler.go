package api

import (
	"net/http"

	"betledger/models"
	"betledger/service"
)

// BankrollHandler serves the bankroll routes
type BankrollHandler struct {
	bankrolls service.BankrollService
	stats     service.StatsService
}

func NewBankrollHandler(bankrolls service.BankrollService, stats service.StatsService) *BankrollHandler {
	return &BankrollHandler{
		bankrolls: bankrolls,
		stats:     stats,
	}
}

func (h *BankrollHandler) GetBankrolls(w http.ResponseWriter, r *http.Request) {
	bankrolls, err := h.bankrolls.GetBankrolls(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bankrolls)
}

func (h *BankrollHandler) CreateBankroll(w http.ResponseWriter, r *http.Request) {
	var req createBankrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bankroll, err := h.bankrolls.CreateBankroll(r.Context(), UserIDFromContext(r.Context()), models.CreateBankrollInput{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		Currency:       req.Currency,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusCreated, bankroll)
}

func (h *BankrollHandler) GetActiveBankroll(w http.ResponseWriter, r *http.Request) {
	bankroll, err := h.bankrolls.GetActiveBankroll(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bankroll)
}

func (h *BankrollHandler) GetBankroll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bankroll, err := h.bankrolls.GetBankrollByID(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bankroll)
}

func (h *BankrollHandler) UpdateBankroll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateBankrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bankroll, err := h.bankrolls.UpdateBankroll(r.Context(), UserIDFromContext(r.Context()), id, models.BankrollUpdate{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bankroll)
}

func (h *BankrollHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req balanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bankroll, err := h.bankrolls.UpdateBankrollBalance(r.Context(), UserIDFromContext(r.Context()), id, req.Operation, req.Amount)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bankroll)
}

func (h *BankrollHandler) GetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	history, err := h.bankrolls.GetBalanceHistory(r.Context(), UserIDFromContext(r.Context()), id, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, history)
}

func (h *BankrollHandler) GetBankrollStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.stats.GetBankrollStats(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, stats)
}

func (h *BankrollHandler) DeleteBankroll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.bankrolls.DeleteBankroll(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]string{"id": id.String()})
}
