package api

import (
	"encoding/json"
	"net/http"

	"betledger/models"
	"betledger/service"

	log "github.com/sirupsen/logrus"
)

type successResponse struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func respondWithData(w http.ResponseWriter, statusCode int, data any) {
	respondWithJSON(w, statusCode, successResponse{Success: true, Data: data})
}

func respondWithPage(w http.ResponseWriter, page *models.BetPage) {
	respondWithJSON(w, http.StatusOK, successResponse{
		Success:    true,
		Data:       page.Bets,
		Pagination: &page.Pagination,
	})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}

// statusForKind maps a ledger error kind to its HTTP status
func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotAuthenticated:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindInsufficientBalance:
		return http.StatusUnprocessableEntity
	case service.KindAlreadySettled, service.KindHasDependentBets:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes a service failure; store errors were already
// logged by the service and only their generic message is sent
func respondWithServiceError(w http.ResponseWriter, err error) {
	respondWithError(w, statusForKind(service.KindOf(err)), service.MessageOf(err))
}
