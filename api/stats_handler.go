package api

import (
	"net/http"
	"strings"
	"time"

	"betledger/service"
)

// StatsHandler serves the statistics routes
type StatsHandler struct {
	stats service.StatsService
}

func NewStatsHandler(stats service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetUserStats(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, stats)
}

func (h *StatsHandler) GetStatsByDateRange(w http.ResponseWriter, r *http.Request) {
	start, err := queryTime(r, "start")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := queryTime(r, "end")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if start == nil || end == nil {
		respondWithError(w, http.StatusBadRequest, "start and end are required")
		return
	}

	// a bare date as end covers that whole day
	if len(strings.TrimSpace(r.URL.Query().Get("end"))) == len("2006-01-02") {
		*end = end.Add(24*time.Hour - time.Nanosecond)
	}

	stats, err := h.stats.GetStatsByDateRange(r.Context(), UserIDFromContext(r.Context()), *start, *end)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, stats)
}

func (h *StatsHandler) GetStatsBySport(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.GetStatsBySport(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, stats)
}

func (h *StatsHandler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.stats.GetMonthlyStats(r.Context(), UserIDFromContext(r.Context()), year)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, stats)
}

func (h *StatsHandler) GetTopProfitableBets(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bets, err := h.stats.GetTopProfitableBets(r.Context(), UserIDFromContext(r.Context()), limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bets)
}

func (h *StatsHandler) GetRecentBets(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bets, err := h.stats.GetRecentBets(r.Context(), UserIDFromContext(r.Context()), limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, bets)
}
