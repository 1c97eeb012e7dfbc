package api

import (
	"net/http"

	"betledger/service"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// Services are the ledger operations the API exposes
type Services struct {
	Bankrolls service.BankrollService
	Bets      service.BetService
	Stats     service.StatsService
}

// RouterConfig holds the HTTP settings of the API
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int

	// Instrument wraps every matched route, e.g. with request metrics
	Instrument func(http.Handler) http.Handler
}

// NewRouter builds the /api/v1 routes and the middleware stack around them
func NewRouter(services Services, cfg RouterConfig) http.Handler {
	bankrollHandler := NewBankrollHandler(services.Bankrolls, services.Stats)
	betHandler := NewBetHandler(services.Bets)
	statsHandler := NewStatsHandler(services.Stats)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	rateLimiter := NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	r.Use(ErrorHandling())
	r.Use(RequestLogging())
	r.Use(SecurityHeaders())
	r.Use(rateLimiter.Middleware())
	if cfg.Instrument != nil {
		r.Use(cfg.Instrument)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(Authentication(cfg.JWTSecret))

	bankrolls := api.PathPrefix("/bankrolls").Subrouter()
	bankrolls.HandleFunc("", bankrollHandler.GetBankrolls).Methods(http.MethodGet)
	bankrolls.HandleFunc("", bankrollHandler.CreateBankroll).Methods(http.MethodPost)
	bankrolls.HandleFunc("/active", bankrollHandler.GetActiveBankroll).Methods(http.MethodGet)
	bankrolls.HandleFunc("/{id}", bankrollHandler.GetBankroll).Methods(http.MethodGet)
	bankrolls.HandleFunc("/{id}", bankrollHandler.UpdateBankroll).Methods(http.MethodPatch)
	bankrolls.HandleFunc("/{id}", bankrollHandler.DeleteBankroll).Methods(http.MethodDelete)
	bankrolls.HandleFunc("/{id}/balance", bankrollHandler.UpdateBalance).Methods(http.MethodPost)
	bankrolls.HandleFunc("/{id}/history", bankrollHandler.GetBalanceHistory).Methods(http.MethodGet)
	bankrolls.HandleFunc("/{id}/stats", bankrollHandler.GetBankrollStats).Methods(http.MethodGet)

	bets := api.PathPrefix("/bets").Subrouter()
	bets.HandleFunc("", betHandler.GetBets).Methods(http.MethodGet)
	bets.HandleFunc("", betHandler.CreateBet).Methods(http.MethodPost)
	bets.HandleFunc("/{id}", betHandler.GetBet).Methods(http.MethodGet)
	bets.HandleFunc("/{id}", betHandler.UpdateBet).Methods(http.MethodPatch)
	bets.HandleFunc("/{id}", betHandler.DeleteBet).Methods(http.MethodDelete)
	bets.HandleFunc("/{id}/settle", betHandler.SettleBet).Methods(http.MethodPost)

	stats := api.PathPrefix("/stats").Subrouter()
	stats.HandleFunc("", statsHandler.GetUserStats).Methods(http.MethodGet)
	stats.HandleFunc("/range", statsHandler.GetStatsByDateRange).Methods(http.MethodGet)
	stats.HandleFunc("/sports", statsHandler.GetStatsBySport).Methods(http.MethodGet)
	stats.HandleFunc("/monthly", statsHandler.GetMonthlyStats).Methods(http.MethodGet)
	stats.HandleFunc("/top", statsHandler.GetTopProfitableBets).Methods(http.MethodGet)
	stats.HandleFunc("/recent", statsHandler.GetRecentBets).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests never need a matching route
	return CORS(cfg.AllowedOrigins)(r)
}
