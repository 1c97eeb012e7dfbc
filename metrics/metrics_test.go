package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"betledger/events"
	"betledger/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics_Handle(t *testing.T) {
	m := NewLedgerMetrics()
	ctx := context.Background()

	m.Handle(ctx, events.BankrollCreatedEvent{InitialBalance: decimal.NewFromInt(1000)})
	m.Handle(ctx, events.BetPlacedEvent{Sport: models.SportTennis, Stake: decimal.NewFromInt(100)})
	m.Handle(ctx, events.BetPlacedEvent{Sport: models.SportTennis, Stake: decimal.RequireFromString("50.5")})
	m.Handle(ctx, events.BetSettledEvent{Status: models.BetStatusWon, Profit: decimal.NewFromInt(150)})
	m.Handle(ctx, events.BetSettledEvent{Status: models.BetStatusLost, Profit: decimal.NewFromInt(-50)})
	m.Handle(ctx, events.BetDeletedEvent{Status: models.BetStatusPending})
	m.Handle(ctx, events.BalanceChangeEvent{TransactionType: models.TransactionTypeStakeDebit})
	m.Handle(ctx, events.BalanceChangeEvent{TransactionType: models.TransactionTypeStakeDebit})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.bankrollsOpened))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.betsPlaced.WithLabelValues("TENNIS")))
	assert.Equal(t, 150.5, testutil.ToFloat64(m.stakedAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.betsSettled.WithLabelValues("WON")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.betsSettled.WithLabelValues("LOST")))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.settledProfit))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.betsDeleted.WithLabelValues("PENDING")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.balanceChanges.WithLabelValues(string(models.TransactionTypeStakeDebit))))
}

func TestLedgerMetrics_Middleware(t *testing.T) {
	m := NewLedgerMetrics()

	router := mux.NewRouter()
	router.Use(m.Middleware())
	router.HandleFunc("/bets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bets/abc", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/bets/{id}", "404")))
}

func TestNewHandler(t *testing.T) {
	m := NewLedgerMetrics()
	m.Handle(context.Background(), events.BankrollCreatedEvent{})

	t.Run("metrics endpoint", func(t *testing.T) {
		handler := NewHandler(m.Registry(), func(ctx context.Context) error { return nil })
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body, _ := io.ReadAll(rec.Body)
		assert.True(t, strings.Contains(string(body), "betledger_bankrolls_created_total 1"))
	})

	t.Run("healthy", func(t *testing.T) {
		handler := NewHandler(m.Registry(), func(ctx context.Context) error { return nil })
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("unhealthy", func(t *testing.T) {
		handler := NewHandler(m.Registry(), func(ctx context.Context) error { return errors.New("pool closed") })
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "pool closed")
	})
}
