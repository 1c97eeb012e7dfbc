package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"betledger/events"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "betledger"

// LedgerMetrics holds the Prometheus instruments of the ledger
type LedgerMetrics struct {
	registry *prometheus.Registry

	betsPlaced      *prometheus.CounterVec
	betsSettled     *prometheus.CounterVec
	betsDeleted     *prometheus.CounterVec
	bankrollsOpened prometheus.Counter
	balanceChanges  *prometheus.CounterVec
	stakedAmount    prometheus.Counter
	settledProfit   prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewLedgerMetrics creates and registers every instrument on a fresh registry
func NewLedgerMetrics() *LedgerMetrics {
	m := &LedgerMetrics{
		registry: prometheus.NewRegistry(),
		betsPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_placed_total",
			Help:      "Bets recorded, by sport",
		}, []string{"sport"}),
		betsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_settled_total",
			Help:      "Bets settled, by final status",
		}, []string{"status"}),
		betsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bets_deleted_total",
			Help:      "Bets deleted, by status at deletion",
		}, []string{"status"}),
		bankrollsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bankrolls_created_total",
			Help:      "Bankrolls opened",
		}),
		balanceChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_changes_total",
			Help:      "Ledger entries written, by transaction type",
		}, []string{"transaction_type"}),
		stakedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staked_amount_total",
			Help:      "Sum of stakes of placed bets",
		}),
		settledProfit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "settled_profit",
			Help:      "Net profit of bets settled since start",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.betsPlaced,
		m.betsSettled,
		m.betsDeleted,
		m.bankrollsOpened,
		m.balanceChanges,
		m.stakedAmount,
		m.settledProfit,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the instruments live on
func (m *LedgerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Subscribe counts every ledger event emitted on the bus
func (m *LedgerMetrics) Subscribe(bus *events.Bus) {
	bus.SubscribeAll(m.Handle)
}

// Handle records one ledger event
func (m *LedgerMetrics) Handle(_ context.Context, event events.Event) {
	switch e := event.(type) {
	case events.BetPlacedEvent:
		m.betsPlaced.WithLabelValues(string(e.Sport)).Inc()
		m.stakedAmount.Add(e.Stake.InexactFloat64())
	case events.BetSettledEvent:
		m.betsSettled.WithLabelValues(string(e.Status)).Inc()
		m.settledProfit.Add(e.Profit.InexactFloat64())
	case events.BetDeletedEvent:
		m.betsDeleted.WithLabelValues(string(e.Status)).Inc()
	case events.BankrollCreatedEvent:
		m.bankrollsOpened.Inc()
	case events.BalanceChangeEvent:
		m.balanceChanges.WithLabelValues(string(e.TransactionType)).Inc()
	}
}

// Middleware records request count and latency per matched route template
func (m *LedgerMetrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
			m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
