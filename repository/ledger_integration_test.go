package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"betledger/events"
	"betledger/models"
	"betledger/repository/testutil"
	"betledger/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerServices struct {
	bankrolls service.BankrollService
	bets      service.BetService
	stats     service.StatsService
}

func newLedgerServices(testDB *testutil.TestDatabase, bus *events.Bus) ledgerServices {
	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	return ledgerServices{
		bankrolls: service.NewBankrollService(factory, "BRL"),
		bets:      service.NewBetService(factory),
		stats:     service.NewStatsService(factory),
	}
}

func betInput(bankrollID uuid.UUID, stake, odds string) models.CreateBetInput {
	return models.CreateBetInput{
		BankrollID: bankrollID,
		Sport:      models.SportBasketball,
		Event:      "Lakers vs Celtics",
		Market:     "Moneyline",
		Selection:  "Lakers",
		Odds:       decimal.RequireFromString(odds),
		Stake:      decimal.RequireFromString(stake),
		EventDate:  time.Now().UTC().Add(2 * time.Hour),
	}
}

// assertLedgerConsistent checks that the stored balance equals the initial
// balance plus every recorded change
func assertLedgerConsistent(t *testing.T, testDB *testutil.TestDatabase, bankrollID uuid.UUID) decimal.Decimal {
	t.Helper()
	ctx := context.Background()

	var initial, current, changes decimal.Decimal
	err := testDB.DB.QueryRow(ctx, `
		SELECT br.initial_balance, br.current_balance,
		       COALESCE((SELECT SUM(change_amount) FROM balance_history WHERE bankroll_id = br.id), 0)
		FROM bankrolls br
		WHERE br.id = $1
	`, bankrollID).Scan(&initial, &current, &changes)
	require.NoError(t, err)

	assert.True(t, current.Equal(initial.Add(changes)),
		"current %s != initial %s + changes %s", current, initial, changes)
	assert.False(t, current.IsNegative())
	return current
}

func TestLedger_SettlementScenarios(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	svc := newLedgerServices(testDB, events.NewBus())
	ctx := context.Background()

	tests := []struct {
		status      models.BetStatus
		wantBalance string
	}{
		{models.BetStatusWon, "1150"},
		{models.BetStatusLost, "900"},
		{models.BetStatusVoid, "1000"},
		{models.BetStatusCashout, "900"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			bankroll, err := svc.bankrolls.CreateBankroll(ctx, "scenario-user", models.CreateBankrollInput{
				Name:           "Scenario " + string(tt.status),
				InitialBalance: decimal.NewFromInt(1000),
			})
			require.NoError(t, err)

			bet, err := svc.bets.CreateBet(ctx, "scenario-user", betInput(bankroll.ID, "100", "2.5"))
			require.NoError(t, err)
			assert.True(t, assertLedgerConsistent(t, testDB, bankroll.ID).Equal(decimal.NewFromInt(900)))

			_, err = svc.bets.SettleBet(ctx, "scenario-user", bet.ID, tt.status, nil)
			require.NoError(t, err)

			balance := assertLedgerConsistent(t, testDB, bankroll.ID)
			assert.True(t, balance.Equal(decimal.RequireFromString(tt.wantBalance)), "balance %s", balance)

			_, err = svc.bets.SettleBet(ctx, "scenario-user", bet.ID, models.BetStatusWon, nil)
			assert.ErrorIs(t, err, service.ErrAlreadySettled)
			assert.True(t, assertLedgerConsistent(t, testDB, bankroll.ID).Equal(balance))
		})
	}
}

func TestLedger_InsufficientBalanceWritesNothing(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	svc := newLedgerServices(testDB, events.NewBus())
	ctx := context.Background()

	bankroll, err := svc.bankrolls.CreateBankroll(ctx, "user-a", models.CreateBankrollInput{
		Name:           "Small",
		InitialBalance: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	_, err = svc.bets.CreateBet(ctx, "user-a", betInput(bankroll.ID, "100", "2"))
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	page, err := svc.bets.GetBets(ctx, "user-a", models.BetFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Pagination.Total)
	assert.True(t, assertLedgerConsistent(t, testDB, bankroll.ID).Equal(decimal.NewFromInt(50)))
}

func TestLedger_DeleteRoundTripAndDependentBets(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	svc := newLedgerServices(testDB, events.NewBus())
	ctx := context.Background()

	bankroll, err := svc.bankrolls.CreateBankroll(ctx, "user-a", models.CreateBankrollInput{
		Name:           "Round trip",
		InitialBalance: decimal.RequireFromString("300.75"),
	})
	require.NoError(t, err)

	pending, err := svc.bets.CreateBet(ctx, "user-a", betInput(bankroll.ID, "120.25", "1.9"))
	require.NoError(t, err)

	err = svc.bankrolls.DeleteBankroll(ctx, "user-a", bankroll.ID)
	assert.ErrorIs(t, err, service.ErrHasDependentBets)

	require.NoError(t, svc.bets.DeleteBet(ctx, "user-a", pending.ID))
	assert.True(t, assertLedgerConsistent(t, testDB, bankroll.ID).Equal(decimal.RequireFromString("300.75")))

	settled, err := svc.bets.CreateBet(ctx, "user-a", betInput(bankroll.ID, "50", "3"))
	require.NoError(t, err)
	_, err = svc.bets.SettleBet(ctx, "user-a", settled.ID, models.BetStatusWon, nil)
	require.NoError(t, err)

	// deleting a settled bet keeps its settlement effect
	require.NoError(t, svc.bets.DeleteBet(ctx, "user-a", settled.ID))
	assert.True(t, assertLedgerConsistent(t, testDB, bankroll.ID).Equal(decimal.RequireFromString("400.75")))

	require.NoError(t, svc.bankrolls.DeleteBankroll(ctx, "user-a", bankroll.ID))
	_, err = svc.bankrolls.GetBankrollByID(ctx, "user-a", bankroll.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestLedger_ConcurrentStakesNeverOverdraw(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	svc := newLedgerServices(testDB, events.NewBus())
	ctx := context.Background()

	bankroll, err := svc.bankrolls.CreateBankroll(ctx, "user-a", models.CreateBankrollInput{
		Name:           "Contended",
		InitialBalance: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	const attempts = 10
	var placed, rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.bets.CreateBet(ctx, "user-a", betInput(bankroll.ID, "100", "2"))
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, service.ErrInsufficientBalance):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), placed.Load())
	assert.Equal(t, int32(5), rejected.Load())
	assert.True(t, assertLedgerConsistent(t, testDB, bankroll.ID).IsZero())
}

func TestLedger_EventsReleasedOnlyAfterCommit(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	bus := events.NewBus()
	svc := newLedgerServices(testDB, bus)
	ctx := context.Background()

	received := make(chan events.Event, 16)
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		received <- event
	})

	bankroll, err := svc.bankrolls.CreateBankroll(ctx, "user-a", models.CreateBankrollInput{
		Name:           "Evented",
		InitialBalance: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// initial history row plus the creation event
	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatal("expected events after commit")
		}
	}

	_, err = svc.bets.CreateBet(ctx, "user-a", betInput(bankroll.ID, "100", "2"))
	require.ErrorIs(t, err, service.ErrInsufficientBalance)

	select {
	case ev := <-received:
		t.Fatalf("rolled back work emitted %s", ev.Type())
	case <-time.After(200 * time.Millisecond):
	}
}

func TestLedger_DateRangeStats(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	svc := newLedgerServices(testDB, events.NewBus())
	ctx := context.Background()

	bankroll, err := svc.bankrolls.CreateBankroll(ctx, "user-a", models.CreateBankrollInput{
		Name:           "Stats",
		InitialBalance: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)

	bet, err := svc.bets.CreateBet(ctx, "user-a", betInput(bankroll.ID, "50", "1.8"))
	require.NoError(t, err)
	_, err = svc.bets.SettleBet(ctx, "user-a", bet.ID, models.BetStatusWon, nil)
	require.NoError(t, err)

	today := service.StartOfDay(time.Now())
	stats, err := svc.stats.GetStatsByDateRange(ctx, "user-a", today.AddDate(0, 0, -1), today.AddDate(0, 0, 2).Add(-time.Second))
	require.NoError(t, err)

	require.Len(t, stats.DailyProfits, 3)
	assert.True(t, stats.DailyProfits[0].Profit.IsZero())
	assert.True(t, stats.DailyProfits[1].Profit.Equal(decimal.NewFromInt(40)))
	assert.True(t, stats.DailyProfits[2].Profit.IsZero())
	assert.True(t, stats.TotalProfit.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 80.0, stats.ROI)

	userStats, err := svc.stats.GetUserStats(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, 1, userStats.TotalBankrolls)
	assert.Equal(t, 1, userStats.WonBets)
}
