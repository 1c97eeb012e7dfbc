package service

import (
	"context"
	"time"

	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const testUserID = "user-123"

// ledgerMocks bundles the mocks a service test needs
type ledgerMocks struct {
	factory      *MockUnitOfWorkFactory
	uow          *MockUnitOfWork
	bankrollRepo *MockBankrollRepository
	betRepo      *MockBetRepository
	historyRepo  *MockBalanceHistoryRepository
	publisher    *MockEventPublisher
}

// newLedgerMocks wires a unit of work that begins and rolls back.
// Tests that expect a commit add it themselves.
func newLedgerMocks(ctx context.Context) *ledgerMocks {
	m := &ledgerMocks{
		factory:      new(MockUnitOfWorkFactory),
		uow:          new(MockUnitOfWork),
		bankrollRepo: new(MockBankrollRepository),
		betRepo:      new(MockBetRepository),
		historyRepo:  new(MockBalanceHistoryRepository),
		publisher:    new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.bankrollRepo, m.betRepo, m.historyRepo, m.publisher)

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	return m
}

func (m *ledgerMocks) expectCommit() {
	m.uow.On("Commit").Return(nil)
}

func (m *ledgerMocks) allowEvents() {
	m.publisher.On("Publish", mock.Anything).Return()
}

func (m *ledgerMocks) assertExpectations(t mock.TestingT) {
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.bankrollRepo.AssertExpectations(t)
	m.betRepo.AssertExpectations(t)
	m.historyRepo.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by value rather than representation
func decEq(s string) any {
	want := dec(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

func historyMatching(txType models.TransactionType, before, after, change string) any {
	return mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == txType &&
			h.BalanceBefore.Equal(dec(before)) &&
			h.BalanceAfter.Equal(dec(after)) &&
			h.ChangeAmount.Equal(dec(change))
	})
}

func newTestBankroll(balance string) *models.Bankroll {
	return &models.Bankroll{
		ID:             uuid.New(),
		UserID:         testUserID,
		Name:           "Main bankroll",
		InitialBalance: dec("1000"),
		CurrentBalance: dec(balance),
		Currency:       models.DefaultCurrency,
		IsActive:       true,
	}
}

func newPendingBet(bankrollID uuid.UUID, stake, odds string) *models.Bet {
	return &models.Bet{
		ID:         uuid.New(),
		UserID:     testUserID,
		BankrollID: bankrollID,
		Sport:      models.SportFootball,
		Event:      "Flamengo vs Palmeiras",
		Market:     "Match Result",
		Selection:  "Flamengo",
		Odds:       dec(odds),
		Stake:      dec(stake),
		Status:     models.BetStatusPending,
		EventDate:  time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
		PlacedAt:   time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC),
		Tags:       []string{},
	}
}

func settledBet(status models.BetStatus, stake, odds, profit string, settledAt time.Time) *models.Bet {
	bet := newPendingBet(uuid.New(), stake, odds)
	bet.Status = status
	bet.Profit = decimal.NewNullDecimal(dec(profit))
	bet.SettledAt = &settledAt
	return bet
}
