package service

import (
	"context"

	"betledger/events"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockBankrollRepository is a mock implementation of BankrollRepository
type MockBankrollRepository struct {
	mock.Mock
}

func (m *MockBankrollRepository) Create(ctx context.Context, bankroll *models.Bankroll) error {
	args := m.Called(ctx, bankroll)
	return args.Error(0)
}

func (m *MockBankrollRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollRepository) GetForUpdate(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollRepository) ListByUser(ctx context.Context, userID string) ([]*models.Bankroll, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bankroll), args.Error(1)
}

func (m *MockBankrollRepository) GetOldestActive(ctx context.Context, userID string) (*models.Bankroll, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockBankrollRepository) Update(ctx context.Context, bankroll *models.Bankroll) error {
	args := m.Called(ctx, bankroll)
	return args.Error(0)
}

func (m *MockBankrollRepository) UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error {
	args := m.Called(ctx, id, newBalance)
	return args.Error(0)
}

func (m *MockBankrollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetForUpdate(ctx context.Context, userID string, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) Update(ctx context.Context, bet *models.Bet) (bool, error) {
	args := m.Called(ctx, bet)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) Settle(ctx context.Context, bet *models.Bet) (bool, error) {
	args := m.Called(ctx, bet)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBetRepository) List(ctx context.Context, userID string, filter models.BetFilter) ([]*models.Bet, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Bet), args.Int(1), args.Error(2)
}

func (m *MockBetRepository) CountByBankroll(ctx context.Context, bankrollID uuid.UUID) (int, error) {
	args := m.Called(ctx, bankrollID)
	return args.Int(0), args.Error(1)
}

func (m *MockBetRepository) ListRecentByBankroll(ctx context.Context, bankrollID uuid.UUID, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, bankrollID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) ListForStats(ctx context.Context, userID string, query models.StatsQuery) ([]*models.Bet, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) TopProfitable(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) Recent(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByBankroll(ctx context.Context, bankrollID uuid.UUID, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, bankrollID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	bankrollRepo       BankrollRepository
	betRepo            BetRepository
	balanceHistoryRepo BalanceHistoryRepository
	eventBus           EventPublisher
}

// SetRepositories wires the repositories the getters hand out
func (m *MockUnitOfWork) SetRepositories(bankrollRepo BankrollRepository, betRepo BetRepository, balanceHistoryRepo BalanceHistoryRepository, eventBus EventPublisher) {
	m.bankrollRepo = bankrollRepo
	m.betRepo = betRepo
	m.balanceHistoryRepo = balanceHistoryRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) BankrollRepository() BankrollRepository {
	return m.bankrollRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
