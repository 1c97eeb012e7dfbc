package api

import (
	"context"
	"time"

	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBankrollService struct {
	mock.Mock
}

func (m *MockBankrollService) CreateBankroll(ctx context.Context, userID string, input models.CreateBankrollInput) (*models.Bankroll, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollService) GetBankrolls(ctx context.Context, userID string) ([]*models.Bankroll, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bankroll), args.Error(1)
}

func (m *MockBankrollService) GetBankrollByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollService) GetActiveBankroll(ctx context.Context, userID string) (*models.Bankroll, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollService) UpdateBankroll(ctx context.Context, userID string, id uuid.UUID, update models.BankrollUpdate) (*models.Bankroll, error) {
	args := m.Called(ctx, userID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollService) UpdateBankrollBalance(ctx context.Context, userID string, id uuid.UUID, op models.BalanceOperation, amount decimal.Decimal) (*models.Bankroll, error) {
	args := m.Called(ctx, userID, id, op, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bankroll), args.Error(1)
}

func (m *MockBankrollService) DeleteBankroll(ctx context.Context, userID string, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockBankrollService) GetBalanceHistory(ctx context.Context, userID string, id uuid.UUID, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

type MockBetService struct {
	mock.Mock
}

func (m *MockBetService) CreateBet(ctx context.Context, userID string, input models.CreateBetInput) (*models.Bet, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetService) UpdateBet(ctx context.Context, userID string, betID uuid.UUID, input models.UpdateBetInput) (*models.Bet, error) {
	args := m.Called(ctx, userID, betID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetService) SettleBet(ctx context.Context, userID string, betID uuid.UUID, status models.BetStatus, result *models.BetResult) (*models.Bet, error) {
	args := m.Called(ctx, userID, betID, status, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetService) DeleteBet(ctx context.Context, userID string, betID uuid.UUID) error {
	args := m.Called(ctx, userID, betID)
	return args.Error(0)
}

func (m *MockBetService) GetBets(ctx context.Context, userID string, filter models.BetFilter) (*models.BetPage, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetPage), args.Error(1)
}

func (m *MockBetService) GetBetByID(ctx context.Context, userID string, betID uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, userID, betID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

func (m *MockStatsService) GetStatsByDateRange(ctx context.Context, userID string, start, end time.Time) (*models.DateRangeStats, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DateRangeStats), args.Error(1)
}

func (m *MockStatsService) GetStatsBySport(ctx context.Context, userID string) ([]*models.SportStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SportStats), args.Error(1)
}

func (m *MockStatsService) GetMonthlyStats(ctx context.Context, userID string, year int) ([]*models.MonthlyStats, error) {
	args := m.Called(ctx, userID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MonthlyStats), args.Error(1)
}

func (m *MockStatsService) GetBankrollStats(ctx context.Context, userID string, bankrollID uuid.UUID) (*models.BankrollStats, error) {
	args := m.Called(ctx, userID, bankrollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BankrollStats), args.Error(1)
}

func (m *MockStatsService) GetTopProfitableBets(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockStatsService) GetRecentBets(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}
