package service

import (
	"context"
	"time"

	"betledger/events"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankrollRepository defines the interface for bankroll data access.
// Lookups are scoped to the owning user and return nil, nil when nothing matches.
type BankrollRepository interface {
	// Create inserts a bankroll and fills its ID and timestamps
	Create(ctx context.Context, bankroll *models.Bankroll) error

	// GetByID retrieves a bankroll with its bet count
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error)

	// GetForUpdate retrieves a bankroll and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error)

	// ListByUser returns a user's bankrolls, newest first, with bet counts
	ListByUser(ctx context.Context, userID string) ([]*models.Bankroll, error)

	// GetOldestActive returns the earliest created active bankroll
	GetOldestActive(ctx context.Context, userID string) (*models.Bankroll, error)

	// CountByUser returns how many bankrolls a user owns
	CountByUser(ctx context.Context, userID string) (int, error)

	// Update persists name and active flag
	Update(ctx context.Context, bankroll *models.Bankroll) error

	// UpdateBalance writes a new current balance
	UpdateBalance(ctx context.Context, id uuid.UUID, newBalance decimal.Decimal) error

	// Delete removes a bankroll; its balance history goes with it
	Delete(ctx context.Context, id uuid.UUID) error
}

// BetRepository defines the interface for bet data access.
// Lookups are scoped to the owning user and return nil, nil when nothing matches.
type BetRepository interface {
	// Create inserts a bet; a preassigned ID is kept
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet joined with its bankroll's name and currency
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bet, error)

	// GetForUpdate retrieves a bet and locks its row until the transaction ends
	GetForUpdate(ctx context.Context, userID string, id uuid.UUID) (*models.Bet, error)

	// Update persists the editable fields of a pending bet.
	// It reports false when the bet is no longer pending.
	Update(ctx context.Context, bet *models.Bet) (bool, error)

	// Settle persists status, result, profit and settled-at of a pending bet.
	// It reports false when the bet was settled concurrently.
	Settle(ctx context.Context, bet *models.Bet) (bool, error)

	// Delete removes a bet
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of a user's bets, newest placed first, plus the total match count
	List(ctx context.Context, userID string, filter models.BetFilter) ([]*models.Bet, int, error)

	// CountByBankroll returns how many bets a bankroll owns
	CountByBankroll(ctx context.Context, bankrollID uuid.UUID) (int, error)

	// ListRecentByBankroll returns a bankroll's latest bets
	ListRecentByBankroll(ctx context.Context, bankrollID uuid.UUID, limit int) ([]*models.Bet, error)

	// ListForStats returns every bet matching the query
	ListForStats(ctx context.Context, userID string, query models.StatsQuery) ([]*models.Bet, error)

	// TopProfitable returns settled bets ordered by profit, highest first
	TopProfitable(ctx context.Context, userID string, limit int) ([]*models.Bet, error)

	// Recent returns bets ordered by placement time, newest first
	Recent(ctx context.Context, userID string, limit int) ([]*models.Bet, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByBankroll returns a bankroll's history, newest first
	GetByBankroll(ctx context.Context, bankrollID uuid.UUID, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// BankrollService defines the interface for bankroll operations
type BankrollService interface {
	CreateBankroll(ctx context.Context, userID string, input models.CreateBankrollInput) (*models.Bankroll, error)
	GetBankrolls(ctx context.Context, userID string) ([]*models.Bankroll, error)
	GetBankrollByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error)
	GetActiveBankroll(ctx context.Context, userID string) (*models.Bankroll, error)
	UpdateBankroll(ctx context.Context, userID string, id uuid.UUID, update models.BankrollUpdate) (*models.Bankroll, error)
	UpdateBankrollBalance(ctx context.Context, userID string, id uuid.UUID, op models.BalanceOperation, amount decimal.Decimal) (*models.Bankroll, error)
	DeleteBankroll(ctx context.Context, userID string, id uuid.UUID) error
	GetBalanceHistory(ctx context.Context, userID string, id uuid.UUID, limit int) ([]*models.BalanceHistory, error)
}

// BetService defines the interface for the bet lifecycle
type BetService interface {
	CreateBet(ctx context.Context, userID string, input models.CreateBetInput) (*models.Bet, error)
	UpdateBet(ctx context.Context, userID string, betID uuid.UUID, input models.UpdateBetInput) (*models.Bet, error)
	SettleBet(ctx context.Context, userID string, betID uuid.UUID, status models.BetStatus, result *models.BetResult) (*models.Bet, error)
	DeleteBet(ctx context.Context, userID string, betID uuid.UUID) error
	GetBets(ctx context.Context, userID string, filter models.BetFilter) (*models.BetPage, error)
	GetBetByID(ctx context.Context, userID string, betID uuid.UUID) (*models.Bet, error)
}

// StatsService defines the interface for statistics
type StatsService interface {
	GetUserStats(ctx context.Context, userID string) (*models.UserStats, error)
	GetStatsByDateRange(ctx context.Context, userID string, start, end time.Time) (*models.DateRangeStats, error)
	GetStatsBySport(ctx context.Context, userID string) ([]*models.SportStats, error)
	GetMonthlyStats(ctx context.Context, userID string, year int) ([]*models.MonthlyStats, error)
	GetBankrollStats(ctx context.Context, userID string, bankrollID uuid.UUID) (*models.BankrollStats, error)
	GetTopProfitableBets(ctx context.Context, userID string, limit int) ([]*models.Bet, error)
	GetRecentBets(ctx context.Context, userID string, limit int) ([]*models.Bet, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and releases queued events
	Commit() error

	// Rollback rolls back the transaction; it is a no-op after Commit
	Rollback() error

	// Repository getters
	BankrollRepository() BankrollRepository
	BetRepository() BetRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
