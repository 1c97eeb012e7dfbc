package service

import (
	"context"
	"time"

	"betledger/models"

	"github.com/google/uuid"
)

const (
	minStatsYear = 1970
	maxStatsYear = 9999
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{
		uowFactory: uowFactory,
	}
}

// readBets loads the bets matching query inside a read-only unit of work
func (s *statsService) readBets(ctx context.Context, userID string, query models.StatsQuery) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().ListForStats(ctx, userID, query)
	if err != nil {
		return nil, persistenceError(err, "list bets for stats")
	}
	return bets, nil
}

// GetUserStats returns totals over every bet the user owns
func (s *statsService) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().ListForStats(ctx, userID, models.StatsQuery{})
	if err != nil {
		return nil, persistenceError(err, "list bets for stats")
	}

	bankrolls, err := uow.BankrollRepository().CountByUser(ctx, userID)
	if err != nil {
		return nil, persistenceError(err, "count bankrolls")
	}

	return ComputeUserStats(bets, bankrolls), nil
}

// GetStatsByDateRange aggregates bets settled between start and end, inclusive
func (s *statsService) GetStatsByDateRange(ctx context.Context, userID string, start, end time.Time) (*models.DateRangeStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if start.IsZero() || end.IsZero() {
		return nil, validationError("start and end dates are required")
	}
	if end.Before(start) {
		return nil, validationError("date range end must not be before its start")
	}
	if days := DaysInRange(start, end); days > maxDateRangeDays {
		return nil, validationError("date range must not span more than %d days", maxDateRangeDays)
	}

	bets, err := s.readBets(ctx, userID, models.StatsQuery{
		SettledFrom:    &start,
		SettledTo:      &end,
		ExcludePending: true,
	})
	if err != nil {
		return nil, err
	}
	return ComputeDateRangeStats(bets, start, end), nil
}

func (s *statsService) GetStatsBySport(ctx context.Context, userID string) ([]*models.SportStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	bets, err := s.readBets(ctx, userID, models.StatsQuery{})
	if err != nil {
		return nil, err
	}
	return ComputeSportStats(bets), nil
}

// GetMonthlyStats returns one entry per month of year, keyed by event date
func (s *statsService) GetMonthlyStats(ctx context.Context, userID string, year int) ([]*models.MonthlyStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if year == 0 {
		year = time.Now().UTC().Year()
	}
	if year < minStatsYear || year > maxStatsYear {
		return nil, validationError("year must be between %d and %d", minStatsYear, maxStatsYear)
	}

	from, to := YearBounds(year)
	bets, err := s.readBets(ctx, userID, models.StatsQuery{
		EventFrom: &from,
		EventTo:   &to,
	})
	if err != nil {
		return nil, err
	}
	return ComputeMonthlyStats(bets, year), nil
}

func (s *statsService) GetBankrollStats(ctx context.Context, userID string, bankrollID uuid.UUID) (*models.BankrollStats, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll, err := uow.BankrollRepository().GetByID(ctx, userID, bankrollID)
	if err != nil {
		return nil, persistenceError(err, "get bankroll")
	}
	if bankroll == nil {
		return nil, notFound("bankroll")
	}

	bets, err := uow.BetRepository().ListForStats(ctx, userID, models.StatsQuery{BankrollID: &bankrollID})
	if err != nil {
		return nil, persistenceError(err, "list bets for stats")
	}

	return ComputeBankrollStats(bankroll, bets), nil
}

func (s *statsService) GetTopProfitableBets(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	return s.listBets(ctx, userID, limit, "list top profitable bets", BetRepository.TopProfitable)
}

func (s *statsService) GetRecentBets(ctx context.Context, userID string, limit int) ([]*models.Bet, error) {
	return s.listBets(ctx, userID, limit, "list recent bets", BetRepository.Recent)
}

type betLister func(repo BetRepository, ctx context.Context, userID string, limit int) ([]*models.Bet, error)

func (s *statsService) listBets(ctx context.Context, userID string, limit int, op string, list betLister) ([]*models.Bet, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	limit, err := normalizeListLimit(limit)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bets, err := list(uow.BetRepository(), ctx, userID, limit)
	if err != nil {
		return nil, persistenceError(err, op)
	}
	if bets == nil {
		bets = []*models.Bet{}
	}
	return bets, nil
}
