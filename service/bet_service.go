package service

import (
	"context"
	"strings"
	"time"

	"betledger/events"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// betService implements the BetService interface
type betService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewBetService creates a new bet service
func NewBetService(uowFactory UnitOfWorkFactory) BetService {
	return &betService{
		uowFactory: uowFactory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateBet records a pending bet and debits its stake from the bankroll
func (s *betService) CreateBet(ctx context.Context, userID string, input models.CreateBetInput) (*models.Bet, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	sport := input.Sport
	if sport == "" {
		sport = models.SportFootball
	}
	bet := &models.Bet{
		ID:          uuid.New(),
		UserID:      userID,
		BankrollID:  input.BankrollID,
		Sport:       sport,
		Event:       strings.TrimSpace(input.Event),
		Competition: trimOptional(input.Competition),
		Market:      strings.TrimSpace(input.Market),
		Selection:   strings.TrimSpace(input.Selection),
		Odds:        input.Odds,
		Stake:       input.Stake,
		Status:      models.BetStatusPending,
		EventDate:   input.EventDate.UTC(),
		Bookmaker:   trimOptional(input.Bookmaker),
		Notes:       trimOptional(input.Notes),
		Tags:        normalizeTags(input.Tags),
	}
	if err := validateBetFields(bet); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll, err := LockBankroll(ctx, uow, userID, input.BankrollID)
	if err != nil {
		return nil, err
	}

	// The debit goes first so an insufficient balance aborts before any bet row exists
	_, err = ApplyBalanceChange(ctx, uow, bankroll, BalanceChange{
		Amount:             bet.Stake.Neg(),
		TransactionType:    models.TransactionTypeStakeDebit,
		RequireNonNegative: true,
		RelatedBetID:       &bet.ID,
		Metadata: map[string]any{
			"event":     bet.Event,
			"selection": bet.Selection,
			"odds":      bet.Odds.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, persistenceError(err, "create bet")
	}
	bet.BankrollName = bankroll.Name
	bet.BankrollCurrency = bankroll.Currency

	uow.EventBus().Publish(events.BetPlacedEvent{
		UserID:     userID,
		BetID:      bet.ID,
		BankrollID: bet.BankrollID,
		Sport:      bet.Sport,
		Event:      bet.Event,
		Selection:  bet.Selection,
		Odds:       bet.Odds,
		Stake:      bet.Stake,
	})

	if err := uow.Commit(); err != nil {
		return nil, persistenceError(err, "commit transaction")
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"betID":      bet.ID,
		"bankrollID": bet.BankrollID,
		"stake":      bet.Stake.StringFixed(2),
		"odds":       bet.Odds.String(),
	}).Info("Bet placed")

	return bet, nil
}

// UpdateBet edits a pending bet. A stake change moves the difference between
// bet and bankroll so the stake stays debited exactly once.
func (s *betService) UpdateBet(ctx context.Context, userID string, betID uuid.UUID, input models.UpdateBetInput) (*models.Bet, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetForUpdate(ctx, userID, betID)
	if err != nil {
		return nil, persistenceError(err, "get bet")
	}
	if bet == nil {
		return nil, notFound("bet")
	}
	if !bet.IsPending() {
		return nil, alreadySettled()
	}

	previousStake := bet.Stake
	applyBetUpdate(bet, input)
	if err := validateBetFields(bet); err != nil {
		return nil, err
	}

	if delta := previousStake.Sub(bet.Stake); !delta.IsZero() {
		bankroll, err := LockBankroll(ctx, uow, userID, bet.BankrollID)
		if err != nil {
			return nil, err
		}
		transactionType := models.TransactionTypeStakeRefund
		if delta.IsNegative() {
			transactionType = models.TransactionTypeStakeDebit
		}
		_, err = ApplyBalanceChange(ctx, uow, bankroll, BalanceChange{
			Amount:             delta,
			TransactionType:    transactionType,
			RequireNonNegative: true,
			RelatedBetID:       &bet.ID,
			Metadata: map[string]any{
				"previous_stake": previousStake.StringFixed(2),
				"new_stake":      bet.Stake.StringFixed(2),
			},
		})
		if err != nil {
			return nil, err
		}
	}

	updated, err := uow.BetRepository().Update(ctx, bet)
	if err != nil {
		return nil, persistenceError(err, "update bet")
	}
	if !updated {
		return nil, alreadySettled()
	}

	if err := uow.Commit(); err != nil {
		return nil, persistenceError(err, "commit transaction")
	}
	return bet, nil
}

func applyBetUpdate(bet *models.Bet, input models.UpdateBetInput) {
	if input.Sport != nil {
		bet.Sport = *input.Sport
	}
	if input.Event != nil {
		bet.Event = strings.TrimSpace(*input.Event)
	}
	if input.Competition != nil {
		bet.Competition = trimOptional(input.Competition)
	}
	if input.Market != nil {
		bet.Market = strings.TrimSpace(*input.Market)
	}
	if input.Selection != nil {
		bet.Selection = strings.TrimSpace(*input.Selection)
	}
	if input.Odds != nil {
		bet.Odds = *input.Odds
	}
	if input.Stake != nil {
		bet.Stake = *input.Stake
	}
	if input.EventDate != nil {
		bet.EventDate = input.EventDate.UTC()
	}
	if input.Bookmaker != nil {
		bet.Bookmaker = trimOptional(input.Bookmaker)
	}
	if input.Notes != nil {
		bet.Notes = trimOptional(input.Notes)
	}
	if input.Tags != nil {
		bet.Tags = normalizeTags(input.Tags)
	}
}

// SettleBet moves a pending bet to a terminal status and credits the bankroll
func (s *betService) SettleBet(ctx context.Context, userID string, betID uuid.UUID, status models.BetStatus, result *models.BetResult) (*models.Bet, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !status.IsTerminal() {
		return nil, validationError("bets can only be settled as WON, LOST, VOID or CASHOUT")
	}
	if result != nil && !result.IsValid() {
		return nil, validationError("result %q is not supported", *result)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetForUpdate(ctx, userID, betID)
	if err != nil {
		return nil, persistenceError(err, "get bet")
	}
	if bet == nil {
		return nil, notFound("bet")
	}
	if !bet.IsPending() {
		return nil, alreadySettled()
	}

	outcome, err := ComputeSettlement(status, bet.Stake, bet.Odds)
	if err != nil {
		return nil, err
	}

	settledAt := s.now()
	bet.Status = status
	bet.Result = result
	bet.Profit = decimal.NewNullDecimal(outcome.Profit)
	bet.SettledAt = &settledAt

	settled, err := uow.BetRepository().Settle(ctx, bet)
	if err != nil {
		return nil, persistenceError(err, "settle bet")
	}
	if !settled {
		return nil, alreadySettled()
	}

	bankroll, err := LockBankroll(ctx, uow, userID, bet.BankrollID)
	if err != nil {
		return nil, err
	}
	if !outcome.Credit.IsZero() {
		_, err = ApplyBalanceChange(ctx, uow, bankroll, BalanceChange{
			Amount:          outcome.Credit,
			TransactionType: settlementTransactionType(status),
			RelatedBetID:    &bet.ID,
			Metadata: map[string]any{
				"status": string(status),
				"profit": outcome.Profit.StringFixed(2),
			},
		})
		if err != nil {
			return nil, err
		}
	}
	bet.BankrollName = bankroll.Name
	bet.BankrollCurrency = bankroll.Currency

	uow.EventBus().Publish(events.BetSettledEvent{
		UserID:     userID,
		BetID:      bet.ID,
		BankrollID: bet.BankrollID,
		Event:      bet.Event,
		Selection:  bet.Selection,
		Status:     status,
		Odds:       bet.Odds,
		Stake:      bet.Stake,
		Profit:     outcome.Profit,
		Credit:     outcome.Credit,
		NewBalance: bankroll.CurrentBalance,
		Currency:   bankroll.Currency,
	})

	if err := uow.Commit(); err != nil {
		return nil, persistenceError(err, "commit transaction")
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"betID":  bet.ID,
		"status": status,
		"profit": outcome.Profit.StringFixed(2),
	}).Info("Bet settled")

	return bet, nil
}

// DeleteBet removes a bet. Pending stakes are refunded; settled bets are removed
// without touching the balance.
func (s *betService) DeleteBet(ctx context.Context, userID string, betID uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetForUpdate(ctx, userID, betID)
	if err != nil {
		return persistenceError(err, "get bet")
	}
	if bet == nil {
		return notFound("bet")
	}

	refund := decimal.Zero
	if bet.IsPending() {
		bankroll, err := LockBankroll(ctx, uow, userID, bet.BankrollID)
		if err != nil {
			return err
		}
		refund = bet.Stake
		_, err = ApplyBalanceChange(ctx, uow, bankroll, BalanceChange{
			Amount:          refund,
			TransactionType: models.TransactionTypeStakeRefund,
			RelatedBetID:    &bet.ID,
			Metadata: map[string]any{
				"reason": "bet deleted",
			},
		})
		if err != nil {
			return err
		}
	}

	if err := uow.BetRepository().Delete(ctx, bet.ID); err != nil {
		return persistenceError(err, "delete bet")
	}

	uow.EventBus().Publish(events.BetDeletedEvent{
		UserID:     userID,
		BetID:      bet.ID,
		BankrollID: bet.BankrollID,
		Status:     bet.Status,
		Refund:     refund,
	})

	if err := uow.Commit(); err != nil {
		return persistenceError(err, "commit transaction")
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"betID":  bet.ID,
		"status": bet.Status,
		"refund": refund.StringFixed(2),
	}).Info("Bet deleted")

	return nil
}

func (s *betService) GetBets(ctx context.Context, userID string, filter models.BetFilter) (*models.BetPage, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	filter, err := normalizeBetFilter(filter)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bets, total, err := uow.BetRepository().List(ctx, userID, filter)
	if err != nil {
		return nil, persistenceError(err, "list bets")
	}
	if bets == nil {
		bets = []*models.Bet{}
	}

	return &models.BetPage{
		Bets: bets,
		Pagination: models.Pagination{
			Total:  total,
			Limit:  filter.Limit,
			Offset: filter.Offset,
		},
	}, nil
}

func (s *betService) GetBetByID(ctx context.Context, userID string, betID uuid.UUID) (*models.Bet, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bet, err := uow.BetRepository().GetByID(ctx, userID, betID)
	if err != nil {
		return nil, persistenceError(err, "get bet")
	}
	if bet == nil {
		return nil, notFound("bet")
	}
	return bet, nil
}
