package service

import (
	"context"
	"strings"

	"betledger/events"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const recentBetsPerBankroll = 10

// bankrollService implements the BankrollService interface
type bankrollService struct {
	uowFactory      UnitOfWorkFactory
	defaultCurrency string
}

// NewBankrollService creates a new bankroll service
func NewBankrollService(uowFactory UnitOfWorkFactory, defaultCurrency string) BankrollService {
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &bankrollService{
		uowFactory:      uowFactory,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

// CreateBankroll opens a bankroll whose current balance equals its initial balance.
// An "initial" history row marks the opening with a zero delta.
func (s *bankrollService) CreateBankroll(ctx context.Context, userID string, input models.CreateBankrollInput) (*models.Bankroll, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	input, err := normalizeCreateBankroll(input, s.defaultCurrency)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll := &models.Bankroll{
		UserID:         userID,
		Name:           input.Name,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		Currency:       input.Currency,
		IsActive:       true,
	}
	if err := uow.BankrollRepository().Create(ctx, bankroll); err != nil {
		return nil, persistenceError(err, "create bankroll")
	}

	history := &models.BalanceHistory{
		BankrollID:      bankroll.ID,
		UserID:          userID,
		BalanceBefore:   bankroll.InitialBalance,
		BalanceAfter:    bankroll.InitialBalance,
		ChangeAmount:    decimal.Zero,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"initial_balance": bankroll.InitialBalance.StringFixed(2),
			"currency":        bankroll.Currency,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, persistenceError(err, "record initial balance")
	}

	uow.EventBus().Publish(events.BankrollCreatedEvent{
		UserID:         userID,
		BankrollID:     bankroll.ID,
		Name:           bankroll.Name,
		InitialBalance: bankroll.InitialBalance,
		Currency:       bankroll.Currency,
	})

	if err := uow.Commit(); err != nil {
		return nil, persistenceError(err, "commit transaction")
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"bankrollID": bankroll.ID,
		"initial":    bankroll.InitialBalance.StringFixed(2),
	}).Info("Bankroll created")

	return bankroll, nil
}

func (s *bankrollService) GetBankrolls(ctx context.Context, userID string) ([]*models.Bankroll, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankrolls, err := uow.BankrollRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, persistenceError(err, "list bankrolls")
	}
	if bankrolls == nil {
		bankrolls = []*models.Bankroll{}
	}
	return bankrolls, nil
}

// GetBankrollByID returns a bankroll together with its most recent bets
func (s *bankrollService) GetBankrollByID(ctx context.Context, userID string, id uuid.UUID) (*models.Bankroll, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll, err := uow.BankrollRepository().GetByID(ctx, userID, id)
	if err != nil {
		return nil, persistenceError(err, "get bankroll")
	}
	if bankroll == nil {
		return nil, notFound("bankroll")
	}

	recent, err := uow.BetRepository().ListRecentByBankroll(ctx, id, recentBetsPerBankroll)
	if err != nil {
		return nil, persistenceError(err, "list recent bets")
	}
	bankroll.RecentBets = recent

	return bankroll, nil
}

// GetActiveBankroll returns the oldest active bankroll of the user
func (s *bankrollService) GetActiveBankroll(ctx context.Context, userID string) (*models.Bankroll, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll, err := uow.BankrollRepository().GetOldestActive(ctx, userID)
	if err != nil {
		return nil, persistenceError(err, "get active bankroll")
	}
	if bankroll == nil {
		return nil, notFound("active bankroll")
	}
	return bankroll, nil
}

func (s *bankrollService) UpdateBankroll(ctx context.Context, userID string, id uuid.UUID, update models.BankrollUpdate) (*models.Bankroll, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if update.Name == nil && update.IsActive == nil {
		return nil, validationError("nothing to update")
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if err := validateBankrollName(name); err != nil {
			return nil, err
		}
		update.Name = &name
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll, err := LockBankroll(ctx, uow, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		bankroll.Name = *update.Name
	}
	if update.IsActive != nil {
		bankroll.IsActive = *update.IsActive
	}

	if err := uow.BankrollRepository().Update(ctx, bankroll); err != nil {
		return nil, persistenceError(err, "update bankroll")
	}
	if err := uow.Commit(); err != nil {
		return nil, persistenceError(err, "commit transaction")
	}
	return bankroll, nil
}

// UpdateBankrollBalance applies a manual add, subtract or set to a bankroll
func (s *bankrollService) UpdateBankrollBalance(ctx context.Context, userID string, id uuid.UUID, op models.BalanceOperation, amount decimal.Decimal) (*models.Bankroll, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !op.IsValid() {
		return nil, validationError("operation must be one of add, subtract or set")
	}
	if err := validateMoney("amount", amount, maxBalanceAmount); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll, err := LockBankroll(ctx, uow, userID, id)
	if err != nil {
		return nil, err
	}

	change := BalanceChange{
		Metadata: map[string]any{
			"operation": string(op),
			"amount":    amount.StringFixed(2),
		},
	}
	switch op {
	case models.BalanceOperationAdd:
		change.Amount = amount
		change.TransactionType = models.TransactionTypeDeposit
	case models.BalanceOperationSubtract:
		change.Amount = amount.Neg()
		change.TransactionType = models.TransactionTypeWithdrawal
		change.RequireNonNegative = true
	case models.BalanceOperationSet:
		change.Amount = amount.Sub(bankroll.CurrentBalance)
		change.TransactionType = models.TransactionTypeBalanceSet
	}

	if _, err := ApplyBalanceChange(ctx, uow, bankroll, change); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, persistenceError(err, "commit transaction")
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"bankrollID": id,
		"operation":  op,
		"newBalance": bankroll.CurrentBalance.StringFixed(2),
	}).Info("Bankroll balance updated")

	return bankroll, nil
}

// DeleteBankroll removes a bankroll that owns no bets
func (s *bankrollService) DeleteBankroll(ctx context.Context, userID string, id uuid.UUID) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	if _, err := LockBankroll(ctx, uow, userID, id); err != nil {
		return err
	}

	count, err := uow.BetRepository().CountByBankroll(ctx, id)
	if err != nil {
		return persistenceError(err, "count bankroll bets")
	}
	if count > 0 {
		return hasDependentBets(count)
	}

	if err := uow.BankrollRepository().Delete(ctx, id); err != nil {
		return persistenceError(err, "delete bankroll")
	}
	if err := uow.Commit(); err != nil {
		return persistenceError(err, "commit transaction")
	}
	return nil
}

// GetBalanceHistory returns the ledger entries of a caller-owned bankroll
func (s *bankrollService) GetBalanceHistory(ctx context.Context, userID string, id uuid.UUID, limit int) ([]*models.BalanceHistory, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = defaultPageLimit
	}
	if limit < 1 || limit > maxPageLimit {
		return nil, validationError("limit must be between 1 and %d", maxPageLimit)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, persistenceError(err, "begin transaction")
	}
	defer uow.Rollback()

	bankroll, err := uow.BankrollRepository().GetByID(ctx, userID, id)
	if err != nil {
		return nil, persistenceError(err, "get bankroll")
	}
	if bankroll == nil {
		return nil, notFound("bankroll")
	}

	history, err := uow.BalanceHistoryRepository().GetByBankroll(ctx, id, limit)
	if err != nil {
		return nil, persistenceError(err, "get balance history")
	}
	if history == nil {
		history = []*models.BalanceHistory{}
	}
	return history, nil
}
