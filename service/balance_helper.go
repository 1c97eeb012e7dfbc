package service

import (
	"context"
	"fmt"

	"betledger/events"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceChange describes one signed adjustment of a bankroll's current balance
type BalanceChange struct {
	Amount             decimal.Decimal
	TransactionType    models.TransactionType
	RequireNonNegative bool
	RelatedBetID       *uuid.UUID
	Metadata           map[string]any
}

// LockBankroll loads a caller-owned bankroll and holds its row lock for the rest of
// the unit of work. Every balance mutation must start here.
func LockBankroll(ctx context.Context, uow UnitOfWork, userID string, bankrollID uuid.UUID) (*models.Bankroll, error) {
	bankroll, err := uow.BankrollRepository().GetForUpdate(ctx, userID, bankrollID)
	if err != nil {
		return nil, persistenceError(err, "lock bankroll")
	}
	if bankroll == nil {
		return nil, notFound("bankroll")
	}
	return bankroll, nil
}

// EnsureNonNegative is the single rule shared by withdrawals and stake debits:
// applying delta to balance must not leave it below zero.
func EnsureNonNegative(balance, delta decimal.Decimal) error {
	if balance.Add(delta).IsNegative() {
		return insufficientBalance("insufficient balance: available %s, required %s",
			balance.StringFixed(2), delta.Neg().StringFixed(2))
	}
	return nil
}

// ApplyBalanceChange is the single entry point for changing a bankroll balance.
// The bankroll must have been locked with LockBankroll in the same unit of work;
// its CurrentBalance is updated in place.
func ApplyBalanceChange(ctx context.Context, uow UnitOfWork, bankroll *models.Bankroll, change BalanceChange) (*models.BalanceHistory, error) {
	before := bankroll.CurrentBalance
	after := before.Add(change.Amount)

	if change.RequireNonNegative {
		if err := EnsureNonNegative(before, change.Amount); err != nil {
			return nil, err
		}
	}

	if err := uow.BankrollRepository().UpdateBalance(ctx, bankroll.ID, after); err != nil {
		return nil, persistenceError(err, "update bankroll balance")
	}

	history := &models.BalanceHistory{
		BankrollID:          bankroll.ID,
		UserID:              bankroll.UserID,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ChangeAmount:        change.Amount,
		TransactionType:     change.TransactionType,
		TransactionMetadata: change.Metadata,
	}
	if change.RelatedBetID != nil {
		betID := *change.RelatedBetID
		relatedType := models.RelatedTypeBet
		history.RelatedID = &betID
		history.RelatedType = &relatedType
	}

	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, persistenceError(err, "record balance change")
	}

	bankroll.CurrentBalance = after
	return history, nil
}

// RecordBalanceChange records a balance history entry and queues its event.
// The event is released only if the unit of work commits.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if !history.BalanceBefore.Add(history.ChangeAmount).Equal(history.BalanceAfter) {
		return fmt.Errorf("balance history is inconsistent: %s + %s != %s",
			history.BalanceBefore, history.ChangeAmount, history.BalanceAfter)
	}

	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.UserID,
		BankrollID:      history.BankrollID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		ChangeAmount:    history.ChangeAmount,
		TransactionType: history.TransactionType,
		RelatedID:       history.RelatedID,
	})

	return nil
}
